package imaging

import (
	"image"
	"math"
)

// Matrix is a dense row-major grid of float64 values.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix allocates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at (r, c).
func (m *Matrix) At(r, c int) float64 {
	return m.Data[r*m.Cols+c]
}

// Set stores v at (r, c).
func (m *Matrix) Set(r, c int, v float64) {
	m.Data[r*m.Cols+c] = v
}

// Row returns row r as a slice sharing the matrix storage.
func (m *Matrix) Row(r int) []float64 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// Fill sets every element to v.
func (m *Matrix) Fill(v float64) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// MinMax returns the smallest and largest values in m.
// An empty matrix yields (0, 0).
func (m *Matrix) MinMax() (float64, float64) {
	if len(m.Data) == 0 {
		return 0, 0
	}
	lo, hi := m.Data[0], m.Data[0]
	for _, v := range m.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ToGray renders m as an 8-bit grayscale image, clamping values to [0,1].
func (m *Matrix) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for i, v := range m.Data {
		img.Pix[i] = uint8(math.Round(clampFloat(v, 0, 1) * 255))
	}
	return img
}

// Mask is a dense row-major boolean grid.
type Mask struct {
	Rows int
	Cols int
	Data []bool
}

// NewMask allocates an all-false rows x cols mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// At returns the value at (r, c).
func (m *Mask) At(r, c int) bool {
	return m.Data[r*m.Cols+c]
}

// Count returns the number of true cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Data {
		if v {
			n++
		}
	}
	return n
}

// Float converts the mask to a matrix of 0 and 1 values.
func (m *Mask) Float() *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	for i, v := range m.Data {
		if v {
			out.Data[i] = 1
		}
	}
	return out
}

// ToGray renders true cells as white and false cells as black.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for i, v := range m.Data {
		if v {
			img.Pix[i] = 255
		}
	}
	return img
}

// FromGray converts an 8-bit grayscale image to a matrix in [0,1].
func FromGray(img *image.Gray) *Matrix {
	b := img.Bounds()
	out := NewMatrix(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Data[y*out.Cols+x] = float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255.0
		}
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
