package imaging

import (
	"fmt"
	"math"
)

// Resize resamples m to rows x cols using linear interpolation.
//
// Parameters:
//   - m: Source matrix. It is not modified.
//   - rows, cols: Output size. Both must be positive.
//
// Returns the resampled matrix. When the size already matches, a copy of m
// is returned untouched.
//
// # Algorithm
//
//  1. Anti-aliasing: for every axis that shrinks by a factor s > 1, a
//     Gaussian with sigma = (s-1)/2 and mirror boundaries is applied first.
//  2. Coordinate mapping: output index d samples the source at
//     (d+0.5)*s - 0.5, so pixel centres line up rather than pixel corners.
//  3. Interpolation: separable linear interpolation, mirror boundaries.
//
// The same routine resamples contour point lists: an N x 2 matrix resized to
// 255 x 2 keeps its columns intact and interpolates along the path.
func Resize(m *Matrix, rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("imaging: invalid resize target %dx%d", rows, cols))
	}
	if m.Rows == rows && m.Cols == cols {
		return m.Clone()
	}

	rowScale := float64(m.Rows) / float64(rows)
	colScale := float64(m.Cols) / float64(cols)

	src := m
	sigmaRow := math.Max(0, (rowScale-1)/2)
	sigmaCol := math.Max(0, (colScale-1)/2)
	if sigmaRow > 0 || sigmaCol > 0 {
		src = Gaussian(m, sigmaRow, sigmaCol, Mirror)
	}

	// Horizontal pass: m.Rows x cols
	colTaps := linearTaps(m.Cols, cols, colScale)
	mid := NewMatrix(src.Rows, cols)
	for r := 0; r < src.Rows; r++ {
		in := src.Row(r)
		out := mid.Row(r)
		for c, t := range colTaps {
			out[c] = lerp(in[t.i0], in[t.i1], t.w)
		}
	}

	// Vertical pass: rows x cols
	rowTaps := linearTaps(m.Rows, rows, rowScale)
	out := NewMatrix(rows, cols)
	for r, t := range rowTaps {
		a := mid.Row(t.i0)
		b := mid.Row(t.i1)
		dst := out.Row(r)
		for c := range dst {
			dst[c] = lerp(a[c], b[c], t.w)
		}
	}
	return out
}

// ResizeMask resamples a boolean mask with nearest-neighbour lookup, using the
// same pixel-centre mapping as Resize. No smoothing is applied, so the output
// stays strictly binary.
func ResizeMask(m *Mask, rows, cols int) *Mask {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("imaging: invalid resize target %dx%d", rows, cols))
	}
	out := NewMask(rows, cols)

	colIdx := nearestTaps(m.Cols, cols)
	rowIdx := nearestTaps(m.Rows, rows)
	for r, sr := range rowIdx {
		for c, sc := range colIdx {
			out.Data[r*cols+c] = m.Data[sr*m.Cols+sc]
		}
	}
	return out
}

// linearTap holds the two source samples and the weight of the second one.
type linearTap struct {
	i0, i1 int
	w      float64
}

func linearTaps(in, out int, scale float64) []linearTap {
	taps := make([]linearTap, out)
	for d := range taps {
		x := (float64(d)+0.5)*scale - 0.5
		f := math.Floor(x)
		i := int(f)
		taps[d] = linearTap{
			i0: boundaryIndex(i, in, Mirror),
			i1: boundaryIndex(i+1, in, Mirror),
			w:  x - f,
		}
	}
	return taps
}

// lerp interpolates between a and b. Equal endpoints return a exactly, so
// constant runs survive resampling bit for bit.
func lerp(a, b, w float64) float64 {
	return a + w*(b-a)
}

func nearestTaps(in, out int) []int {
	scale := float64(in) / float64(out)
	idx := make([]int, out)
	for d := range idx {
		x := (float64(d)+0.5)*scale - 0.5
		idx[d] = boundaryIndex(int(math.Floor(x+0.5)), in, Mirror)
	}
	return idx
}
