package imaging

import "math"

// BoundaryMode selects how filters and resamplers read past the matrix edge.
type BoundaryMode int

const (
	// Nearest replicates the edge value: ... a a | a b c | c c ...
	Nearest BoundaryMode = iota

	// Mirror reflects about the edge sample without repeating it:
	// ... c b | a b c | b a ...
	Mirror
)

// gaussianTruncate is the kernel half-width in standard deviations.
const gaussianTruncate = 4.0

// Gaussian applies a separable Gaussian filter to m.
//
// Parameters:
//   - m: Source matrix. It is not modified.
//   - sigmaRow: Standard deviation along rows (vertical). Zero disables the pass.
//   - sigmaCol: Standard deviation along columns (horizontal). Zero disables the pass.
//   - mode: Boundary handling for samples outside the matrix.
//
// Returns a new matrix of the same size.
//
// # Kernel
//
// The 1D kernel has radius int(4*sigma + 0.5) and weights exp(-x²/(2σ²))
// normalised to sum 1. A constant input stays exactly constant because every
// output sample sees the same weights in the same order.
func Gaussian(m *Matrix, sigmaRow, sigmaCol float64, mode BoundaryMode) *Matrix {
	out := m.Clone()
	if sigmaCol > 0 {
		out = filterCols(out, gaussianKernel(sigmaCol), mode)
	}
	if sigmaRow > 0 {
		out = filterRows(out, gaussianKernel(sigmaRow), mode)
	}
	return out
}

// Blur applies an isotropic Gaussian with edge-replicating boundaries.
//
// This is the smoothing step each lead goes through before thresholding;
// sigma is the stage-specific smoothing strength.
func Blur(m *Matrix, sigma float64) *Matrix {
	return Gaussian(m, sigma, sigma, Nearest)
}

// gaussianKernel builds a normalised 1D Gaussian kernel for sigma.
func gaussianKernel(sigma float64) []float64 {
	radius := int(gaussianTruncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// filterCols convolves every row of m with kernel (horizontal pass).
func filterCols(m *Matrix, kernel []float64, mode BoundaryMode) *Matrix {
	radius := len(kernel) / 2
	out := NewMatrix(m.Rows, m.Cols)
	for r := 0; r < m.Rows; r++ {
		src := m.Row(r)
		dst := out.Row(r)
		for c := 0; c < m.Cols; c++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += src[boundaryIndex(c+k, m.Cols, mode)] * kernel[k+radius]
			}
			dst[c] = sum
		}
	}
	return out
}

// filterRows convolves every column of m with kernel (vertical pass).
func filterRows(m *Matrix, kernel []float64, mode BoundaryMode) *Matrix {
	radius := len(kernel) / 2
	out := NewMatrix(m.Rows, m.Cols)
	for r := 0; r < m.Rows; r++ {
		dst := out.Row(r)
		for k := -radius; k <= radius; k++ {
			w := kernel[k+radius]
			src := m.Row(boundaryIndex(r+k, m.Rows, mode))
			for c := range dst {
				dst[c] += src[c] * w
			}
		}
	}
	return out
}

// boundaryIndex maps a possibly out-of-range index into [0, n).
func boundaryIndex(i, n int, mode BoundaryMode) int {
	if i >= 0 && i < n {
		return i
	}
	switch mode {
	case Mirror:
		return mirrorIndex(i, n)
	default:
		return clamp(i, 0, n-1)
	}
}

// mirrorIndex reflects i about the first and last samples.
func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	if i < 0 {
		i = -i
	}
	i %= period
	if i >= n {
		i = period - i
	}
	return i
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
