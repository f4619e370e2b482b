package imaging

import (
	"gonum.org/v1/gonum/floats"
)

// otsuBins is the histogram resolution used for threshold selection.
const otsuBins = 256

// OtsuThreshold computes a global threshold for m using Otsu's method.
//
// The histogram has 256 equal-width bins spanning [min, max] of the data.
// The threshold is the centre of the bin that maximises the between-class
// variance w1*w2*(μ1-μ2)² when the data are split after that bin.
//
// Parameters:
//   - m: Intensity matrix. Must not be empty.
//
// Returns the threshold value. When every value in m is identical the
// histogram is degenerate and that single value is returned; thresholding
// with "value < threshold" then yields an all-false mask rather than an error.
func OtsuThreshold(m *Matrix) float64 {
	lo, hi := m.MinMax()
	if lo == hi {
		return lo
	}

	hist, centers := histogram(m.Data, lo, hi, otsuBins)

	weight1 := floats.CumSum(make([]float64, otsuBins), hist)
	weight2 := reverseCumSum(hist)

	weighted := make([]float64, otsuBins)
	floats.MulTo(weighted, hist, centers)

	mean1 := floats.CumSum(make([]float64, otsuBins), weighted)
	floats.Div(mean1, weight1)

	mean2 := reverseCumSum(weighted)
	floats.Div(mean2, weight2)

	variance := make([]float64, otsuBins-1)
	for i := range variance {
		d := mean1[i] - mean2[i+1]
		variance[i] = weight1[i] * weight2[i+1] * d * d
	}

	return centers[floats.MaxIdx(variance)]
}

// histogram bins values into n equal-width bins over [lo, hi]. Values equal to
// hi land in the last bin. It returns the counts and the bin centres.
func histogram(values []float64, lo, hi float64, n int) ([]float64, []float64) {
	edges := floats.Span(make([]float64, n+1), lo, hi)
	edges[n] = hi

	counts := make([]float64, n)
	norm := float64(n) / (hi - lo)
	for _, v := range values {
		idx := int((v - lo) * norm)
		if idx >= n {
			idx = n - 1
		}
		// Edge rounding correction so every value lies in [edges[idx], edges[idx+1]).
		if idx > 0 && v < edges[idx] {
			idx--
		} else if idx < n-1 && v >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}

	centers := make([]float64, n)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}
	return counts, centers
}

// reverseCumSum returns the suffix sums of s: out[i] = s[i] + ... + s[len-1].
func reverseCumSum(s []float64) []float64 {
	out := make([]float64, len(s))
	var acc float64
	for i := len(s) - 1; i >= 0; i-- {
		acc += s[i]
		out[i] = acc
	}
	return out
}
