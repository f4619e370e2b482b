package waveform

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/ecg-tools-mcp/internal/detection"
	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// Length is the number of samples in every lead waveform.
const Length = 255

// ErrEmptyPath is returned when Normalize receives a contour without points.
var ErrEmptyPath = errors.New("contour has no points")

// Vector is one lead waveform of Length values in [0,1].
type Vector []float64

// Waveform is the normalized form of one dominant contour.
type Waveform struct {
	// Resampled holds the contour resampled to Length x 2 (row, col) before scaling.
	Resampled *imaging.Matrix

	// Values is the min-max scaled row column.
	Values Vector

	// Degenerate reports that every resampled row value was identical, in
	// which case Values is all zeros.
	Degenerate bool
}

// Normalize resamples path to Length points and min-max scales the row
// coordinate.
//
// Resampling uses imaging.Resize on the N x 2 point matrix, so points are
// interpolated along the path index, not along arc length. Scaling follows
// the usual min-max form x*s - min*s with s = 1/(max-min); when max equals
// min the scale is taken as 1 and every value becomes 0.
func Normalize(path detection.Path) (Waveform, error) {
	if len(path) == 0 {
		return Waveform{}, ErrEmptyPath
	}

	pts := imaging.NewMatrix(len(path), 2)
	for i, p := range path {
		pts.Set(i, 0, p.Row)
		pts.Set(i, 1, p.Col)
	}
	resampled := imaging.Resize(pts, Length, 2)

	rows := make([]float64, Length)
	for i := range rows {
		rows[i] = resampled.At(i, 0)
	}
	values, degenerate := MinMaxScale(rows)

	return Waveform{Resampled: resampled, Values: values, Degenerate: degenerate}, nil
}

// MinMaxScale maps values linearly so the minimum becomes 0 and the maximum
// becomes 1. It returns all zeros and true when the values are constant.
// The input is not modified.
func MinMaxScale(values []float64) (Vector, bool) {
	out := make(Vector, len(values))
	if len(values) == 0 {
		return out, true
	}

	lo := floats.Min(values)
	hi := floats.Max(values)
	span := hi - lo
	degenerate := span == 0
	if degenerate {
		span = 1
	}

	scale := 1 / span
	offset := -lo * scale
	copy(out, values)
	floats.Scale(scale, out)
	floats.AddConst(offset, out)
	return out, degenerate
}
