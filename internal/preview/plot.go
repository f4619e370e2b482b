package preview

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	internalimaging "github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// PlotContour renders a resampled contour (N x 2 matrix of row, col) as a
// line chart. Rows are negated so the trace keeps its on-paper orientation.
func PlotContour(pts *internalimaging.Matrix) (image.Image, error) {
	if pts == nil || pts.Rows == 0 || pts.Cols != 2 {
		return nil, fmt.Errorf("contour plot needs an N x 2 matrix")
	}

	xs := make([]float64, pts.Rows)
	ys := make([]float64, pts.Rows)
	for i := 0; i < pts.Rows; i++ {
		xs[i] = pts.At(i, 1)
		ys[i] = -pts.At(i, 0)
	}

	graph := chart.Chart{
		Width:  tileWidth,
		Height: tileHeight,
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: paddedRange(xs),
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: paddedRange(ys),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 1,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render contour plot: %w", err)
	}
	img, err := imaging.Decode(buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to decode contour plot: %w", err)
	}
	return img, nil
}

// paddedRange returns an explicit axis range around values. A flat series
// gets one unit on each side, since the chart rejects an empty range.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo := floats.Min(values)
	hi := floats.Max(values)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
