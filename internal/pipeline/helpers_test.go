package pipeline

import (
	"math"
	"testing"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// createBlankCanonical returns a canonical image of white paper.
func createBlankCanonical() *imaging.Matrix {
	m := imaging.NewMatrix(imaging.CanonicalRows, imaging.CanonicalCols)
	m.Fill(1)
	return m
}

// createLineCanonical draws a black horizontal line, thickness rows tall,
// across the full width at the middle of each lead row band listed in bands
// (0 for leads 1-4, 1 for leads 5-8, 2 for leads 9-12).
func createLineCanonical(thickness int, bands ...int) *imaging.Matrix {
	m := createBlankCanonical()
	for _, band := range bands {
		b := leads.Geometry[band*4].Bounds
		mid := (b.Row0 + b.Row1) / 2
		for r := mid; r < mid+thickness; r++ {
			for c := 0; c < m.Cols; c++ {
				m.Set(r, c, 0)
			}
		}
	}
	return m
}

// createSineCanonical draws a sine trace through every lead row band.
func createSineCanonical() *imaging.Matrix {
	m := createBlankCanonical()
	for band := 0; band < 3; band++ {
		b := leads.Geometry[band*4].Bounds
		mid := float64(b.Row0+b.Row1) / 2
		for c := 0; c < m.Cols; c++ {
			center := int(math.Round(mid + 60*math.Sin(float64(c)/25)))
			for r := center - 2; r <= center+2; r++ {
				m.Set(r, c, 0)
			}
		}
	}
	return m
}

// createStubStore returns models with known parameters: the projection sums
// lead 1 and lead 2 samples into two outputs, and the classifier has one
// score row per class code 0..3.
func createStubStore(t *testing.T) *model.Store {
	t.Helper()

	mean := make([]float64, waveform.FeatureLength)
	comp := [][]float64{
		make([]float64, waveform.FeatureLength),
		make([]float64, waveform.FeatureLength),
	}
	for j := 0; j < waveform.Length; j++ {
		comp[0][j] = 1
		comp[1][waveform.Length+j] = 1
	}
	proj, err := model.NewPCA(mean, comp, nil, false)
	if err != nil {
		t.Fatalf("NewPCA failed: %v", err)
	}

	cls, err := model.NewLDA(
		[]int{0, 1, 2, 3},
		[][]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}},
		[]float64{0, 0, 0, 0.5},
	)
	if err != nil {
		t.Fatalf("NewLDA failed: %v", err)
	}
	return model.NewStaticStore(proj, cls)
}

// createFeatures fills lead 1 with a and lead 2 with b, everything else zero.
func createFeatures(a, b float64) []float64 {
	f := make([]float64, waveform.FeatureLength)
	for j := 0; j < waveform.Length; j++ {
		f[j] = a
		f[waveform.Length+j] = b
	}
	return f
}
