package leads

import (
	"errors"
	"fmt"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// Number of lead regions on the printout.
const (
	ModelLeads  = 12
	TotalLeads  = 13
	RhythmStrip = 13
)

// ErrGeometryMismatch is returned when the image handed to Segment does not
// have the canonical size the geometry table is written for.
var ErrGeometryMismatch = errors.New("canonical image geometry mismatch")

// Bounds is a half-open pixel rectangle on the canonical image:
// rows [Row0, Row1) and columns [Col0, Col1).
type Bounds struct {
	Row0 int `json:"row0"`
	Row1 int `json:"row1"`
	Col0 int `json:"col0"`
	Col1 int `json:"col1"`
}

// Rows returns the region height.
func (b Bounds) Rows() int { return b.Row1 - b.Row0 }

// Cols returns the region width.
func (b Bounds) Cols() int { return b.Col1 - b.Col0 }

// Spec describes one lead region of the printout.
type Spec struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Bounds Bounds `json:"bounds"`
}

// Geometry is the region table of the standard printout, in lead-index order.
var Geometry = [TotalLeads]Spec{
	{1, "I", Bounds{300, 600, 150, 643}},
	{2, "aVR", Bounds{300, 600, 646, 1135}},
	{3, "V1", Bounds{300, 600, 1140, 1625}},
	{4, "V4", Bounds{300, 600, 1630, 2125}},
	{5, "II", Bounds{600, 900, 150, 643}},
	{6, "aVL", Bounds{600, 900, 646, 1135}},
	{7, "V2", Bounds{600, 900, 1140, 1625}},
	{8, "V5", Bounds{600, 900, 1630, 2125}},
	{9, "III", Bounds{900, 1200, 150, 643}},
	{10, "aVF", Bounds{900, 1200, 646, 1135}},
	{11, "V3", Bounds{900, 1200, 1140, 1625}},
	{12, "V6", Bounds{900, 1200, 1630, 2125}},
	{13, "II (rhythm)", Bounds{1250, 1480, 150, 2125}},
}

// Region is the pixel block of one lead, cut from the canonical image.
type Region struct {
	Spec
	Pixels *imaging.Matrix
}

// Segment crops the canonical image into all 13 lead regions.
//
// Parameters:
//   - canonical: Intensity matrix of exactly imaging.CanonicalRows x
//     imaging.CanonicalCols.
//
// Returns the regions in lead-index order (index 1 first). The output does
// not depend on the image content.
//
// # Errors
//
//   - ErrGeometryMismatch if canonical has any other size
func Segment(canonical *imaging.Matrix) ([]Region, error) {
	if canonical == nil || canonical.Rows != imaging.CanonicalRows || canonical.Cols != imaging.CanonicalCols {
		rows, cols := 0, 0
		if canonical != nil {
			rows, cols = canonical.Rows, canonical.Cols
		}
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrGeometryMismatch,
			rows, cols, imaging.CanonicalRows, imaging.CanonicalCols)
	}

	regions := make([]Region, 0, TotalLeads)
	for _, spec := range Geometry {
		b := spec.Bounds
		pixels, err := canonical.Crop(b.Row0, b.Row1, b.Col0, b.Col1)
		if err != nil {
			return nil, fmt.Errorf("%w: lead %d: %v", ErrGeometryMismatch, spec.Index, err)
		}
		regions = append(regions, Region{Spec: spec, Pixels: pixels})
	}
	return regions, nil
}
