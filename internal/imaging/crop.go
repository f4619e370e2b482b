package imaging

import "fmt"

// Crop copies the half-open block [r0:r1, c0:c1] into a new matrix.
//
// Parameters:
//   - r0, r1: Row range, r0 inclusive, r1 exclusive.
//   - c0, c1: Column range, c0 inclusive, c1 exclusive.
//
// Returns an error when the block is empty or reaches outside m.
func (m *Matrix) Crop(r0, r1, c0, c1 int) (*Matrix, error) {
	if r0 < 0 || c0 < 0 || r1 > m.Rows || c1 > m.Cols {
		return nil, fmt.Errorf("crop region [%d:%d,%d:%d] outside matrix bounds %dx%d",
			r0, r1, c0, c1, m.Rows, m.Cols)
	}
	if r0 >= r1 || c0 >= c1 {
		return nil, fmt.Errorf("invalid crop region: r0 must be < r1, c0 must be < c1")
	}

	out := NewMatrix(r1-r0, c1-c0)
	for r := r0; r < r1; r++ {
		copy(out.Row(r-r0), m.Data[r*m.Cols+c0:r*m.Cols+c1])
	}
	return out, nil
}
