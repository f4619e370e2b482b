package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Projection reduces a feature vector to a lower-dimensional space.
type Projection interface {
	InputDim() int
	OutputDim() int
	Transform(x []float64) ([]float64, error)
}

// Classifier predicts an integer class code from a reduced vector.
type Classifier interface {
	InputDim() int
	Classes() []int
	Predict(x []float64) (int, error)
}

// PCA is a principal component projection: (x - mean) · componentsᵀ,
// optionally divided by the square root of each component's explained
// variance.
type PCA struct {
	mean       *mat.VecDense
	components *mat.Dense // k x n
	scale      []float64  // nil unless whitened
}

// NewPCA builds a projection from its fitted parameters.
//
// Parameters:
//   - mean: Per-feature mean, length n.
//   - components: k principal axes, each of length n.
//   - variance: Explained variance per axis. Only read when whiten is true.
//   - whiten: Divide each output by sqrt(variance).
func NewPCA(mean []float64, components [][]float64, variance []float64, whiten bool) (*PCA, error) {
	n := len(mean)
	k := len(components)
	if n == 0 || k == 0 {
		return nil, fmt.Errorf("%w: projection needs a mean and at least one component", ErrLoad)
	}

	comp := mat.NewDense(k, n, nil)
	for i, row := range components {
		if len(row) != n {
			return nil, fmt.Errorf("%w: component %d has %d values, mean has %d", ErrLoad, i, len(row), n)
		}
		comp.SetRow(i, row)
	}

	p := &PCA{mean: mat.NewVecDense(n, append([]float64(nil), mean...)), components: comp}
	if whiten {
		if len(variance) != k {
			return nil, fmt.Errorf("%w: whitening needs %d variances, got %d", ErrLoad, k, len(variance))
		}
		p.scale = make([]float64, k)
		for i, v := range variance {
			if v <= 0 {
				return nil, fmt.Errorf("%w: explained variance %d is not positive", ErrLoad, i)
			}
			p.scale[i] = math.Sqrt(v)
		}
	}
	return p, nil
}

// InputDim returns the expected feature vector length.
func (p *PCA) InputDim() int { return p.mean.Len() }

// OutputDim returns the number of components.
func (p *PCA) OutputDim() int {
	k, _ := p.components.Dims()
	return k
}

// Transform projects x. It fails with ErrShapeMismatch when x has the wrong length.
func (p *PCA) Transform(x []float64) ([]float64, error) {
	if len(x) != p.InputDim() {
		return nil, fmt.Errorf("%w: projection expects %d features, got %d", ErrShapeMismatch, p.InputDim(), len(x))
	}

	centered := mat.NewVecDense(len(x), nil)
	centered.SubVec(mat.NewVecDense(len(x), append([]float64(nil), x...)), p.mean)

	var out mat.VecDense
	out.MulVec(p.components, centered)

	y := make([]float64, out.Len())
	for i := range y {
		y[i] = out.AtVec(i)
		if p.scale != nil {
			y[i] /= p.scale[i]
		}
	}
	return y, nil
}

// LDA is a linear discriminant: scores = x · coefᵀ + intercept.
//
// With several coefficient rows the class with the highest score wins,
// the first on ties. A single row describes a binary model where a positive
// score selects the second class.
type LDA struct {
	coef      *mat.Dense // rows x k
	intercept *mat.VecDense
	classes   []int
}

// NewLDA builds a classifier from its fitted parameters.
func NewLDA(classes []int, coef [][]float64, intercept []float64) (*LDA, error) {
	rows := len(coef)
	if rows == 0 || len(coef[0]) == 0 {
		return nil, fmt.Errorf("%w: classifier needs coefficients", ErrLoad)
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("%w: %d coefficient rows but %d intercepts", ErrLoad, rows, len(intercept))
	}
	switch {
	case rows == 1 && len(classes) != 2:
		return nil, fmt.Errorf("%w: binary classifier needs 2 classes, got %d", ErrLoad, len(classes))
	case rows > 1 && len(classes) != rows:
		return nil, fmt.Errorf("%w: %d coefficient rows but %d classes", ErrLoad, rows, len(classes))
	}

	k := len(coef[0])
	c := mat.NewDense(rows, k, nil)
	for i, row := range coef {
		if len(row) != k {
			return nil, fmt.Errorf("%w: coefficient row %d has %d values, want %d", ErrLoad, i, len(row), k)
		}
		c.SetRow(i, row)
	}

	return &LDA{
		coef:      c,
		intercept: mat.NewVecDense(rows, append([]float64(nil), intercept...)),
		classes:   append([]int(nil), classes...),
	}, nil
}

// InputDim returns the expected reduced vector length.
func (l *LDA) InputDim() int {
	_, k := l.coef.Dims()
	return k
}

// Classes returns a copy of the class codes in score order.
func (l *LDA) Classes() []int {
	return append([]int(nil), l.classes...)
}

// Predict returns the class code for x.
func (l *LDA) Predict(x []float64) (int, error) {
	scores, err := l.Scores(x)
	if err != nil {
		return 0, err
	}

	if len(scores) == 1 {
		if scores[0] > 0 {
			return l.classes[1], nil
		}
		return l.classes[0], nil
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return l.classes[best], nil
}

// Scores returns the decision function values for x.
func (l *LDA) Scores(x []float64) ([]float64, error) {
	if len(x) != l.InputDim() {
		return nil, fmt.Errorf("%w: classifier expects %d inputs, got %d", ErrShapeMismatch, l.InputDim(), len(x))
	}

	var out mat.VecDense
	out.MulVec(l.coef, mat.NewVecDense(len(x), append([]float64(nil), x...)))
	out.AddVec(&out, l.intercept)
	return append([]float64(nil), out.RawVector().Data...), nil
}
