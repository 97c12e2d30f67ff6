package ml

import (
	"fmt"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"gonum.org/v1/gonum/mat"
)

// Basis is a projection fitted on training data.
// A nil Mean means the data is projected without centering.
type Basis struct {
	Mean    []float64
	Vectors *mat.Dense
	Values  []float64
}

// Dims returns the input and output dimension of the projection.
func (b *Basis) Dims() (int, int) {
	return b.Vectors.Dims()
}

// Project maps the rows of x onto the basis vectors.
func (b *Basis) Project(x mat.Matrix) (*mat.Dense, error) {
	_, c := x.Dims()
	d, _ := b.Dims()
	if c != d {
		return nil, fmt.Errorf("cannot project %d features onto a basis of dimension %d: %w", c, d, DataErr)
	}
	var in mat.Matrix = x
	if b.Mean != nil {
		in = benchmath.Center(x, b.Mean)
	}
	var out mat.Dense
	out.Mul(in, b.Vectors)
	return &out, nil
}

// Reducer fits a projection basis on training data.
type Reducer interface {
	// Name identifies the reducer in logs and reports.
	Name() string
	// Fit computes the basis from the training samples and their labels.
	Fit(x *mat.Dense, y []int) (*Basis, error)
}

// FitApply fits r on the training set only and projects both sets onto the resulting basis.
func FitApply(r Reducer, xTrain *mat.Dense, yTrain []int, xTest *mat.Dense) (train, test *mat.Dense, basis *Basis, err error) {
	_, cTrain := xTrain.Dims()
	_, cTest := xTest.Dims()
	if cTrain != cTest {
		return nil, nil, nil, fmt.Errorf("train has %d features, test has %d: %w", cTrain, cTest, DataErr)
	}
	basis, err = r.Fit(xTrain, yTrain)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not fit %s: %w", r.Name(), err)
	}
	train, err = basis.Project(xTrain)
	if err != nil {
		return nil, nil, nil, err
	}
	test, err = basis.Project(xTest)
	if err != nil {
		return nil, nil, nil, err
	}
	return train, test, basis, nil
}
