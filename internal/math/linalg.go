package math

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxCondition is the condition number above which a matrix is considered
// too ill-conditioned to invert.
const DefaultMaxCondition = 1e12

// Mean returns the column-wise mean of x.
func Mean(x mat.Matrix) []float64 {
	r, c := x.Dims()
	mean := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		mean[j] = stat.Mean(col, nil)
	}
	return mean
}

// Center returns a copy of x with the given mean subtracted from every row.
func Center(x mat.Matrix, mean []float64) *mat.Dense {
	r, c := x.Dims()
	if len(mean) != c {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(mean), c))
	}
	centered := mat.DenseCopyOf(x)
	for i := 0; i < r; i++ {
		floats.Sub(centered.RawRowView(i), mean)
	}
	return centered
}

// Covariance returns the sample covariance matrix of the rows of x,
// normalised by n-1.
func Covariance(x mat.Matrix) *mat.SymDense {
	_, c := x.Dims()
	cov := mat.NewSymDense(c, nil)
	stat.CovarianceMatrix(cov, x, nil)
	return cov
}

// Gram returns the matrix of pairwise dot products x·xᵀ of the rows of x.
func Gram(x mat.Matrix) *mat.SymDense {
	r, _ := x.Dims()
	g := mat.NewSymDense(r, nil)
	g.SymOuterK(1, x)
	return g
}

// Scatter returns the sum of the outer products (x_i - mean)(x_i - mean)ᵀ over the rows of x.
func Scatter(x mat.Matrix, mean []float64) *mat.SymDense {
	_, c := x.Dims()
	centered := Center(x, mean)
	s := mat.NewSymDense(c, nil)
	s.SymOuterK(1, centered.T())
	return s
}

// AddOuter adds alpha·v·vᵀ to s in place.
func AddOuter(s *mat.SymDense, alpha float64, v []float64) {
	s.SymRankOne(s, alpha, mat.NewVecDense(len(v), v))
}

// Inverse inverts a, refusing matrices whose condition number exceeds maxCond.
func Inverse(a mat.Matrix, maxCond float64) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("cannot invert %dx%d matrix: %w", r, c, mat.ErrShape)
	}
	if cond := mat.Cond(a, 1); cond > maxCond {
		return nil, fmt.Errorf("condition number %g above %g: %w", cond, maxCond, SingularErr)
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("could not invert matrix: %v: %w", err, SingularErr)
	}
	return &inv, nil
}

// Distance is the euclidean distance between a and b.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Rows copies the rows of x into a slice of vectors.
func Rows(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(make([]float64, c), i, x)
	}
	return rows
}
