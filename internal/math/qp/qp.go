// Package qp defines convex quadratic programs with element-wise box constraints
// and a single linear equality, and a solver for them.
//
// The problem solved is
//
//	minimize    ½·xᵀ·P·x + qᵀ·x
//	subject to  G·x <= h
//	            aᵀ·x  = b
//
// where every row of G constrains a single variable.
package qp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// InfeasibleErr is returned when no point satisfies the constraints.
	InfeasibleErr = errors.New("infeasible problem")
	// UnboundedErr is returned when the objective is not bounded on the feasible set.
	UnboundedErr = errors.New("unbounded problem")
	// NotConvergedErr is returned when the solver exhausts its iterations.
	NotConvergedErr = errors.New("solver did not converge")
	// UnsupportedErr is returned for constraint shapes the solver does not handle.
	UnsupportedErr = errors.New("unsupported problem")
)

// Problem is a convex quadratic program.
type Problem struct {
	P mat.Symmetric
	Q []float64
	G mat.Matrix
	H []float64
	A []float64
	B float64
}

// Solver solves quadratic programs.
type Solver interface {
	Solve(p Problem) ([]float64, error)
}

// Box builds the inequality pair (G, h) for lower <= x <= upper,
// stacking -I over I the same way the dual SVM formulation does.
func Box(lower, upper []float64) (*mat.Dense, []float64) {
	n := len(lower)
	g := mat.NewDense(2*n, n, nil)
	h := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		g.Set(i, i, -1)
		h[i] = -lower[i]
		g.Set(n+i, i, 1)
		h[n+i] = upper[i]
	}
	return g, h
}

// Dim checks the dimensions of the problem and returns the number of variables.
func (p Problem) Dim() (int, error) {
	if p.P == nil {
		return 0, fmt.Errorf("missing quadratic term: %w", UnsupportedErr)
	}
	n := p.P.Symmetric()
	if n == 0 {
		return 0, fmt.Errorf("empty problem: %w", UnsupportedErr)
	}
	if len(p.Q) != n {
		return 0, fmt.Errorf("linear term has %d elements, expected %d: %w", len(p.Q), n, UnsupportedErr)
	}
	if len(p.A) != n {
		return 0, fmt.Errorf("equality row has %d elements, expected %d: %w", len(p.A), n, UnsupportedErr)
	}
	if p.G != nil {
		r, c := p.G.Dims()
		if c != n || r != len(p.H) {
			return 0, fmt.Errorf("inequality shape %dx%d with %d bounds for %d variables: %w", r, c, len(p.H), n, UnsupportedErr)
		}
	}
	return n, nil
}

// Bounds extracts the element-wise box encoded by G and h.
// Rows of G touching more than one variable are not supported.
func (p Problem) Bounds() (lower, upper []float64, err error) {
	n, err := p.Dim()
	if err != nil {
		return nil, nil, err
	}
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := range lower {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	if p.G == nil {
		return lower, upper, nil
	}
	rows, _ := p.G.Dims()
	for r := 0; r < rows; r++ {
		col, g := -1, 0.0
		for c := 0; c < n; c++ {
			v := p.G.At(r, c)
			if v == 0 {
				continue
			}
			if col != -1 {
				return nil, nil, fmt.Errorf("inequality row %d couples variables %d and %d: %w", r, col, c, UnsupportedErr)
			}
			col, g = c, v
		}
		if col == -1 {
			if p.H[r] < 0 {
				return nil, nil, fmt.Errorf("inequality row %d reads 0 <= %g: %w", r, p.H[r], InfeasibleErr)
			}
			continue
		}
		bound := p.H[r] / g
		if g > 0 {
			upper[col] = math.Min(upper[col], bound)
		} else {
			lower[col] = math.Max(lower[col], bound)
		}
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return nil, nil, fmt.Errorf("variable %d has bounds [%g, %g]: %w", i, lower[i], upper[i], InfeasibleErr)
		}
	}
	return lower, upper, nil
}
