package qp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func identity(n int) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}
	return s
}

func boxed(p Problem, lower, upper float64) Problem {
	n := len(p.Q)
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := range lo {
		lo[i] = lower
		hi[i] = upper
	}
	p.G, p.H = Box(lo, hi)
	return p
}

func TestSMO_Solve(t *testing.T) {

	type test struct {
		problem Problem
		x       []float64
		err     error
	}

	tests := map[string]test{
		"interior": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{-5, -5},
				A: []float64{1, 1},
				B: 3,
			}, 0, 2),
			x: []float64{1.5, 1.5},
		},
		"upper-bound": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{-5, -5},
				A: []float64{1, 1},
				B: 4,
			}, 0, 2),
			x: []float64{2, 2},
		},
		"opposite-signs": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{-1, -1},
				A: []float64{1, -1},
				B: 0,
			}, 0, 10),
			x: []float64{1, 1},
		},
		"negative-lower-bound": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{0, 0},
				A: []float64{1, 1},
				B: -2,
			}, -1, 1),
			x: []float64{-1, -1},
		},
		"scaled-equality": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{-1, -1},
				A: []float64{2, -1},
				B: 0,
			}, 0, 10),
			x: []float64{0.6, 1.2},
		},
		"infeasible-equality": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{-5, -5},
				A: []float64{1, 1},
				B: 5,
			}, 0, 2),
			err: InfeasibleErr,
		},
		"crossed-box": {
			problem: boxed(Problem{
				P: identity(2),
				Q: []float64{0, 0},
				A: []float64{1, 1},
			}, 1, 0),
			err: InfeasibleErr,
		},
		"no-box": {
			problem: Problem{
				P: identity(2),
				Q: []float64{0, 0},
				A: []float64{1, 1},
			},
			err: UnboundedErr,
		},
		"coupled-inequality": {
			problem: Problem{
				P: identity(2),
				Q: []float64{0, 0},
				G: mat.NewDense(1, 2, []float64{1, 1}),
				H: []float64{1},
				A: []float64{1, 1},
			},
			err: UnsupportedErr,
		},
		"shape-mismatch": {
			problem: Problem{
				P: identity(2),
				Q: []float64{0},
				A: []float64{1, 1},
			},
			err: UnsupportedErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			solver := &SMO{Tolerance: 1e-9}
			x, err := solver.Solve(tt.problem)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.x, x, 1e-6)
		})
	}
}

func TestSMO_SatisfiesConstraints(t *testing.T) {
	// a small dual svm: P = (y yᵀ)∘(X Xᵀ)
	x := mat.NewDense(4, 2, []float64{
		-2, 0,
		-1, 1,
		1, -1,
		2, 0,
	})
	y := []float64{-1, -1, 1, 1}
	var gram mat.Dense
	gram.Mul(x, x.T())
	p := mat.NewSymDense(4, nil)
	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			p.SetSym(i, j, y[i]*y[j]*gram.At(i, j))
		}
	}
	c := 100.0
	problem := boxed(Problem{
		P: p,
		Q: []float64{-1, -1, -1, -1},
		A: y,
	}, 0, c)

	lm, err := NewSMO().Solve(problem)
	require.NoError(t, err)

	var sum float64
	for i, l := range lm {
		assert.GreaterOrEqual(t, l, 0.0)
		assert.LessOrEqual(t, l, c)
		sum += y[i] * l
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestBounds(t *testing.T) {
	g := mat.NewDense(3, 2, []float64{
		-2, 0,
		0, 3,
		0, 0,
	})
	p := Problem{
		P: identity(2),
		Q: []float64{0, 0},
		G: g,
		H: []float64{4, 6, 1},
		A: []float64{1, 1},
	}
	lower, upper, err := p.Bounds()
	require.NoError(t, err)
	assert.Equal(t, -2.0, lower[0])
	assert.Equal(t, 2.0, upper[1])
	assert.True(t, upper[0] > 1e300)
}
