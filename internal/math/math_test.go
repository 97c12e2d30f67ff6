package math

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestFormat(t *testing.T) {

	type test struct {
		input  float64
		output string
	}

	tests := map[string]test{
		"0": {
			input:  0,
			output: "0.00",
		},
		"-1": {
			input:  -1,
			output: "-1.00",
		},
		"+1": {
			input:  1,
			output: "1.00",
		},
		"5": {
			input:  1.5555,
			output: "1.56",
		},
		"4": {
			input:  1.4444,
			output: "1.44",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Format(tt.input)
			assert.Equal(t, tt.output, s)
		})
	}

}

func TestToFloat(t *testing.T) {
	ff := ToFloat([]int{1, -2, 3})
	assert.Equal(t, []float64{1, -2, 3}, ff)
	assert.Empty(t, ToFloat(nil))
}

func TestMeanAndCenter(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	mean := Mean(x)
	assert.Equal(t, []float64{2, 20}, mean)

	centered := Center(x, mean)
	assert.Equal(t, []float64{-1, -10, 0, 0, 1, 10}, centered.RawMatrix().Data)
	// the input stays untouched
	assert.Equal(t, 1.0, x.At(0, 0))
}

func TestCovariance(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
	})
	cov := Covariance(x)
	// var(x0) = 5/3, cov(x0,x1) = 10/3, var(x1) = 20/3
	assert.InDelta(t, 5.0/3, cov.At(0, 0), 1e-12)
	assert.InDelta(t, 10.0/3, cov.At(0, 1), 1e-12)
	assert.InDelta(t, 20.0/3, cov.At(1, 1), 1e-12)
}

func TestGram(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	g := Gram(x)
	assert.Equal(t, 14.0, g.At(0, 0))
	assert.Equal(t, 32.0, g.At(0, 1))
	assert.Equal(t, 32.0, g.At(1, 0))
	assert.Equal(t, 77.0, g.At(1, 1))
}

func TestScatter(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		0, 0,
		2, 2,
	})
	s := Scatter(x, []float64{1, 1})
	// (−1,−1)(−1,−1)ᵀ + (1,1)(1,1)ᵀ
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, 2.0, s.At(i, j))
		}
	}

	AddOuter(s, 3, []float64{1, 0})
	assert.Equal(t, 5.0, s.At(0, 0))
	assert.Equal(t, 2.0, s.At(1, 1))
}

func TestInverse(t *testing.T) {

	type test struct {
		m   *mat.Dense
		err error
	}

	tests := map[string]test{
		"diagonal": {
			m: mat.NewDense(2, 2, []float64{2, 0, 0, 4}),
		},
		"singular": {
			m:   mat.NewDense(2, 2, []float64{1, 2, 2, 4}),
			err: SingularErr,
		},
		"near-singular": {
			m:   mat.NewDense(2, 2, []float64{1, 1, 1, 1 + 1e-15}),
			err: SingularErr,
		},
		"non-square": {
			m:   mat.NewDense(2, 3, nil),
			err: mat.ErrShape,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inv, err := Inverse(tt.m, DefaultMaxCondition)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			var id mat.Dense
			id.Mul(tt.m, inv)
			assert.True(t, mat.EqualApprox(&id, eye(2), 1e-12))
		})
	}
}

func TestSymEigen(t *testing.T) {
	a := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 3, 0,
		0, 0, 2,
	})
	e, err := SymEigen(a)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 2, 1}, e.Values, 1e-12)

	// leading vector points along the second axis
	assert.InDelta(t, 1, abs(e.Vectors.At(1, 0)), 1e-12)
	assert.InDelta(t, 1, abs(e.Vectors.At(2, 1)), 1e-12)
	assert.InDelta(t, 1, abs(e.Vectors.At(0, 2)), 1e-12)

	top := e.Top(2)
	r, c := top.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)

	// orthonormal columns
	var vtv mat.Dense
	vtv.Mul(e.Vectors.T(), e.Vectors)
	assert.True(t, mat.EqualApprox(&vtv, eye(3), 1e-12))
}

func TestGeneralEigen(t *testing.T) {
	// upper triangular, eigenvalues on the diagonal
	a := mat.NewDense(3, 3, []float64{
		1, 1, 0,
		0, -5, 0,
		0, 0, 2,
	})
	e, err := GeneralEigen(a)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-5, 2, 1}, e.Values, 1e-10)

	// A·v = λ·v for every kept pair
	for j, lambda := range e.Values {
		v := mat.Col(nil, j, e.Vectors)
		av := make([]float64, 3)
		mat.NewVecDense(3, av).MulVec(a, mat.NewVecDense(3, v))
		floats.Scale(lambda, v)
		assert.InDeltaSlice(t, v, av, 1e-10)
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, Rows(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
}

func eye(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
