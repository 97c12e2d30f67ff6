package ml

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func random(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(r, c, data)
}

func TestPCA_Reconstruct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := random(rng, 8, 3)

	train, _, basis, err := NewPCA(3).FitApply(x, x)
	require.NoError(t, err)

	// basis is orthonormal
	var vvt mat.Dense
	vvt.Mul(basis.Vectors, basis.Vectors.T())
	assert.True(t, mat.EqualApprox(&vvt, eye(3), 1e-9))

	// full rank projection loses nothing
	var back mat.Dense
	back.Mul(train, basis.Vectors.T())
	for i := 0; i < 8; i++ {
		row := back.RawRowView(i)
		floats.Add(row, basis.Mean)
		assert.True(t, floats.EqualApprox(x.RawRowView(i), row, 1e-9))
	}

	// eigenvalues are descending
	assert.True(t, descending(basis.Values))
}

func TestPCA_SnapshotMatchesCovariance(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := random(rng, 5, 9)
	test := random(rng, 3, 9)

	cov := PCA{Components: 3, Method: Covariance}
	snap := PCA{Components: 3, Method: Snapshot}

	covTrain, covTest, covBasis, err := cov.FitApply(x, test)
	require.NoError(t, err)
	snapTrain, snapTest, snapBasis, err := snap.FitApply(x, test)
	require.NoError(t, err)

	assert.True(t, floats.EqualApprox(covBasis.Values, snapBasis.Values, 1e-9))
	// eigenvectors agree up to their sign
	for _, pair := range [][2]*mat.Dense{{covTrain, snapTrain}, {covTest, snapTest}} {
		r, c := pair[0].Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				assert.InDelta(t, math.Abs(pair[0].At(i, j)), math.Abs(pair[1].At(i, j)), 1e-9)
			}
		}
	}
}

func TestPCA_FitsOnTrainingOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := random(rng, 10, 4)

	train1, _, basis1, err := NewPCA(2).FitApply(x, random(rng, 3, 4))
	require.NoError(t, err)
	train2, _, basis2, err := NewPCA(2).FitApply(x, random(rng, 6, 4))
	require.NoError(t, err)

	assert.Equal(t, basis1.Mean, basis2.Mean)
	assert.True(t, mat.Equal(basis1.Vectors, basis2.Vectors))
	assert.True(t, mat.Equal(train1, train2))

	// test data far from the training mean is centred with the training mean
	test := random(rng, 5, 4)
	for i := 0; i < 5; i++ {
		floats.AddConst(50, test.RawRowView(i))
	}
	_, proj, basis, err := NewPCA(2).FitApply(x, test)
	require.NoError(t, err)
	assert.Equal(t, basis1.Mean, basis.Mean)

	var want mat.Dense
	want.Mul(centred(test, basis.Mean), basis.Vectors)
	assert.True(t, mat.EqualApprox(&want, proj, 1e-9))
	// centring on its own mean would pull the projections back towards zero
	var own mat.Dense
	own.Mul(centred(test, columnMeans(test)), basis.Vectors)
	assert.False(t, mat.EqualApprox(&own, proj, 1e-3))
}

func centred(x *mat.Dense, mu []float64) *mat.Dense {
	var c mat.Dense
	c.CloneFrom(x)
	r, _ := c.Dims()
	for i := 0; i < r; i++ {
		floats.Sub(c.RawRowView(i), mu)
	}
	return &c
}

func columnMeans(x *mat.Dense) []float64 {
	r, c := x.Dims()
	mu := make([]float64, c)
	for i := 0; i < r; i++ {
		floats.Add(mu, x.RawRowView(i))
	}
	floats.Scale(1/float64(r), mu)
	return mu
}

func TestPCA_Errors(t *testing.T) {

	type test struct {
		pca PCA
		x   *mat.Dense
		err error
	}

	rng := rand.New(rand.NewSource(4))

	tests := map[string]test{
		"zero-components": {
			pca: NewPCA(0),
			x:   random(rng, 4, 3),
			err: ConfigErr,
		},
		"too-many-components": {
			pca: NewPCA(4),
			x:   random(rng, 4, 3),
			err: ConfigErr,
		},
		"single-sample": {
			pca: NewPCA(1),
			x:   random(rng, 1, 3),
			err: DataErr,
		},
		"components-beyond-samples": {
			pca: NewPCA(50),
			x:   random(rng, 10, 100),
			err: DataErr,
		},
		"covariance-beyond-samples": {
			pca: PCA{Components: 4, Method: Covariance},
			x:   random(rng, 4, 6),
			err: DataErr,
		},
		"snapshot-beyond-rank": {
			pca: PCA{Components: 4, Method: Snapshot},
			x:   random(rng, 4, 6),
			err: DataErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tt.pca.Fit(tt.x, nil)
			assert.True(t, errors.Is(err, tt.err), "%v", err)
		})
	}
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func descending(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			return false
		}
	}
	return true
}
