package ml

import (
	"fmt"
	"math"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const rankTolerance = 1e-12

// PCAMethod selects how the principal components are computed.
type PCAMethod int

const (
	// Auto uses the snapshot method when there are fewer samples than features.
	Auto PCAMethod = iota
	// Covariance decomposes the d×d covariance matrix.
	Covariance
	// Snapshot decomposes the n×n matrix of centered dot products and maps
	// its eigenvectors back to feature space.
	Snapshot
)

// PCA projects data onto the directions of maximal variance of the training set.
type PCA struct {
	Components int
	Method     PCAMethod
}

// NewPCA creates a PCA reducer keeping k components.
func NewPCA(k int) PCA {
	return PCA{Components: k}
}

func (p PCA) Name() string {
	return fmt.Sprintf("pca-%d", p.Components)
}

// FitApply fits on xTrain and projects both xTrain and xTest, centering both with the training mean.
func (p PCA) FitApply(xTrain, xTest *mat.Dense) (*mat.Dense, *mat.Dense, *Basis, error) {
	return FitApply(p, xTrain, nil, xTest)
}

// Fit computes the mean and the top eigenvectors of the training covariance.
// Labels are ignored.
func (p PCA) Fit(x *mat.Dense, _ []int) (*Basis, error) {
	if err := checkShape(x, nil); err != nil {
		return nil, err
	}
	n, d := x.Dims()
	k := p.Components
	if k < 1 || k > d {
		return nil, fmt.Errorf("cannot keep %d components of %d features: %w", k, d, ConfigErr)
	}
	if n < 2 {
		return nil, fmt.Errorf("covariance needs at least 2 samples, got %d: %w", n, DataErr)
	}
	if k > n-1 {
		return nil, fmt.Errorf("%d samples span at most %d components, asked for %d: %w", n, n-1, k, DataErr)
	}

	method := p.Method
	if method == Auto {
		method = Covariance
		if n < d {
			method = Snapshot
		}
	}

	mean := benchmath.Mean(x)
	var (
		basis *Basis
		err   error
	)
	switch method {
	case Snapshot:
		basis, err = snapshot(benchmath.Center(x, mean), k)
	default:
		basis, err = covariance(x, k)
	}
	if err != nil {
		return nil, err
	}
	basis.Mean = mean

	log.Debug().
		Int("samples", n).
		Int("features", d).
		Int("components", k).
		Bool("snapshot", method == Snapshot).
		Msg("pca basis")
	return basis, nil
}

func covariance(x *mat.Dense, k int) (*Basis, error) {
	eig, err := benchmath.SymEigen(benchmath.Covariance(x))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, NumericalErr)
	}
	return &Basis{
		Vectors: eig.Top(k),
		Values:  eig.Values[:k],
	}, nil
}

// snapshot derives the basis from Xc·Xcᵀ/(n-1), which shares its non-zero eigenvalues
// with the covariance. The eigenvector u maps to Xcᵀ·u / sqrt((n-1)·λ).
func snapshot(centered *mat.Dense, k int) (*Basis, error) {
	n, d := centered.Dims()
	gram := benchmath.Gram(centered)
	gram.ScaleSym(1/float64(n-1), gram)
	eig, err := benchmath.SymEigen(gram)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, NumericalErr)
	}

	vectors := mat.NewDense(d, k, nil)
	u := make([]float64, n)
	v := mat.NewVecDense(d, nil)
	for j := 0; j < k; j++ {
		lambda := eig.Values[j]
		if lambda <= eig.Values[0]*rankTolerance {
			return nil, fmt.Errorf("component %d has eigenvalue %g, data rank is too low: %w", j, lambda, NumericalErr)
		}
		mat.Col(u, j, eig.Vectors)
		v.MulVec(centered.T(), mat.NewVecDense(n, u))
		col := v.RawVector().Data
		floats.Scale(1/math.Sqrt(float64(n-1)*lambda), col)
		vectors.SetCol(j, col)
	}
	return &Basis{
		Vectors: vectors,
		Values:  eig.Values[:k],
	}, nil
}
