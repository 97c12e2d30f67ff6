package ml

import (
	"fmt"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LDA projects data onto the directions separating the classes of the training set,
// the leading eigenvectors of Sw⁻¹·Sb.
//
// The within-class scatter Sw is singular when there are fewer samples than features,
// so LDA is meant to run on PCA reduced data.
type LDA struct {
	Components int
	// MaxCondition is the largest condition number of Sw accepted,
	// math.DefaultMaxCondition if zero.
	MaxCondition float64
}

// NewLDA creates an LDA reducer keeping k components.
func NewLDA(k int) LDA {
	return LDA{Components: k}
}

func (l LDA) Name() string {
	return fmt.Sprintf("lda-%d", l.Components)
}

// FitApply fits on the training samples and labels and projects both sets.
func (l LDA) FitApply(xTrain *mat.Dense, yTrain []int, xTest *mat.Dense) (*mat.Dense, *mat.Dense, *Basis, error) {
	return FitApply(l, xTrain, yTrain, xTest)
}

// Fit computes the scatter matrices over the classes present in y and solves the
// eigenproblem of Sw⁻¹·Sb. The basis carries no mean, projections are not centered.
func (l LDA) Fit(x *mat.Dense, y []int) (*Basis, error) {
	if y == nil {
		return nil, fmt.Errorf("lda needs labels: %w", DataErr)
	}
	if err := checkShape(x, y); err != nil {
		return nil, err
	}
	_, d := x.Dims()
	k := l.Components
	if k < 1 || k > d {
		return nil, fmt.Errorf("cannot keep %d components of %d features: %w", k, d, ConfigErr)
	}
	classes := Classes(y)
	if len(classes) < 2 {
		return nil, fmt.Errorf("lda needs at least 2 classes, got %d: %w", len(classes), DataErr)
	}

	sw, sb := scatter(x, y, classes)

	maxCond := l.MaxCondition
	if maxCond <= 0 {
		maxCond = benchmath.DefaultMaxCondition
	}
	inv, err := benchmath.Inverse(sw, maxCond)
	if err != nil {
		return nil, fmt.Errorf("within-class scatter of %d classes in %d dimensions: %v: %w", len(classes), d, err, NumericalErr)
	}
	var m mat.Dense
	m.Mul(inv, sb)
	eig, err := benchmath.GeneralEigen(&m)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, NumericalErr)
	}

	log.Debug().
		Int("classes", len(classes)).
		Int("features", d).
		Int("components", k).
		Floats64("eigenvalues", eig.Values[:k]).
		Msg("lda basis")

	return &Basis{
		Vectors: eig.Top(k),
		Values:  eig.Values[:k],
	}, nil
}

// scatter returns the within-class and between-class scatter matrices.
func scatter(x *mat.Dense, y []int, classes []int) (sw, sb *mat.SymDense) {
	_, d := x.Dims()
	mean := benchmath.Mean(x)
	sw = mat.NewSymDense(d, nil)
	sb = mat.NewSymDense(d, nil)

	members := make(map[int][]int, len(classes))
	for i, l := range y {
		members[l] = append(members[l], i)
	}

	diff := make([]float64, d)
	for _, c := range classes {
		idx := members[c]
		rows := mat.NewDense(len(idx), d, nil)
		for r, i := range idx {
			rows.SetRow(r, x.RawRowView(i))
		}
		classMean := benchmath.Mean(rows)
		sw.AddSym(sw, benchmath.Scatter(rows, classMean))

		floats.SubTo(diff, classMean, mean)
		benchmath.AddOuter(sb, float64(len(idx)), diff)
	}
	return sw, sb
}
