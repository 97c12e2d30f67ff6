package ml

import (
	"fmt"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"github.com/drakos74/face-bench/internal/math/qp"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultC is the soft-margin penalty.
	DefaultC = 100.0
	// DefaultThreshold is the multiplier above which a sample counts as a support vector.
	DefaultThreshold = 1e-7
)

// SVM trains linear soft-margin support vector machines through the dual quadratic program
//
//	minimize  ½·λᵀ·(y yᵀ ∘ M)·λ − Σλᵢ
//	s.t.      0 <= λᵢ <= C,  Σ yᵢλᵢ = 0
//
// where M is the Gram matrix of the training samples.
type SVM struct {
	C         float64
	Threshold float64
	Solver    qp.Solver
}

// NewSVM creates an SVM with the given penalty, the default threshold and an SMO solver.
func NewSVM(c float64) SVM {
	return SVM{
		C:         c,
		Threshold: DefaultThreshold,
		Solver:    qp.NewSMO(),
	}
}

// SupportVector is a training sample with a positive multiplier.
type SupportVector struct {
	Index      int       `json:"index"`
	Features   []float64 `json:"features"`
	Label      int       `json:"label"`
	Multiplier float64   `json:"multiplier"`
}

// SVMModel is a trained linear decision function. It is never mutated after Train.
type SVMModel struct {
	Bias    float64         `json:"bias"`
	Weights []float64       `json:"weights"`
	Support []SupportVector `json:"support"`
}

// Decision returns the signed margin w·x + b.
func (m SVMModel) Decision(x []float64) float64 {
	return floats.Dot(m.Weights, x) + m.Bias
}

// Predict returns +1 if x falls on the positive side of the hyperplane, -1 otherwise.
// Points on the hyperplane are assigned to the positive class.
func (m SVMModel) Predict(x []float64) int {
	if m.Decision(x) >= 0 {
		return 1
	}
	return -1
}

// PredictAll predicts every row of x.
func (m SVMModel) PredictAll(x mat.Matrix) ([]int, error) {
	r, c := x.Dims()
	if c != len(m.Weights) {
		return nil, fmt.Errorf("model has %d weights, samples have %d features: %w", len(m.Weights), c, DataErr)
	}
	pred := make([]int, r)
	row := make([]float64, c)
	for i := range pred {
		pred[i] = m.Predict(mat.Row(row, i, x))
	}
	return pred, nil
}

// Train fits the model to the rows of x with labels y in {-1, +1}.
func (s SVM) Train(x *mat.Dense, y []int) (SVMModel, error) {
	if err := checkShape(x, y); err != nil {
		return SVMModel{}, err
	}
	if s.C <= 0 {
		return SVMModel{}, fmt.Errorf("penalty C must be positive, got %g: %w", s.C, ConfigErr)
	}
	if s.Solver == nil {
		return SVMModel{}, fmt.Errorf("no qp solver: %w", ConfigErr)
	}
	n, d := x.Dims()
	for i, l := range y {
		if l != 1 && l != -1 {
			return SVMModel{}, fmt.Errorf("label %d of sample %d is not in {-1, 1}: %w", l, i, DataErr)
		}
	}
	labels := benchmath.ToFloat(y)

	gram := benchmath.Gram(x)
	p := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			p.SetSym(i, j, labels[i]*labels[j]*gram.At(i, j))
		}
	}
	q := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range q {
		q[i] = -1
		upper[i] = s.C
	}
	g, h := qp.Box(lower, upper)

	lm, err := s.Solver.Solve(qp.Problem{
		P: p,
		Q: q,
		G: g,
		H: h,
		A: labels,
		B: 0,
	})
	if err != nil {
		return SVMModel{}, fmt.Errorf("could not solve dual problem: %w", err)
	}

	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	sv := make([]int, 0)
	for i, l := range lm {
		if l > threshold {
			sv = append(sv, i)
		}
	}
	if len(sv) == 0 {
		return SVMModel{}, fmt.Errorf("no multiplier above %g among %d samples: %w", threshold, n, NumericalErr)
	}

	model := SVMModel{
		Weights: make([]float64, d),
		Support: make([]SupportVector, len(sv)),
	}
	for k, i := range sv {
		var sum float64
		for _, j := range sv {
			sum += lm[j] * labels[j] * gram.At(i, j)
		}
		model.Bias += labels[i] - sum

		features := mat.Row(nil, i, x)
		floats.AddScaled(model.Weights, lm[i]*labels[i], features)
		model.Support[k] = SupportVector{
			Index:      i,
			Features:   features,
			Label:      y[i],
			Multiplier: lm[i],
		}
	}
	model.Bias /= float64(len(sv))

	log.Debug().
		Int("samples", n).
		Int("features", d).
		Int("support", len(sv)).
		Float64("bias", model.Bias).
		Msg("svm trained")
	return model, nil
}
