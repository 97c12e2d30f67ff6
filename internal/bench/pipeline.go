package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/drakos74/face-bench/internal/math/qp"
	"github.com/drakos74/face-bench/internal/metrics"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Split is the data of a single fold.
type Split struct {
	Fold    int
	XTrain  *mat.Dense
	YTrain  []int
	XTest   *mat.Dense
	YTest   []int
	Classes []int
}

// Result is the outcome of a pipeline on a single fold.
type Result struct {
	// Accuracy is the reported benchmark number in percent.
	Accuracy float64
	// Evaluation is set by the nearest neighbor pipeline.
	Evaluation *ml.Evaluation
	// OVR is set by the svm pipelines.
	OVR *ml.OVRResult
}

// Pipeline fits on the training part of a split and scores the test part.
// Nothing fitted survives between calls.
type Pipeline interface {
	Name() string
	Evaluate(ctx context.Context, s Split) (Result, error)
}

// NearestNeighbor reduces the features with PCA followed by LDA and labels the test samples
// after their nearest training samples in the reduced space.
type NearestNeighbor struct {
	pca ml.PCA
	lda ml.LDA
	nn  ml.NearestNeighbor
}

// NewNearestNeighbor creates the PCA+LDA+NN pipeline.
func NewNearestNeighbor(cfg Config) *NearestNeighbor {
	return &NearestNeighbor{
		pca: ml.NewPCA(cfg.PCA),
		lda: ml.NewLDA(cfg.LDA),
		nn:  ml.NearestNeighbor{K: cfg.Neighbors},
	}
}

func (p *NearestNeighbor) Name() string {
	return fmt.Sprintf("PCA+LDA+%dNN", p.nn.K)
}

func (p *NearestNeighbor) Evaluate(ctx context.Context, s Split) (Result, error) {
	trainPCA, testPCA, _, err := p.pca.FitApply(s.XTrain, s.XTest)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	trainLDA, testLDA, _, err := p.lda.FitApply(trainPCA, s.YTrain, testPCA)
	if err != nil {
		return Result{}, err
	}
	neighbors, err := p.nn.PredictAll(trainLDA, s.YTrain, testLDA)
	if err != nil {
		return Result{}, err
	}
	predicted := ml.Labels(neighbors)
	acc, err := ml.Accuracy(predicted, s.YTest)
	if err != nil {
		return Result{}, err
	}
	eval, err := ml.Evaluate(predicted, s.YTest)
	if err != nil {
		return Result{}, err
	}
	log.Debug().
		Int("fold", s.Fold).
		Str("pipeline", p.Name()).
		Msg(eval.Summary())
	return Result{
		Accuracy:   acc,
		Evaluation: &eval,
	}, nil
}

// SVM classifies with one binary linear svm per class, optionally on PCA reduced features.
type SVM struct {
	pca *ml.PCA
	ovr ml.OneVsRest
}

// NewSVM creates the svm pipeline. With a nil pca the svm trains on the raw features.
func NewSVM(cfg Config, pca *ml.PCA) *SVM {
	svm := ml.NewSVM(cfg.SVM.C)
	if cfg.SVM.Threshold > 0 {
		svm.Threshold = cfg.SVM.Threshold
	}
	svm.Solver = &qp.SMO{Tolerance: cfg.SVM.Tolerance}
	return &SVM{
		pca: pca,
		ovr: ml.OneVsRest{
			SVM:     svm,
			Workers: cfg.ClassWorkers,
		},
	}
}

func (p *SVM) Name() string {
	if p.pca != nil {
		return "PCA+SVM"
	}
	return "SVM"
}

func (p *SVM) Evaluate(ctx context.Context, s Split) (Result, error) {
	xTrain, xTest := s.XTrain, s.XTest
	if p.pca != nil {
		var err error
		xTrain, xTest, _, err = p.pca.FitApply(s.XTrain, s.XTest)
		if err != nil {
			return Result{}, err
		}
	}
	res, err := p.ovr.Evaluate(ctx, xTrain, s.YTrain, xTest, s.YTest, s.Classes)
	var failures ml.Errors
	switch {
	case errors.As(err, &failures):
		metrics.Observer.Classes(p.Name(), len(s.Classes)-len(failures), len(failures))
	case err == nil:
		metrics.Observer.Classes(p.Name(), len(s.Classes), 0)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		Accuracy: res.Accuracy,
		OVR:      &res,
	}, nil
}
