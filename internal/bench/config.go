package bench

import (
	"fmt"

	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/drakos74/face-bench/internal/math/qp"
)

// SVMConfig parametrises the binary classifiers of the svm pipelines.
type SVMConfig struct {
	C         float64 `json:"c"`
	Threshold float64 `json:"threshold"`
	Tolerance float64 `json:"tolerance"`
}

// Config drives a benchmark run.
type Config struct {
	Folds     int       `json:"folds"`
	PCA       int       `json:"pca"`
	LDA       int       `json:"lda"`
	Neighbors int       `json:"neighbors"`
	SVM       SVMConfig `json:"svm"`
	// Seed for the fold permutation, time based if zero.
	Seed int64 `json:"seed"`
	// Workers bounds the folds evaluated in parallel.
	Workers int `json:"workers"`
	// ClassWorkers bounds the one-vs-rest classes trained in parallel within each fold,
	// so up to Workers×ClassWorkers svms train at once.
	ClassWorkers int `json:"class_workers"`
	// FailFast aborts the run on the first failed fold instead of skipping it.
	FailFast bool `json:"fail_fast"`
	// Scale is the down-scaling factor applied to the images on load.
	Scale int `json:"scale"`
}

// DefaultConfig returns the reference benchmark setup.
func DefaultConfig() Config {
	return Config{
		Folds:     5,
		PCA:       70,
		LDA:       25,
		Neighbors: 1,
		SVM: SVMConfig{
			C:         ml.DefaultC,
			Threshold: ml.DefaultThreshold,
			Tolerance: qp.DefaultTolerance,
		},
		Workers:      1,
		ClassWorkers: 1,
		Scale:        2,
	}
}

// Validate checks the parameters that do not depend on the data.
func (c Config) Validate() error {
	switch {
	case c.Folds < 2:
		return fmt.Errorf("need at least 2 folds, got %d: %w", c.Folds, ml.ConfigErr)
	case c.PCA < 1:
		return fmt.Errorf("pca components must be positive, got %d: %w", c.PCA, ml.ConfigErr)
	case c.LDA < 1:
		return fmt.Errorf("lda components must be positive, got %d: %w", c.LDA, ml.ConfigErr)
	case c.Neighbors < 1:
		return fmt.Errorf("neighbors must be positive, got %d: %w", c.Neighbors, ml.ConfigErr)
	case c.SVM.C <= 0:
		return fmt.Errorf("svm penalty must be positive, got %g: %w", c.SVM.C, ml.ConfigErr)
	case c.Workers < 1:
		return fmt.Errorf("workers must be positive, got %d: %w", c.Workers, ml.ConfigErr)
	case c.ClassWorkers < 1:
		return fmt.Errorf("class workers must be positive, got %d: %w", c.ClassWorkers, ml.ConfigErr)
	case c.Scale < 1:
		return fmt.Errorf("scale must be positive, got %d: %w", c.Scale, ml.ConfigErr)
	}
	return nil
}
