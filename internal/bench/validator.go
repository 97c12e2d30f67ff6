package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/drakos74/face-bench/internal/buffer"
	"github.com/drakos74/face-bench/internal/concurrent"
	benchmath "github.com/drakos74/face-bench/internal/math"
	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/drakos74/face-bench/internal/metrics"
	"github.com/drakos74/face-bench/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NoFoldErr is returned when every fold of a run failed.
var NoFoldErr = errors.New("no fold completed")

// Validator runs k-fold cross validation of pipelines over a dataset.
type Validator struct {
	cfg   Config
	mutex *sync.Mutex
	rng   *rand.Rand
	store storage.Persistence
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg Config) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Validator{
		cfg:   cfg,
		mutex: new(sync.Mutex),
		rng:   rand.New(rand.NewSource(seed)),
		store: storage.NewVoidStorage(),
	}, nil
}

// WithStorage persists every finished report to the given store.
func (v *Validator) WithStorage(store storage.Persistence) *Validator {
	v.store = store
	return v
}

// Run evaluates the pipeline on every fold of the dataset.
// Failed folds are recorded in the report and skipped, unless the config asks to fail fast.
func (v *Validator) Run(ctx context.Context, ds *ml.Dataset, p Pipeline) (Report, error) {
	v.mutex.Lock()
	folds, err := KFold(ds.Len(), v.cfg.Folds, v.rng)
	v.mutex.Unlock()
	if err != nil {
		return Report{}, err
	}

	report := Report{
		ID:       uuid.New().String(),
		Pipeline: p.Name(),
		Samples:  ds.Len(),
		Features: ds.Dim(),
		Classes:  len(ds.Classes()),
		Folds:    make([]FoldResult, len(folds)),
		Started:  time.Now(),
	}
	classes := ds.Classes()

	log.Info().
		Str("run", report.ID).
		Str("pipeline", report.Pipeline).
		Int("samples", report.Samples).
		Int("features", report.Features).
		Int("classes", report.Classes).
		Int("folds", len(folds)).
		Msg("start cross validation")

	errs, counter, failure := concurrent.Run(ctx, len(folds), v.cfg.Workers, v.cfg.FailFast, func(ctx context.Context, i int) error {
		f := folds[i]
		xTrain, yTrain := ds.Split(f.Train)
		xTest, yTest := ds.Split(f.Test)
		start := time.Now()
		res, err := p.Evaluate(ctx, Split{
			Fold:    i + 1,
			XTrain:  xTrain,
			YTrain:  yTrain,
			XTest:   xTest,
			YTest:   yTest,
			Classes: classes,
		})
		elapsed := time.Since(start)
		metrics.Observer.Fold(report.Pipeline, err, res.Accuracy, elapsed)

		result := FoldResult{
			Fold:     i + 1,
			Train:    len(f.Train),
			Test:     len(f.Test),
			Duration: elapsed,
		}
		if err != nil {
			err = fmt.Errorf("fold %d: %w", i+1, err)
			result.Err = err
			result.Error = err.Error()
			report.Folds[i] = result
			log.Warn().
				Err(err).
				Str("run", report.ID).
				Str("pipeline", report.Pipeline).
				Int("fold", i+1).
				Msg("fold failed")
			return err
		}

		result.Accuracy = res.Accuracy
		if res.OVR != nil {
			decision := res.OVR.DecisionAccuracy
			result.DecisionAccuracy = &decision
		}
		if res.Evaluation != nil {
			result.Precision = res.Evaluation.Precision
			result.Recall = res.Evaluation.Recall
		}
		report.Folds[i] = result
		log.Info().
			Str("run", report.ID).
			Str("pipeline", report.Pipeline).
			Int("fold", i+1).
			Str("accuracy", benchmath.Format(res.Accuracy)).
			Dur("elapsed", elapsed).
			Msg("fold done")
		return nil
	})

	// folds canceled before they started
	for i, err := range errs {
		if err != nil && report.Folds[i].Err == nil {
			report.Folds[i] = FoldResult{
				Fold:  i + 1,
				Train: len(folds[i].Train),
				Test:  len(folds[i].Test),
				Err:   err,
				Error: err.Error(),
			}
		}
	}

	stats := buffer.NewStatsCollector(2)
	for _, f := range report.Folds {
		if f.OK() {
			stats.Push(f.Accuracy, f.Duration.Seconds())
		}
	}
	accuracy, seconds := stats.Stats()[0], stats.Stats()[1]
	report.Completed = stats.Size()
	report.Partial = report.Completed < len(folds)
	report.Accuracy = accuracy.Avg()
	report.StDev = accuracy.SampleStDev()
	report.Min = accuracy.Min()
	report.Max = accuracy.Max()
	report.Seconds = seconds.Avg()
	report.Busy = seconds.Sum()
	report.Elapsed = time.Since(report.Started)

	log.Info().
		Str("run", report.ID).
		Str("pipeline", report.Pipeline).
		Int("completed", report.Completed).
		Int("failed", counter.Failed()).
		Str("accuracy", accuracy.String()).
		Float64("busy", report.Busy).
		Msg("cross validation done")

	if err := v.store.Store(storage.Key{
		Run:      report.ID,
		Pipeline: report.Pipeline,
		Label:    "report",
	}, report); err != nil {
		log.Error().Err(err).Str("run", report.ID).Msg("could not store report")
	}

	if v.cfg.FailFast {
		if failure == nil {
			failure = ctx.Err()
		}
		if failure != nil {
			return report, failure
		}
	}
	if report.Completed == 0 {
		return report, fmt.Errorf("%s over %d folds: %v: %w", report.Pipeline, len(folds), ml.Errors(errs).Err(), NoFoldErr)
	}
	return report, nil
}
