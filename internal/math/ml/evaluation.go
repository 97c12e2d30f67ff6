package ml

import (
	"fmt"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
)

// Accuracy returns the percentage of predictions matching the truth,
// relative to the actual number of samples.
func Accuracy(predicted, truth []int) (float64, error) {
	if len(truth) == 0 {
		return 0, fmt.Errorf("no samples to score: %w", DataErr)
	}
	if len(predicted) != len(truth) {
		return 0, fmt.Errorf("%d predictions for %d samples: %w", len(predicted), len(truth), DataErr)
	}
	var correct int
	for i, p := range predicted {
		if p == truth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth)) * 100, nil
}

// Evaluation summarises multiclass predictions.
type Evaluation struct {
	// Accuracy in percent.
	Accuracy float64 `json:"accuracy"`
	// Precision is the macro averaged precision.
	Precision float64 `json:"precision"`
	// Recall is the macro averaged recall.
	Recall    float64                   `json:"recall"`
	Confusion evaluation.ConfusionMatrix `json:"confusion"`
}

// Summary renders the per-class precision and recall table.
func (e Evaluation) Summary() string {
	return evaluation.GetSummary(e.Confusion)
}

// Evaluate builds the confusion matrix of the predictions against the truth.
func Evaluate(predicted, truth []int) (Evaluation, error) {
	if len(truth) == 0 || len(predicted) != len(truth) {
		return Evaluation{}, fmt.Errorf("%d predictions for %d samples: %w", len(predicted), len(truth), DataErr)
	}
	ref, err := instances(truth)
	if err != nil {
		return Evaluation{}, err
	}
	gen, err := instances(predicted)
	if err != nil {
		return Evaluation{}, err
	}
	confusion, err := evaluation.GetConfusionMatrix(ref, gen)
	if err != nil {
		return Evaluation{}, fmt.Errorf("could not get confusion matrix: %w", err)
	}
	return Evaluation{
		Accuracy:  evaluation.GetAccuracy(confusion) * 100,
		Precision: evaluation.GetMacroPrecision(confusion),
		Recall:    evaluation.GetMacroRecall(confusion),
		Confusion: confusion,
	}, nil
}

// instances wraps labels into a single class attribute grid.
func instances(labels []int) (*base.DenseInstances, error) {
	grid := base.NewDenseInstances()
	attr := base.NewCategoricalAttribute()
	attr.SetName("label")
	spec := grid.AddAttribute(attr)
	if err := grid.AddClassAttribute(attr); err != nil {
		return nil, fmt.Errorf("could not add class attribute: %w", err)
	}
	if err := grid.Extend(len(labels)); err != nil {
		return nil, fmt.Errorf("could not allocate %d rows: %w", len(labels), err)
	}
	for i, l := range labels {
		grid.Set(spec, i, attr.GetSysValFromString(strconv.Itoa(l)))
	}
	return grid, nil
}
