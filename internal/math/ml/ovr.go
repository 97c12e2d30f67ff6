package ml

import (
	"context"
	"fmt"

	"github.com/drakos74/face-bench/internal/concurrent"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// OneVsRest reduces multiclass classification to one binary SVM per class.
type OneVsRest struct {
	SVM     SVM
	Workers int
}

// ClassResult is the binary outcome for a single class.
type ClassResult struct {
	Class    int     `json:"class"`
	Accuracy float64 `json:"accuracy"`
	Support  int     `json:"support"`
	model    SVMModel
}

// OVRResult holds the per class outcomes of a one-vs-rest evaluation.
type OVRResult struct {
	Classes []ClassResult `json:"classes"`
	// Accuracy is the mean of the binary accuracies over all classes.
	Accuracy float64 `json:"accuracy"`
	// DecisionAccuracy is the multiclass accuracy when each sample is assigned
	// to the class with the largest decision value.
	DecisionAccuracy float64 `json:"decision_accuracy"`
}

// Evaluate trains one binary model per class on the relabelled training set and scores it
// on the relabelled test set. Classes are independent and may be trained in parallel.
// A failure in any class fails the whole evaluation.
func (o OneVsRest) Evaluate(ctx context.Context, xTrain *mat.Dense, yTrain []int, xTest *mat.Dense, yTest []int, classes []int) (OVRResult, error) {
	if len(classes) == 0 {
		return OVRResult{}, fmt.Errorf("no classes to evaluate: %w", ConfigErr)
	}
	if err := checkShape(xTrain, yTrain); err != nil {
		return OVRResult{}, err
	}
	if err := checkShape(xTest, yTest); err != nil {
		return OVRResult{}, err
	}

	results := make([]ClassResult, len(classes))
	errs, _, _ := concurrent.Run(ctx, len(classes), o.Workers, false, func(ctx context.Context, i int) error {
		class := classes[i]
		model, err := o.SVM.Train(xTrain, OneVsRestLabels(yTrain, class))
		if err != nil {
			return fmt.Errorf("class %d: %w", class, err)
		}
		pred, err := model.PredictAll(xTest)
		if err != nil {
			return fmt.Errorf("class %d: %w", class, err)
		}
		acc, err := Accuracy(pred, OneVsRestLabels(yTest, class))
		if err != nil {
			return fmt.Errorf("class %d: %w", class, err)
		}
		results[i] = ClassResult{
			Class:    class,
			Accuracy: acc,
			Support:  len(model.Support),
			model:    model,
		}
		log.Debug().
			Int("class", class).
			Int("support", len(model.Support)).
			Str("accuracy", fmt.Sprintf("%.2f", acc)).
			Msg("binary svm")
		return nil
	})
	if err := Errors(errs).Err(); err != nil {
		return OVRResult{}, err
	}

	var sum float64
	for _, r := range results {
		sum += r.Accuracy
	}
	decision, err := Accuracy(argmax(results, xTest), yTest)
	if err != nil {
		return OVRResult{}, err
	}
	return OVRResult{
		Classes:          results,
		Accuracy:         sum / float64(len(results)),
		DecisionAccuracy: decision,
	}, nil
}

// argmax assigns every row of x to the class with the largest decision value.
// Ties go to the class listed first.
func argmax(results []ClassResult, x *mat.Dense) []int {
	r, _ := x.Dims()
	pred := make([]int, r)
	for i := 0; i < r; i++ {
		row := x.RawRowView(i)
		best := results[0].model.Decision(row)
		pred[i] = results[0].Class
		for _, c := range results[1:] {
			if v := c.model.Decision(row); v > best {
				best = v
				pred[i] = c.Class
			}
		}
	}
	return pred
}
