package bench

import (
	"fmt"
	"io"
	"time"

	benchmath "github.com/drakos74/face-bench/internal/math"
	"github.com/olekukonko/tablewriter"
)

// FoldResult is the outcome of a single fold.
type FoldResult struct {
	Fold     int           `json:"fold"`
	Train    int           `json:"train"`
	Test     int           `json:"test"`
	Accuracy float64       `json:"accuracy"`
	Duration time.Duration `json:"duration"`
	// DecisionAccuracy is the argmax multiclass accuracy, set by the svm pipelines only.
	DecisionAccuracy *float64 `json:"decision_accuracy,omitempty"`
	// Precision and Recall are the macro averages of the nearest neighbor pipeline.
	Precision float64 `json:"precision,omitempty"`
	Recall    float64 `json:"recall,omitempty"`
	Err       error   `json:"-"`
	Error     string  `json:"error,omitempty"`
}

// OK reports whether the fold completed.
func (f FoldResult) OK() bool {
	return f.Err == nil
}

// Report summarises a cross validation run. Failed folds are listed but
// never enter the aggregates.
type Report struct {
	ID        string       `json:"id"`
	Pipeline  string       `json:"pipeline"`
	Samples   int          `json:"samples"`
	Features  int          `json:"features"`
	Classes   int          `json:"classes"`
	Folds     []FoldResult `json:"folds"`
	Completed int          `json:"completed"`
	Partial   bool         `json:"partial"`
	// Accuracy is the mean accuracy of the completed folds.
	Accuracy float64 `json:"accuracy"`
	// StDev is the sample standard deviation of the completed fold accuracies.
	StDev float64 `json:"stdev"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	// Seconds is the mean time spent per completed fold.
	Seconds float64 `json:"seconds"`
	// Busy is the total time spent in the completed folds.
	Busy    float64       `json:"busy"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r Report) String() string {
	return fmt.Sprintf("%s: mean accuracy %s%% ± %s (completed %d/%d folds)",
		r.Pipeline, benchmath.Format(r.Accuracy), benchmath.Format(r.StDev), r.Completed, len(r.Folds))
}

// Table renders the per fold results.
func (r Report) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Fold", "Train", "Test", "Accuracy", "Argmax", "Time", "Error"})
	for _, f := range r.Folds {
		acc, argmax := "-", "-"
		if f.OK() {
			acc = benchmath.Format(f.Accuracy)
			if f.DecisionAccuracy != nil {
				argmax = benchmath.Format(*f.DecisionAccuracy)
			}
		}
		table.Append([]string{
			fmt.Sprintf("%d", f.Fold),
			fmt.Sprintf("%d", f.Train),
			fmt.Sprintf("%d", f.Test),
			acc,
			argmax,
			f.Duration.Round(time.Millisecond).String(),
			f.Error,
		})
	}
	table.SetFooter([]string{
		"mean",
		"",
		"",
		benchmath.Format(r.Accuracy),
		"",
		fmt.Sprintf("%.3fs", r.Seconds),
		fmt.Sprintf("%d/%d", r.Completed, len(r.Folds)),
	})
	table.Render()
}
