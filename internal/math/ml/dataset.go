package ml

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sample is a feature vector with its class label.
type Sample struct {
	Features []float64 `json:"features"`
	Label    int       `json:"label"`
}

// Dataset is an ordered, read-only set of samples of equal dimension.
type Dataset struct {
	samples []Sample
	dim     int
	classes []int
}

// NewDataset validates the samples and wraps them into a Dataset.
func NewDataset(samples []Sample) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty dataset: %w", DataErr)
	}
	dim := len(samples[0].Features)
	if dim == 0 {
		return nil, fmt.Errorf("sample 0 has no features: %w", DataErr)
	}
	seen := make(map[int]struct{})
	classes := make([]int, 0)
	for i, s := range samples {
		if len(s.Features) != dim {
			return nil, fmt.Errorf("vector dims: found %d and %d at sample %d: %w", dim, len(s.Features), i, DataErr)
		}
		if s.Label < 1 {
			return nil, fmt.Errorf("label %d of sample %d is not positive: %w", s.Label, i, DataErr)
		}
		if _, ok := seen[s.Label]; !ok {
			seen[s.Label] = struct{}{}
			classes = append(classes, s.Label)
		}
	}
	sort.Ints(classes)
	return &Dataset{
		samples: samples,
		dim:     dim,
		classes: classes,
	}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.samples)
}

// Dim returns the feature dimension.
func (d *Dataset) Dim() int {
	return d.dim
}

// At returns the i-th sample.
func (d *Dataset) At(i int) Sample {
	return d.samples[i]
}

// Classes returns the sorted distinct labels.
func (d *Dataset) Classes() []int {
	classes := make([]int, len(d.classes))
	copy(classes, d.classes)
	return classes
}

// Split gathers the samples at the given indices into a feature matrix and label vector.
// The returned matrix does not share memory with the dataset; idx must not be empty.
func (d *Dataset) Split(idx []int) (*mat.Dense, []int) {
	x := mat.NewDense(len(idx), d.dim, nil)
	y := make([]int, len(idx))
	for r, i := range idx {
		x.SetRow(r, d.samples[i].Features)
		y[r] = d.samples[i].Label
	}
	return x, y
}

// Classes returns the sorted distinct labels of y.
func Classes(y []int) []int {
	seen := make(map[int]struct{})
	classes := make([]int, 0)
	for _, l := range y {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			classes = append(classes, l)
		}
	}
	sort.Ints(classes)
	return classes
}

// OneVsRestLabels maps y to +1 where the label equals class and -1 elsewhere.
func OneVsRestLabels(y []int, class int) []int {
	ovr := make([]int, len(y))
	for i, l := range y {
		if l == class {
			ovr[i] = 1
		} else {
			ovr[i] = -1
		}
	}
	return ovr
}

func checkShape(x mat.Matrix, y []int) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("empty matrix %dx%d: %w", r, c, DataErr)
	}
	if y != nil && len(y) != r {
		return fmt.Errorf("%d labels for %d samples: %w", len(y), r, DataErr)
	}
	return nil
}
