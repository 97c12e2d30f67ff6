package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {

	type test struct {
		predicted []int
		truth     []int
		accuracy  float64
		err       error
	}

	tests := map[string]test{
		"all": {
			predicted: []int{1, 2, 3},
			truth:     []int{1, 2, 3},
			accuracy:  100,
		},
		"half": {
			predicted: []int{1, 1, 2, 2},
			truth:     []int{1, 2, 2, 1},
			accuracy:  50,
		},
		"none": {
			predicted: []int{-1, -1},
			truth:     []int{1, 1},
			accuracy:  0,
		},
		"empty": {
			err: DataErr,
		},
		"length-mismatch": {
			predicted: []int{1},
			truth:     []int{1, 2},
			err:       DataErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			acc, err := Accuracy(tt.predicted, tt.truth)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.accuracy, acc)
		})
	}
}

func TestEvaluate(t *testing.T) {
	truth := []int{1, 1, 2, 2, 3, 3}
	predicted := []int{1, 1, 2, 3, 3, 3}

	e, err := Evaluate(predicted, truth)
	require.NoError(t, err)

	acc, err := Accuracy(predicted, truth)
	require.NoError(t, err)
	assert.InDelta(t, acc, e.Accuracy, 1e-9)

	assert.Equal(t, 2, e.Confusion["2"]["2"]+e.Confusion["2"]["3"])
	assert.Equal(t, 1, e.Confusion["2"]["3"])
	assert.Greater(t, e.Precision, 0.0)
	assert.Greater(t, e.Recall, 0.0)
	assert.NotEmpty(t, e.Summary())

	_, err = Evaluate(nil, nil)
	assert.True(t, errors.Is(err, DataErr))
}
