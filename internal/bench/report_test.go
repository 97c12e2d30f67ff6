package bench

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Table(t *testing.T) {

	type test struct {
		fold   FoldResult
		argmax string
	}

	zero, full := 0.0, 100.0

	tests := map[string]test{
		"nearest-neighbor": {
			fold:   FoldResult{Fold: 1, Accuracy: 90},
			argmax: "-",
		},
		"svm": {
			fold:   FoldResult{Fold: 1, Accuracy: 97.5, DecisionAccuracy: &full},
			argmax: "100.00",
		},
		"svm-all-wrong": {
			fold:   FoldResult{Fold: 1, Accuracy: 97.5, DecisionAccuracy: &zero},
			argmax: "0.00",
		},
		"failed": {
			fold:   FoldResult{Fold: 1, DecisionAccuracy: &full, Err: errors.New("failure"), Error: "failure"},
			argmax: "-",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var b bytes.Buffer
			Report{Pipeline: name, Folds: []FoldResult{tt.fold}}.Table(&b)

			var row []string
			for _, line := range strings.Split(b.String(), "\n") {
				cells := strings.Split(line, "|")
				if len(cells) > 1 && strings.TrimSpace(cells[1]) == "1" {
					row = cells
				}
			}
			require.True(t, len(row) > 5, b.String())
			assert.Equal(t, tt.argmax, strings.TrimSpace(row[5]), b.String())
		})
	}
}
