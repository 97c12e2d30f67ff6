// Package faces loads labelled face images into datasets.
package faces

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/drakos74/face-bench/internal/math/ml"
)

// Loader produces a dataset.
type Loader interface {
	Load() (*ml.Dataset, error)
}

// subject parses the label of a subject directory, e.g. 's12' is subject 12.
func subject(name string) (int, error) {
	digits := strings.TrimLeftFunc(name, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	label, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("directory '%s' is not named after a subject number: %w", name, ml.DataErr)
	}
	return label, nil
}
