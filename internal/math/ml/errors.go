package ml

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// DataErr marks malformed input data: dimension mismatches, empty sets, bad labels.
	DataErr = errors.New("invalid data")
	// NumericalErr marks singular matrices, degenerate models and failed factorizations.
	NumericalErr = errors.New("numerical failure")
	// ConfigErr marks invalid parameters.
	ConfigErr = errors.New("invalid configuration")
)

// Errors collects the failures of independent units of work.
type Errors []error

func (ee Errors) Error() string {
	msgs := make([]string, len(ee))
	for i, e := range ee {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d failures: [%s]", len(ee), strings.Join(msgs, "; "))
}

// Is reports whether any of the collected errors matches target.
func (ee Errors) Is(target error) bool {
	for _, e := range ee {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

// Err drops the nil entries and returns nil if nothing is left.
func (ee Errors) Err() error {
	failed := make(Errors, 0, len(ee))
	for _, e := range ee {
		if e != nil {
			failed = append(failed, e)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return failed
}
