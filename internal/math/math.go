package math

import (
	"errors"
	"strconv"
)

var (
	// SingularErr is returned when a matrix cannot be inverted with acceptable accuracy.
	SingularErr = errors.New("singular matrix")
	// NotConvergedErr is returned when a factorization fails to converge.
	NotConvergedErr = errors.New("factorization did not converge")
)

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// ToFloat converts each element of ii.
func ToFloat(ii []int) []float64 {
	ff := make([]float64, len(ii))
	for f, i := range ii {
		ff[f] = float64(i)
	}
	return ff
}
