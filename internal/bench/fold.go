package bench

import (
	"fmt"
	"math/rand"

	"github.com/drakos74/face-bench/internal/math/ml"
)

// Fold is one train/test partition of the dataset indices.
type Fold struct {
	Index int
	Train []int
	Test  []int
}

// KFold permutes the n sample indices and cuts them into k contiguous test groups
// whose sizes differ by at most one. Each fold trains on everything outside its group.
func KFold(n, k int, rng *rand.Rand) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d: %w", k, ml.ConfigErr)
	}
	if k > n {
		return nil, fmt.Errorf("cannot split %d samples into %d folds: %w", n, k, ml.ConfigErr)
	}

	perm := rng.Perm(n)
	size := n / k
	remainder := n % k

	folds := make([]Fold, k)
	idx := 0
	for i := 0; i < k; i++ {
		nTest := size
		if i < remainder {
			nTest++
		}
		test := make([]int, nTest)
		copy(test, perm[idx:idx+nTest])

		train := make([]int, 0, n-nTest)
		train = append(train, perm[:idx]...)
		train = append(train, perm[idx+nTest:]...)

		folds[i] = Fold{
			Index: i,
			Train: train,
			Test:  test,
		}
		idx += nTest
	}
	return folds, nil
}
