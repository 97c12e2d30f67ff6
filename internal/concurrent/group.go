package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Unit is an independent piece of work identified by its index.
type Unit func(ctx context.Context, i int) error

// Run executes n units on at most workers goroutines and returns the error of each unit
// at its index, together with the first unit failure. Units share nothing but the context.
// With failFast the first error cancels the context seen by the remaining units,
// which then report the context error without running.
func Run(ctx context.Context, n, workers int, failFast bool, unit Unit) ([]error, *Counter, error) {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, n)
	counter := new(Counter)
	sem := semaphore.NewWeighted(int64(workers))
	var g errgroup.Group

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := ctx.Err(); err != nil {
				// canceled units are not failures of their own
				errs[i] = err
				return nil
			}
			err := unit(ctx, i)
			errs[i] = err
			counter.Track(err)
			if err != nil && failFast {
				cancel()
			}
			return err
		})
	}
	return errs, counter, g.Wait()
}
