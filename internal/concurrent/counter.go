package concurrent

import (
	"sync/atomic"
)

// Counter is a synchronous counter for tracking finished units of work.
type Counter struct {
	done   uint64
	failed uint64
}

// Track records the outcome of one unit.
func (c *Counter) Track(err error) {
	atomic.AddUint64(&c.done, 1)
	if err != nil {
		atomic.AddUint64(&c.failed, 1)
	}
}

// Done returns the number of finished units.
func (c *Counter) Done() int {
	return int(atomic.LoadUint64(&c.done))
}

// Failed returns the number of finished units that returned an error.
func (c *Counter) Failed() int {
	return int(atomic.LoadUint64(&c.failed))
}
