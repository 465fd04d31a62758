package admission

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 100
	DefaultMaxClients  = 65536
)

// Opts defines a counter policy. Zero values are replaced with
// defaults.
type Opts struct {
	Window      time.Duration
	MaxRequests int64

	// Now is a clock, time.Now if nil.
	Now func() time.Time
}

// Counter decides if a caller is admitted.
type Counter struct {
	store       Store
	window      time.Duration
	maxRequests int64
	now         func() time.Time
}

// Allow registers a request of the caller and tells if it is still
// within limits. If store fails, request is allowed and error is
// returned for logging.
func (c *Counter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := c.store.Incr(ctx, key, c.now(), c.window)
	if err != nil {
		return true, fmt.Errorf("cannot count request of %s: %w", key, err)
	}

	return count <= c.maxRequests, nil
}

// Window returns a size of the window.
func (c *Counter) Window() time.Duration {
	return c.window
}

func NewCounter(store Store, opts Opts) *Counter {
	rv := &Counter{
		store:       store,
		window:      opts.Window,
		maxRequests: opts.MaxRequests,
		now:         opts.Now,
	}

	if rv.window <= 0 {
		rv.window = DefaultWindow
	}

	if rv.maxRequests <= 0 {
		rv.maxRequests = DefaultMaxRequests
	}

	if rv.now == nil {
		rv.now = time.Now
	}

	return rv
}
