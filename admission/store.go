package admission

import (
	"context"
	"time"
)

// Store keeps counters of requests per caller key.
type Store interface {
	// Incr increments a counter of the key in the current window and
	// returns a new value. A window starts with the first request of
	// the key if it has no active window.
	Incr(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}
