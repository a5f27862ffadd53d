package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/olxscrape"
	"golang.org/x/time/rate"
)

// Fixed delays between consecutive requests of each workflow.
const (
	DefaultPageDelay   = 2 * time.Second
	DefaultSearchDelay = 1 * time.Second
	DefaultDetailDelay = 3 * time.Second
)

var _ olxscrape.Pacer = (*Throttle)(nil)

// Throttle spaces requests at least a fixed interval apart using a token
// bucket with a burst of 1. The first Wait returns immediately.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a Throttle for the given interval. A non-positive
// interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may be sent.
// Returns an error if the context is canceled before the wait completes.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
