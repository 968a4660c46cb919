// Package ai provides the shared call gate for AI assistant adapters.
package ai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval is the default minimum spacing between assistant
// calls (15 requests/minute).
const DefaultMinInterval = 4 * time.Second

var (
	gateOnce sync.Once
	gate     *rate.Limiter
)

// Gate returns the process-wide limiter that serialises every assistant
// call, regardless of how many comparisons run in parallel. The first
// caller fixes the interval; subsequent calls share the same limiter.
func Gate() *rate.Limiter {
	gateOnce.Do(func() {
		gate = rate.NewLimiter(rate.Every(DefaultMinInterval), 1)
	})
	return gate
}

// Wait blocks until the gate admits one assistant call or the context is
// cancelled.
func Wait(ctx context.Context) error {
	return Gate().Wait(ctx)
}
