package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// CallLimiter serializes outbound model calls to at most one per interval.
// Wait blocks the caller for whatever remains of the interval since the
// previous call: synchronous backpressure, not queuing. Safe for use from
// concurrent conversations; waiters must not hold unrelated locks.
type CallLimiter struct {
	limiter *rate.Limiter
}

func New(interval time.Duration) *CallLimiter {
	if interval <= 0 {
		return &CallLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &CallLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *CallLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call could proceed right now without waiting.
// Status endpoints use it; the pipeline itself always uses Wait.
func (l *CallLimiter) Allow() bool {
	tokens := l.limiter.Tokens()
	return tokens >= 1
}
