// Package ratelimit throttles plan regenerations per user.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed     bool
	Message     string
	WaitSeconds int
}

// Limiter hands out one token bucket per user. A zero perHour disables
// limiting entirely.
type Limiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	now     func() time.Time
	buckets map[string]*rate.Limiter
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter allowing perHour regenerations per user with the
// given burst.
func New(perHour, burst int, opts ...Option) *Limiter {
	limit := rate.Inf
	if perHour > 0 {
		limit = rate.Every(time.Hour / time.Duration(perHour))
	}
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		every:   limit,
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow consumes a token for userID if one is available. A denied call
// consumes nothing.
func (l *Limiter) Allow(userID string) Decision {
	now := l.now()
	bucket := l.bucket(userID)

	r := bucket.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Message: "regeneration is not available"}
	}
	delay := r.DelayFrom(now)
	if delay <= 0 {
		return Decision{Allowed: true}
	}
	r.CancelAt(now)

	wait := int(math.Ceil(delay.Seconds()))
	return Decision{
		Message:     fmt.Sprintf("too many regenerations, try again in %ds", wait),
		WaitSeconds: wait,
	}
}

func (l *Limiter) bucket(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[userID]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[userID] = b
	}
	return b
}
