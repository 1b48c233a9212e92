package httpx

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"intelwatch/internal/observability/metrics"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a minimum interval between requests per key
// (normally the target host). Each key gets its own token bucket that
// refills one token per interval, so no two calls for the same key start
// within the interval of each other. An optional random jitter is added on
// top of the interval to avoid synchronized request bursts.
//
// HostLimiter is shared across concurrent source workers and serializes
// access to its limiter table internally.
type HostLimiter struct {
	mu        sync.Mutex
	interval  time.Duration
	maxJitter time.Duration
	limiters  map[string]*rate.Limiter
}

// NewHostLimiter creates a HostLimiter with the given minimum interval
// between requests per key and an upper bound for added jitter.
// A zero maxJitter disables jitter.
func NewHostLimiter(minDelay, maxJitter time.Duration) *HostLimiter {
	return &HostLimiter{
		interval:  minDelay,
		maxJitter: maxJitter,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until at least the configured interval has elapsed since the
// last permitted call for the same key. The first call for a key returns
// immediately. Wait never blocks longer than interval+jitter per pending
// caller, and returns early with the context error on cancellation.
func (l *HostLimiter) Wait(ctx context.Context, key string) error {
	start := time.Now()
	if err := l.limiterFor(key).Wait(ctx); err != nil {
		return err
	}

	if l.maxJitter > 0 {
		// #nosec G404 -- jitter needs no cryptographic randomness.
		jitter := time.Duration(rand.Int63n(int64(l.maxJitter)))
		select {
		case <-time.After(jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	metrics.RecordRateLimitWait(time.Since(start))
	return nil
}

// limiterFor returns the per-key token bucket, creating it on first use.
func (l *HostLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[key] = lim
	}
	return lim
}
