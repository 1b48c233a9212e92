// Package httpx provides the outbound HTTP building blocks for the
// collector: identity rotation, per-host rate limiting, and a fetch client
// with retry and circuit breaking.
package httpx

import (
	"net/http"
	"sync"
)

// defaultUserAgent is used when no identity pool is configured.
const defaultUserAgent = "intelwatch/1.0"

// Rotator supplies outbound request identities, cycling through a fixed
// pool of User-Agent strings in round-robin order. It is safe for
// concurrent use.
type Rotator struct {
	mu     sync.Mutex
	pool   []string
	cursor int
}

// NewRotator creates a Rotator over the given User-Agent pool.
// An empty pool is valid; Next then returns the built-in default.
func NewRotator(pool []string) *Rotator {
	return &Rotator{pool: pool}
}

// Next returns the next identity from the pool, advancing the cursor.
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pool) == 0 {
		return defaultUserAgent
	}

	ua := r.pool[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.pool)
	return ua
}

// Apply sets the rotated User-Agent plus a realistic browser header set on
// the request.
func (r *Rotator) Apply(req *http.Request) {
	req.Header.Set("User-Agent", r.Next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
