// Package rate provides per-client request throttling for the HTTP server,
// built on golang.org/x/time/rate.
package rate

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter is a registry of token-bucket limiters keyed by client
// identifier (normally the remote IP), each configured with the same
// rps/burst pair. Entries are created lazily on first use and never
// evicted — fine for the bounded set of clients this demo service expects;
// a long-running multi-tenant deployment would want an eviction policy on
// top of this map.
type Limiter struct {
	mu    sync.Mutex
	byKey map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

// NewLimiter builds a Limiter allowing rps requests per second per key,
// with burst tokens available up front.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		byKey: make(map[string]*rate.Limiter),
		rps:   rate.Limit(rps),
		burst: burst,
	}
}

// Allow reports whether a request from key may proceed right now,
// consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.byKey[key]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.byKey[key] = lim
	}
	return lim
}
