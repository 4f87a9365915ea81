package ratelimit

import (
	"sync"
	"time"
)

// Limiter is an in-process sliding-window rate limiter keyed by caller
// identity. Each process enforces its own window, so a horizontally scaled
// deployment multiplies the effective limit.
type Limiter struct {
	mu       sync.Mutex
	requests int
	window   time.Duration
	hits     map[string][]time.Time
	now      func() time.Time
}

func New(requests int, window time.Duration) *Limiter {
	return &Limiter{
		requests: requests,
		window:   window,
		hits:     make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records a hit for key and reports whether it still fits in the
// current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.requests {
		l.hits[key] = kept
		return false
	}

	l.hits[key] = append(kept, now)
	return true
}

// Prune drops idle keys. Call periodically to bound memory.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, times := range l.hits {
		alive := false
		for _, t := range times {
			if t.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.hits, key)
		}
	}
}
