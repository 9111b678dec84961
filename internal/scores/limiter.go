package scores

import (
	"sync"
	"time"
)

// RateLimiter allows at most limit events per key within a sliding window.
// It is safe for concurrent use.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	events map[string][]time.Time
}

// NewRateLimiter creates a limiter. A non-positive limit disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		events: make(map[string][]time.Time),
	}
}

// Allow records an event for key and reports whether it is within the limit.
// Rejected events are not recorded.
func (r *RateLimiter) Allow(key string) bool {
	if r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	recent := r.events[key][:0]
	for _, t := range r.events[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.events[key] = recent
		return false
	}

	r.events[key] = append(recent, now)
	return true
}

// Prune drops keys with no events inside the window.
func (r *RateLimiter) Prune() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	for key, times := range r.events {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(r.events, key)
		}
	}
}
