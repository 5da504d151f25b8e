package services

import (
	"sync"
	"time"
)

// RateCounter is a per-identity sliding-window attempt counter. It guards
// the promo evaluator against brute-forcing codes: each buyer gets a
// bounded number of validation attempts per window.
//
// RateCounter is safe for concurrent use.
type RateCounter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	clock    func() time.Time
}

// NewRateCounter creates a counter allowing limit attempts per window for
// each key. A nil clock defaults to time.Now.
func NewRateCounter(limit int, window time.Duration, clock func() time.Time) *RateCounter {
	if clock == nil {
		clock = time.Now
	}
	return &RateCounter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		clock:    clock,
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. Attempts older than the window are discarded on the way.
func (c *RateCounter) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	cutoff := now.Add(-c.window)

	kept := c.attempts[key][:0]
	for _, at := range c.attempts[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= c.limit {
		c.attempts[key] = kept
		return false
	}

	c.attempts[key] = append(kept, now)
	return true
}
