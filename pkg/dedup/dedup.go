// Package dedup suppresses QoS1 redeliveries. Advice events and aggregated
// readings travel at-least-once, so consumers hash each payload and skip ids
// already processed within a TTL window.
package dedup

import (
	"sync"
	"time"
)

type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	seen map[string]time.Time // id -> expiry
}

// New builds a deduper keeping at most max ids for ttl each.
func New(ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{ttl: ttl, max: max, seen: make(map[string]time.Time, max)}
}

// ShouldProcess reports whether id is new (or expired) and records it.
// Empty ids are always processed.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)

	if len(d.seen) > d.max {
		d.sweep(now)
	}
	return true
}

// sweep drops expired entries first, then evicts arbitrary entries until the
// map fits. Callers hold the lock.
func (d *Deduper) sweep(now time.Time) {
	for k, exp := range d.seen {
		if now.After(exp) {
			delete(d.seen, k)
		}
	}
	for k := range d.seen {
		if len(d.seen) <= d.max {
			break
		}
		delete(d.seen, k)
	}
}

// Len reports how many ids are currently tracked.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
