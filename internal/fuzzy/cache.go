package fuzzy

import (
	"math"
	"sync"
)

const defaultCacheCapacity = 100

// cacheKey quantizes the readings to 0.1 and the adjustment to 0.01 so that
// near-identical repeated queries hit the same entry.
type cacheKey struct {
	t, s, r, a, w int64
	adj           int64
}

func quantizeKey(temperature, soil, rain, air, wind, adjustment float64) cacheKey {
	q := func(x float64, scale float64) int64 { return int64(math.Round(x * scale)) }
	return cacheKey{
		t:   q(temperature, 10),
		s:   q(soil, 10),
		r:   q(rain, 10),
		a:   q(air, 10),
		w:   q(wind, 10),
		adj: q(adjustment, 100),
	}
}

// resultCache memoizes quantized-input → Output mappings with FIFO eviction.
// A plain mutex guards the read-modify-write sequence; inference holds no
// other cross-call state.
type resultCache struct {
	mu      sync.Mutex
	cap     int
	entries map[cacheKey]Output
	order   []cacheKey // insertion order, oldest first
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &resultCache{
		cap:     capacity,
		entries: make(map[cacheKey]Output, capacity),
	}
}

func (c *resultCache) get(k cacheKey) (Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.entries[k]
	if !ok {
		return Output{}, false
	}
	return cloneOutput(out), true
}

func (c *resultCache) put(k cacheKey, out Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; !exists {
		if len(c.order) >= c.cap {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, k)
	}
	c.entries[k] = cloneOutput(out)
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cloneOutput copies the activation map so cached entries stay immutable even
// if a caller mutates the returned map.
func cloneOutput(out Output) Output {
	cp := out
	cp.Activations = make(map[string]float64, len(out.Activations))
	for k, v := range out.Activations {
		cp.Activations[k] = v
	}
	return cp
}
