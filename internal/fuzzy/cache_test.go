package fuzzy

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheQuantization(t *testing.T) {
	// readings round to 0.1, adjustment to 0.01
	a := quantizeKey(25.04, 60.0, 30.0, 50.0, 10.0, 1.001)
	b := quantizeKey(25.01, 60.04, 29.96, 50.0, 10.0, 1.004)
	assert.Equal(t, a, b)

	c := quantizeKey(25.2, 60.0, 30.0, 50.0, 10.0, 1.0)
	assert.NotEqual(t, a, c)
}

func TestCacheHitReturnsStoredOutput(t *testing.T) {
	c := newResultCache(10)
	k := quantizeKey(1, 2, 3, 4, 5, 1)
	want := Output{Duration: 12.5, Frequency: 2.1, Activations: map[string]float64{"R1": 0.4}, Confidence: 0.5}
	c.put(k, want)

	got, ok := c.get(k)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// callers mutating the returned map must not poison the cache
	got.Activations["R1"] = 99
	again, _ := c.get(k)
	assert.Equal(t, 0.4, again.Activations["R1"])
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	c := newResultCache(3)
	keys := make([]cacheKey, 5)
	for i := range keys {
		keys[i] = quantizeKey(float64(i), 0, 0, 0, 0, 1)
		c.put(keys[i], Output{Duration: float64(i)})
	}
	assert.Equal(t, 3, c.len())

	_, ok := c.get(keys[0])
	assert.False(t, ok, "oldest entry must be evicted")
	_, ok = c.get(keys[1])
	assert.False(t, ok)
	for _, k := range keys[2:] {
		_, ok := c.get(k)
		assert.True(t, ok)
	}
}

func TestCacheBoundedThroughEngine(t *testing.T) {
	e, err := New(WithCacheCapacity(50))
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		e.CalculateIrrigation(float64(i%50), float64(i%100), float64(i%100), 50, 10, 1.0)
	}
	assert.LessOrEqual(t, e.cache.len(), 50)
}

func TestCacheConcurrentAccess(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				v := float64((seed*50 + i) % 40)
				out := e.CalculateIrrigation(20+v/4, v, v, 50, 10, 1.0)
				if out.Duration < 0 || out.Duration > 60 {
					panic(fmt.Sprintf("duration out of range: %v", out.Duration))
				}
			}
		}(g)
	}
	wg.Wait()
}
