package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedCache_SetGet(t *testing.T) {
	c := NewUnifiedCache[string](time.Minute, "test", nil)

	c.Set("k", "v")
	value, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	metrics := c.GetMetrics()
	assert.Equal(t, int64(1), metrics.Sets)
	assert.Equal(t, int64(1), metrics.Hits)
}

func TestUnifiedCache_MissIncrementsMetric(t *testing.T) {
	c := NewUnifiedCache[int](time.Minute, "test", nil)

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.GetMetrics().Misses)
}

func TestUnifiedCache_Expiry(t *testing.T) {
	c := NewUnifiedCache[string](20*time.Millisecond, "test", nil)
	c.Set("k", "v")

	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok, "entry should have expired")
}

func TestUnifiedCache_DeleteAndClear(t *testing.T) {
	c := NewUnifiedCache[int](time.Minute, "test", nil)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheKeyBuilder_DeterministicAcrossCalls(t *testing.T) {
	key1 := NewCacheKeyBuilder(nil).AddCity("lisbon").AddDomain("poi").BuildOrDefault()
	key2 := NewCacheKeyBuilder(nil).AddCity("lisbon").AddDomain("poi").BuildOrDefault()
	key3 := NewCacheKeyBuilder(nil).AddCity("porto").AddDomain("poi").BuildOrDefault()

	assert.NotEmpty(t, key1)
	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}
