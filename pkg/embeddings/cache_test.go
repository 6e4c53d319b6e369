package embeddings

import (
	"strings"
	"testing"
	"time"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGet(t *testing.T) {
	cache, err := NewCache(DefaultCacheTTL, 0)
	require.NoError(t, err)

	vector := []float32{0.1, 0.2, 0.3}
	cache.Put("key", vector)

	got, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, vector, got)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(time.Hour, 0)
	require.NoError(t, err)

	t0 := time.Now()
	cache.now = func() time.Time { return t0 }
	cache.Put("key", []float32{1})

	// just inside the TTL window
	cache.now = func() time.Time { return t0.Add(time.Hour - time.Millisecond) }
	_, ok := cache.Get("key")
	assert.True(t, ok)

	// at TTL + epsilon the entry is treated as absent
	cache.now = func() time.Time { return t0.Add(time.Hour + time.Millisecond) }
	_, ok = cache.Get("key")
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	cache, err := NewCache(DefaultCacheTTL, 0)
	require.NoError(t, err)

	cache.Put("a", []float32{1})
	cache.Put("b", []float32{2})
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestCacheSizeBound(t *testing.T) {
	cache, err := NewCache(DefaultCacheTTL, 2)
	require.NoError(t, err)

	cache.Put("a", []float32{1})
	cache.Put("b", []float32{2})
	cache.Put("c", []float32{3})

	assert.Equal(t, 2, cache.Len())
	// oldest entry was evicted
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	itemUUID := uuid.New()
	item := &models.WardrobeItem{
		UUID:        itemUUID,
		Description: "blue slim-fit denim jacket",
	}
	assert.Equal(t, itemUUID.String()+"-blue slim-fit denim jacket", CacheKey(item))

	// only the first 50 characters of the description participate in the
	// fingerprint; a longer suffix does not change the key
	longDesc := strings.Repeat("x", 50)
	item.Description = longDesc + " trailing detail"
	assert.Equal(t, itemUUID.String()+"-"+longDesc, CacheKey(item))

	item.Description = longDesc + " different trailing detail"
	assert.Equal(t, itemUUID.String()+"-"+longDesc, CacheKey(item))
}
