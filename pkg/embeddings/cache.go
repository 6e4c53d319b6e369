package embeddings

import (
	"fmt"
	"time"

	"github.com/getfitted/fitted/pkg/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCacheTTL is how long a cached item embedding stays valid.
	DefaultCacheTTL = time.Hour
	// DefaultCacheMaxEntries bounds the cache. Per-user wardrobes are small;
	// the bound only matters for long-lived multi-tenant processes.
	DefaultCacheMaxEntries = 4096
)

type cacheEntry struct {
	embedding []float32
	timestamp time.Time
}

// Cache memoizes item embedding vectors with a time-based expiry over a
// size-bounded LRU. Concurrent fillers may race on the same key; the loser
// simply overwrites an identical vector, so no single-flight coordination is
// used.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration, maxEntries int) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	entries, err := lru.New[string, cacheEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Get returns the cached embedding for key if present and unexpired.
func (c *Cache) Get(key string) ([]float32, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.timestamp) >= c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.embedding, true
}

func (c *Cache) Put(key string, embedding []float32) {
	c.entries.Add(key, cacheEntry{
		embedding: embedding,
		timestamp: c.now(),
	})
}

// Clear drops all entries. Used for deterministic test setup.
func (c *Cache) Clear() {
	c.entries.Purge()
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

const cacheKeyDescriptionPrefixLen = 50

// CacheKey derives the cache fingerprint for an item: its identifier plus the
// first 50 characters of its description. Changes to colors, fit or the
// description's tail do not invalidate the entry; the TTL bounds how stale
// such a vector can get.
func CacheKey(item *models.WardrobeItem) string {
	desc := []rune(item.Description)
	if len(desc) > cacheKeyDescriptionPrefixLen {
		desc = desc[:cacheKeyDescriptionPrefixLen]
	}
	return fmt.Sprintf("%s-%s", item.UUID, string(desc))
}
