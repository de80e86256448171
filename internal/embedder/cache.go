package embedder

import (
	"hash/fnv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCacheTTL bounds how long a cached embedding stays valid.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheMaxSize bounds the number of cached embeddings.
	DefaultCacheMaxSize = 100
)

// cacheEntry pairs a vector with its insertion time for TTL checks.
type cacheEntry struct {
	vector     []float32
	insertedAt time.Time
}

// Cache memoizes single-text embeddings. Entries expire by TTL on read and
// by capacity eviction on write; when full, the oldest-inserted entry goes
// first (reads never refresh an entry's place in line). Keys are FNV-64a
// hashes of the input text:
// fast, non-cryptographic, a memoization key and not a security boundary.
//
// The cache is shared across all calls in the process and guarded by a
// mutex; the clock is injectable for deterministic tests.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[uint64, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given capacity and TTL. Non-positive
// arguments fall back to the defaults.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	return NewCacheWithClock(maxEntries, ttl, time.Now)
}

// NewCacheWithClock is NewCache with an explicit clock, for tests.
func NewCacheWithClock(maxEntries int, ttl time.Duration, now func() time.Time) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[uint64, cacheEntry](maxEntries)
	if err != nil {
		// Only reachable with a non-positive size, which is normalized above.
		entries, _ = lru.New[uint64, cacheEntry](DefaultCacheMaxSize)
	}
	return &Cache{entries: entries, ttl: ttl, now: now}
}

// Key hashes text into the cache key.
func Key(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}

// Get returns a copy of the cached vector for text, evicting the entry first
// if its TTL has elapsed.
func (c *Cache) Get(text string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	key := Key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Peek, not Get: reads must not refresh recency, so capacity eviction
	// stays in insertion order (oldest-first).
	entry, ok := c.entries.Peek(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		c.entries.Remove(key)
		return nil, false
	}

	out := make([]float32, len(entry.vector))
	copy(out, entry.vector)
	return out, true
}

// Set stores a copy of vector under text's key. Capacity eviction is handled
// by the underlying LRU.
func (c *Cache) Set(text string, vector []float32) {
	if c == nil || len(vector) == 0 {
		return
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(Key(text), cacheEntry{vector: stored, insertedAt: c.now()})
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Purge empties the cache.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}
