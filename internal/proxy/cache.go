package proxy

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/scottsberry/commerce-backend/pkg/metrics"
)

const defaultTTL = 300 * time.Second

type cacheEntry struct {
	payload    []byte
	insertedAt time.Time
}

// Cache is a short-TTL response cache keyed by request fingerprint. Expired
// entries are swept out lazily on every store; there is no size bound, growth
// is held down by TTL turnover.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	metrics *metrics.ProxyCacheMetrics

	now func() time.Time
}

func NewCache(ttl time.Duration, m *metrics.ProxyCacheMetrics) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		metrics: m,
		now:     time.Now,
	}
}

// Fingerprint returns a deterministic content hash of the serialized request
// payload. The hash is stable across processes and restarts, which is what
// makes cached responses addressable at all.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached payload if the entry is still within TTL.
func (c *Cache) Lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.insertedAt) > c.ttl {
		c.metrics.IncMiss()
		return nil, false
	}
	c.metrics.IncHit()
	return entry.payload, true
}

// Store inserts or overwrites the entry, then sweeps every expired entry.
func (c *Cache) Store(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = cacheEntry{payload: payload, insertedAt: now}

	evicted := 0
	for k, entry := range c.entries {
		if now.Sub(entry.insertedAt) > c.ttl {
			delete(c.entries, k)
			evicted++
		}
	}
	c.metrics.AddEvictions(evicted)
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
