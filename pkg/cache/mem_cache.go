// A simple memory-only thread-safe cache with TTL. Taken from the provisioning package:
// https://github.com/RHEnVision/provisioning-backend/commit/decfb331a2e5642e904bed0dcd3ac41b319eb732
package cache

import (
	"sync"
	"time"

	"github.com/uhwot/sacklite/pkg/metrics"
)

// Cache stores arbitrary data with expiration time.
type Cache[K comparable, V any] struct {
	name    string
	items   map[K]item[V]
	mu      sync.RWMutex
	done    chan struct{}
	clean   chan chan struct{}
	once    sync.Once
	running bool
}

type item[V any] struct {
	data    V
	expires time.Time
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expires.IsZero() && now.After(i.expires)
}

// NewMemoryCache creates a cache whose hits and misses are counted under name.
// Expired entries are swept every cleaningInterval; zero disables the sweeper
// and leaves expired entries invisible but allocated.
func NewMemoryCache[K comparable, V any](name string, cleaningInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		name:  name,
		items: make(map[K]item[V]),
		clean: make(chan chan struct{}),
		done:  make(chan struct{}),
	}
	if cleaningInterval > 0 {
		c.running = true
		go c.sweep(cleaningInterval)
	}
	return c
}

func (c *Cache[K, V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case ack := <-c.clean:
			c.cleanup()
			close(ack)
		case <-c.done:
			return
		}
	}
}

func (c *Cache[K, V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}

// Get returns the live value for key
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || it.expired(time.Now()) {
		metrics.MemoryCacheHitCount.WithLabelValues(c.name + "_miss").Inc()
		var nothing V
		return nothing, false
	}
	metrics.MemoryCacheHitCount.WithLabelValues(c.name + "_hit").Inc()
	return it.data, true
}

// Set stores value under key until ttl passes. A ttl of 0 or less keeps it forever.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	it := item[V]{data: value}
	if ttl > 0 {
		it.expires = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = it
}

// Delete drops key
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Count returns the number of stored items, expired or not
func (c *Cache[K, V]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// ExpireNow sweeps expired entries and blocks until done. Without a background
// sweeper it cleans inline.
func (c *Cache[K, V]) ExpireNow() {
	if !c.running {
		c.cleanup()
		return
	}
	ack := make(chan struct{})
	select {
	case c.clean <- ack:
		<-ack
	case <-c.done:
	}
}

// Stop frees up resources and stops the sweeper
func (c *Cache[K, V]) Stop() {
	c.once.Do(func() {
		c.mu.Lock()
		c.items = make(map[K]item[V])
		c.mu.Unlock()
		close(c.done)
	})
}
