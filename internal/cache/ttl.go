package cache

import (
	"strings"
	"sync"
	"time"
)

// TTL is a small in-memory cache for rendered JSON bodies. Keys are strings,
// values are []byte; every entry carries its own expiry.
type TTL struct {
	mu    sync.RWMutex
	items map[string]item
}

type item struct {
	data []byte
	exp  time.Time
}

// New returns an empty cache and starts its sweeper. cleanupEvery bounds how
// long an expired entry can linger; reads never return expired data either way.
func New(cleanupEvery time.Duration) *TTL {
	c := &TTL{items: make(map[string]item)}
	go c.cleanup(cleanupEvery)
	return c
}

func (c *TTL) cleanup(every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for range tick.C {
		c.mu.Lock()
		now := time.Now()
		for k, v := range c.items {
			if v.exp.Before(now) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}

// Get returns the value for key if present and not expired.
func (c *TTL) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.exp.Before(time.Now()) {
		return nil, false
	}
	return it.data, true
}

// Set stores value under key for ttl.
func (c *TTL) Set(key string, value []byte, ttl time.Duration) {
	exp := time.Now().Add(ttl)
	c.mu.Lock()
	c.items[key] = item{data: value, exp: exp}
	c.mu.Unlock()
}

// Delete removes the key.
func (c *TTL) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix removes all keys that start with prefix (e.g. "agenda:<uid>:"
// to drop one owner's cached agenda ranges).
func (c *TTL) DeletePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
