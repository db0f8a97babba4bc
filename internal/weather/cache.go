// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/skycastlabs/skycast/internal/result"
)

// Default TTLs per cache backend, overridable through configuration.
const (
	DefaultMemoryTTL = 30 * time.Minute
	DefaultRedisTTL  = 60 * time.Minute
)

// Cache key prefixes. The prefixes keep the in-process and distributed
// namespaces apart so flipping backends never replays a stale entry.
const (
	memoryKeyPrefix = "weather_"
	redisKeyPrefix  = "weather_redis_"
)

// ResultCache stores successful weather envelopes keyed by city. Each
// backend derives its own key from the city name.
type ResultCache interface {
	// Get returns the cached envelope for a city, reporting whether one
	// was present.
	Get(ctx context.Context, city string) (*result.Result[Response], bool, error)

	// Set stores an envelope for a city with the backend's TTL.
	Set(ctx context.Context, city string, res *result.Result[Response]) error
}

type memoryEntry struct {
	res       *result.Result[Response]
	expiresAt time.Time
}

// MemoryCache is an in-process ResultCache. Hits return the same envelope
// pointer that was stored; expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache with the given TTL. A non-positive
// TTL falls back to DefaultMemoryTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached envelope for a city.
func (c *MemoryCache) Get(_ context.Context, city string) (*result.Result[Response], bool, error) {
	key := memoryKeyPrefix + strings.ToLower(city)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.After(c.now()) {
		c.evictExpired(key)
		return nil, false, nil
	}
	return entry.res, true, nil
}

// evictExpired removes key only while its entry is still expired, so a Set
// that raced the read is not dropped.
func (c *MemoryCache) evictExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && !entry.expiresAt.After(c.now()) {
		delete(c.entries, key)
	}
}

// Set stores an envelope for a city. Existing entries are overwritten
// wholesale.
func (c *MemoryCache) Set(_ context.Context, city string, res *result.Result[Response]) error {
	key := memoryKeyPrefix + strings.ToLower(city)

	c.mu.Lock()
	c.entries[key] = memoryEntry{res: res, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Compile-time interface check.
var _ ResultCache = (*MemoryCache)(nil)
