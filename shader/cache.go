// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"container/list"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// DefaultCacheCapacity is the number of shaders a Cache keeps when created
// with a capacity of zero or less.
const DefaultCacheCapacity = 64

// Cache is a thread-safe LRU cache of compiled shaders keyed by name and
// source. Compiled shaders are immutable, so one entry may back any number
// of materials.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*list.Element
	lru      *list.List // front is most recent

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key    uint64
	name   string
	source string
	shader *Shader
}

// CacheStats reports cache usage.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewCache creates a cache holding at most capacity shaders.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element),
		lru:      list.New(),
	}
}

// cacheKey computes the FNV-1a hash of name and source.
func cacheKey(name, source string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name)) // fnv.Write never returns an error
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(source))
	return h.Sum64()
}

// Compile returns the cached shader for name and source, compiling it on a
// miss. Compile errors are not cached.
//
// The compiler runs with the lock held so concurrent misses on the same
// source compile once.
func (c *Cache) Compile(name, source string) (*Shader, error) {
	key := cacheKey(name, source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*cacheEntry)
		// Hash collisions fall through to a recompile that replaces the entry.
		if e.name == name && e.source == source {
			c.lru.MoveToFront(el)
			c.hits.Add(1)
			return e.shader, nil
		}
		c.lru.Remove(el)
		delete(c.entries, key)
	}
	c.misses.Add(1)

	s, err := Compile(name, source)
	if err != nil {
		return nil, err
	}

	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.evictions.Add(1)
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, name: name, source: source, shader: s})
	return s, nil
}

// Len returns the number of cached shaders.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear drops every cached shader.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*list.Element)
	c.lru.Init()
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
