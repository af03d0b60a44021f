// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shadercache memoizes WGSL to SPIR-V compilation.
//
// Compiling a shader is far slower than creating a module from SPIR-V, and
// every context on every device asks for the same few sources. The cache
// keys results by an FNV-1a hash of the source and keeps the source to
// rule out collisions. Failed compilations are not cached.
//
// Cache is safe for concurrent use.
package shadercache

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"
)

// Compiler turns WGSL source into little-endian SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

type entry struct {
	source string
	words  []uint32
	atime  int64
}

// Cache holds compiled modules up to a soft limit. When the limit is
// exceeded a quarter of the entries, least recently used first, are
// evicted.
type Cache struct {
	mu      sync.Mutex
	compile Compiler
	entries map[uint64]*entry
	limit   int
	tick    int64

	hits, misses, evictions uint64
}

// New creates a cache over compile. A limit of 0 means unlimited.
func New(compile Compiler, limit int) *Cache {
	return &Cache{
		compile: compile,
		entries: make(map[uint64]*entry),
		limit:   limit,
	}
}

// Words returns the SPIR-V words for source, compiling on first use.
// The returned slice is shared and must not be modified.
func (c *Cache) Words(source string) ([]uint32, error) {
	key := Hash(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok && e.source == source {
		e.atime = c.tick
		c.hits++
		return e.words, nil
	}
	c.misses++

	// Compile under the lock so concurrent callers do not duplicate work.
	spirv, err := c.compile(source)
	if err != nil {
		return nil, err
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("shadercache: SPIR-V length %d is not a multiple of 4", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}

	c.entries[key] = &entry{source: source, words: words, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
	return words, nil
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached module.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*entry)
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Hash returns the FNV-1a hash of source.
func Hash(source string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source)) // fnv.Write never returns an error
	return h.Sum64()
}

// evictOldest shrinks the cache to three quarters of the limit.
// Caller must hold c.mu.
func (c *Cache) evictOldest() {
	target := max(c.limit*3/4, 1)
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   uint64
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, atime: e.atime})
	}

	// Selection sort: batches are small.
	for i := 0; i < toEvict; i++ {
		oldest := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[oldest].atime {
				oldest = j
			}
		}
		all[i], all[oldest] = all[oldest], all[i]
		delete(c.entries, all[i].key)
		c.evictions++
	}
}
