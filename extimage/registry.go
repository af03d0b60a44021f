// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package extimage

import (
	"sync"

	"github.com/gogpu/texbridge"
)

// Registry maps external image ids to the kind of provider that owns them.
//
// A single Registry is shared by the dispatcher and by every producer that
// allocates ids, so all ids are unique across producers. The counter and
// the map are guarded by one mutex; every operation is a short in-memory
// critical section.
//
// Example:
//
//	id := registry.Allocate(extimage.KindMedia)
//	defer registry.Remove(id)
type Registry struct {
	mu     sync.Mutex
	images map[ID]Kind
	nextID uint64
}

// NewRegistry creates an empty registry. The first allocated id is 1.
func NewRegistry() *Registry {
	return &Registry{
		images: make(map[ID]Kind),
	}
}

// Allocate issues a new id owned by kind.
//
// Ids are strictly increasing over the registry's lifetime and are never
// zero. Counter wraparound is not handled. Allocate panics if kind is not
// a known kind.
func (r *Registry) Allocate(kind Kind) ID {
	if !kind.Valid() {
		panic("extimage: Allocate with invalid kind " + kind.String())
	}
	r.mu.Lock()
	r.nextID++
	id := ID(r.nextID)
	r.images[id] = kind
	r.mu.Unlock()

	texbridge.Logger().Debug("extimage: allocated image", "id", uint64(id), "kind", kind)
	return id
}

// Remove forgets id. Removing an unknown id is a no-op.
// A removed id is never returned by Lookup again.
func (r *Registry) Remove(id ID) {
	r.mu.Lock()
	delete(r.images, id)
	r.mu.Unlock()
}

// Lookup returns the kind that owns id.
func (r *Registry) Lookup(id ID) (Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind, ok := r.images[id]
	return kind, ok
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.images)
}
