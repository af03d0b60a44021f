// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package extimage

import (
	"sync"

	"github.com/gogpu/texbridge"
)

// Provider is implemented by subsystems that own external image textures.
//
// Lock returns the native texture backing id and its size in pixels. The
// provider must not modify that texture until the matching Unlock.
// Providers are expected to be fast: Lock runs on the renderer's goroutine.
type Provider interface {
	Lock(id uint64) (NativeTexture, texbridge.Size)
	Unlock(id uint64)
}

// Dispatcher routes the renderer's lock/unlock calls to the provider
// registered for each image's kind.
//
// There is at most one provider per kind. The registry is shared with the
// producers that allocate ids; the provider slots belong to the dispatcher.
type Dispatcher struct {
	mu        sync.RWMutex
	providers [kindCount]Provider
	registry  *Registry

	// locked holds, per id, the providers that served outstanding locks.
	locked map[ID][]Provider
}

// NewDispatcher creates a dispatcher with a fresh registry and returns
// the registry too, so it can be handed to the producers.
func NewDispatcher() (*Dispatcher, *Registry) {
	r := NewRegistry()
	return NewDispatcherWithRegistry(r), r
}

// NewDispatcherWithRegistry creates a dispatcher over an existing registry.
func NewDispatcherWithRegistry(r *Registry) *Dispatcher {
	if r == nil {
		r = NewRegistry()
	}
	return &Dispatcher{registry: r, locked: make(map[ID][]Provider)}
}

// Registry returns the shared registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// SetProvider installs p for kind, replacing any previous provider.
// The replaced provider is not notified. Outstanding locks it served are
// still unlocked through it. Passing nil clears the slot.
func (d *Dispatcher) SetProvider(kind Kind, p Provider) {
	if !kind.Valid() {
		panic("extimage: SetProvider with invalid kind " + kind.String())
	}
	d.mu.Lock()
	d.providers[kind] = p
	d.mu.Unlock()
}

// Provider returns the provider installed for kind, or nil.
func (d *Dispatcher) Provider(kind Kind) Provider {
	if !kind.Valid() {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.providers[kind]
}

// Lock asks the owner of id for its texture. The renderer may sample
// the returned texture until it calls Unlock.
//
// Lock panics with *UnknownImageError if id is not registered, and with
// *MissingProviderError if no provider is installed for its kind.
//
// channel and rendering are accepted for protocol compatibility and are
// not consulted: images are single-channel and providers ignore the hint.
func (d *Dispatcher) Lock(id ID, channel uint8, rendering ImageRendering) Descriptor {
	_, _ = channel, rendering

	kind, p := d.route(id, "lock")
	handle, size := p.Lock(id.Uint64())
	d.mu.Lock()
	d.locked[id] = append(d.locked[id], p)
	d.mu.Unlock()

	w, h := float32(size.Width), float32(size.Height)
	var uv TexelRect
	switch kind {
	case KindCanvas:
		// Canvas contents are stored bottom-up.
		uv = TexelRect{U0: 0, V0: h, U1: w, V1: 0}
	case KindMedia:
		uv = TexelRect{U0: 0, V0: 0, U1: w, V1: h}
	}

	texbridge.Logger().Debug("extimage: lock",
		"id", uint64(id), "kind", kind, "texture", uint64(handle), "size", size)

	return Descriptor{UV: uv, Source: handle}
}

// Unlock tells the owner of id that the renderer is done sampling it.
// The call goes to the provider that served the matching Lock, even if
// SetProvider replaced it since. Unlock panics with *UnknownImageError if
// id is not registered. An Unlock with no outstanding Lock goes to the
// current provider and panics like Lock if there is none.
func (d *Dispatcher) Unlock(id ID, channel uint8) {
	_ = channel

	if _, ok := d.registry.Lookup(id); !ok {
		panic(&UnknownImageError{ID: id, Op: "unlock"})
	}
	p := d.popLocked(id)
	if p == nil {
		_, p = d.route(id, "unlock")
	}
	p.Unlock(id.Uint64())
}

// popLocked removes and returns the provider of the oldest outstanding
// lock on id, or nil.
func (d *Dispatcher) popLocked(id ID) Provider {
	d.mu.Lock()
	defer d.mu.Unlock()

	held := d.locked[id]
	if len(held) == 0 {
		return nil
	}
	p := held[0]
	if len(held) == 1 {
		delete(d.locked, id)
	} else {
		d.locked[id] = held[1:]
	}
	return p
}

// route resolves id to its kind and provider. The registry and slot locks
// are released before the provider is called.
func (d *Dispatcher) route(id ID, op string) (Kind, Provider) {
	kind, ok := d.registry.Lookup(id)
	if !ok {
		panic(&UnknownImageError{ID: id, Op: op})
	}

	var p Provider
	if kind.Valid() {
		d.mu.RLock()
		p = d.providers[kind]
		d.mu.RUnlock()
	}

	if p == nil {
		panic(&MissingProviderError{ID: id, Kind: kind})
	}
	return kind, p
}
