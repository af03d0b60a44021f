// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Errors returned by the hal platform.
var (
	// ErrNoAdapter is returned when the instance exposes no adapters.
	ErrNoAdapter = errors.New("halgpu: no adapter available")

	// ErrNotWindow is returned when a widget target does not carry a *Window.
	ErrNotWindow = errors.New("halgpu: widget is not a *halgpu.Window")

	// ErrWidgetSurfaceNotTexturable is returned when importing a widget
	// surface as a texture. Only generic surfaces can be sampled.
	ErrWidgetSurfaceNotTexturable = errors.New("halgpu: widget surfaces cannot be sampled")

	// ErrNotWidgetSurface is returned when presenting a generic surface.
	ErrNotWidgetSurface = errors.New("halgpu: only widget surfaces can be presented")

	// ErrSurfaceBound is returned for operations that need an unbound surface.
	ErrSurfaceBound = errors.New("halgpu: surface is bound to a context")

	// ErrSurfaceImported is returned when binding or destroying a surface
	// that is in use as a texture.
	ErrSurfaceImported = errors.New("halgpu: surface is in use as a texture")

	// ErrContextBusy is returned when binding to a context that already
	// has a surface.
	ErrContextBusy = errors.New("halgpu: context already has a bound surface")

	// ErrWrongContext is returned when a surface is used with a context
	// other than the one it was created for.
	ErrWrongContext = errors.New("halgpu: surface belongs to another context")

	// ErrUnknownContext is returned for contexts this device did not create
	// or has destroyed.
	ErrUnknownContext = errors.New("halgpu: unknown context")

	// ErrUnsupportedAttributes is returned for context attributes WebGPU
	// cannot provide.
	ErrUnsupportedAttributes = errors.New("halgpu: unsupported context attributes")

	// ErrTextureDestroyed is returned when updating a destroyed texture.
	ErrTextureDestroyed = errors.New("halgpu: texture has been destroyed")

	// ErrInvalidDataSize is returned when pixel data does not match the texture.
	ErrInvalidDataSize = errors.New("halgpu: invalid data size")
)

// BackendNotRegisteredError indicates that no hal backend is registered
// for the requested variant.
type BackendNotRegisteredError struct {
	Variant gputypes.Backend
}

func (e *BackendNotRegisteredError) Error() string {
	return fmt.Sprintf("halgpu: hal backend %s not registered", e.Variant)
}
