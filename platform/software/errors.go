// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "errors"

// Errors returned by the software platform.
var (
	// ErrNotWindow is returned when a widget target does not carry a *Window.
	ErrNotWindow = errors.New("software: widget is not a *software.Window")

	// ErrWidgetSurfaceNotTexturable is returned when importing a widget
	// surface as a texture.
	ErrWidgetSurfaceNotTexturable = errors.New("software: widget surfaces cannot be sampled")

	// ErrNotWidgetSurface is returned when presenting a generic surface.
	ErrNotWidgetSurface = errors.New("software: only widget surfaces can be presented")

	// ErrSurfaceBound is returned for operations that need an unbound surface.
	ErrSurfaceBound = errors.New("software: surface is bound to a context")

	// ErrSurfaceImported is returned when binding or destroying a surface
	// that is in use as a texture.
	ErrSurfaceImported = errors.New("software: surface is in use as a texture")

	// ErrSurfaceDestroyed is returned for surfaces that were already destroyed.
	ErrSurfaceDestroyed = errors.New("software: surface has been destroyed")

	// ErrContextBusy is returned when binding to a context that already
	// has a surface.
	ErrContextBusy = errors.New("software: context already has a bound surface")

	// ErrWrongContext is returned when a surface is used with a context
	// other than the one it was created for.
	ErrWrongContext = errors.New("software: surface belongs to another context")

	// ErrUnknownContext is returned for contexts this device did not
	// create or has destroyed.
	ErrUnknownContext = errors.New("software: unknown context")

	// ErrDeviceDestroyed is returned by every operation after Destroy.
	ErrDeviceDestroyed = errors.New("software: device has been destroyed")

	// ErrTextureDestroyed is returned when updating a destroyed texture.
	ErrTextureDestroyed = errors.New("software: texture has been destroyed")

	// ErrInvalidDataSize is returned when pixel data does not match the texture.
	ErrInvalidDataSize = errors.New("software: invalid data size")
)
