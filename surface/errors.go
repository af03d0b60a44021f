// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
)

// Errors returned by Manager and SwapChain.
var (
	// ErrWidgetAttached is returned by swap-chain operations on a manager
	// that renders to a native widget and therefore has no swap chain.
	ErrWidgetAttached = errors.New("surface: no attached swap chain (widget target)")

	// ErrNoBoundSurface is returned when an operation needs the context's
	// bound surface and none is bound.
	ErrNoBoundSurface = errors.New("surface: no surface bound to context")

	// ErrClosed is returned by operations on a destroyed Manager.
	ErrClosed = errors.New("surface: manager destroyed")

	// ErrInvalidSize is returned for an empty swap chain size.
	ErrInvalidSize = errors.New("surface: invalid size")

	// ErrNilConnection is returned by NewManager without a connection.
	ErrNilConnection = errors.New("surface: nil connection")

	// ErrSwapChainDestroyed is returned by operations on a destroyed SwapChain.
	ErrSwapChainDestroyed = errors.New("surface: swap chain destroyed")
)

// TextureImportError is returned when a surface cannot be imported as a
// texture. The surface is handed back to the caller.
type TextureImportError struct {
	Surface Surface
	Err     error
}

func (e *TextureImportError) Error() string {
	return fmt.Sprintf("surface: create surface texture: %v", e.Err)
}

func (e *TextureImportError) Unwrap() error { return e.Err }

// TextureExportError is returned when a surface texture cannot be
// released. The texture is handed back to the caller.
type TextureExportError struct {
	Texture SurfaceTexture
	Err     error
}

func (e *TextureExportError) Error() string {
	return fmt.Sprintf("surface: destroy surface texture: %v", e.Err)
}

func (e *TextureExportError) Unwrap() error { return e.Err }
