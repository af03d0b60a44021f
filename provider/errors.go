// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import "errors"

// Common errors returned by providers.
var (
	// ErrClosed is returned when operations are attempted on a closed provider.
	ErrClosed = errors.New("provider: closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("provider: invalid dimensions")

	// ErrNilCreator is returned when a nil TextureCreator is passed.
	ErrNilCreator = errors.New("provider: nil TextureCreator")

	// ErrImageExists is returned when an id is added twice.
	ErrImageExists = errors.New("provider: image already exists")

	// ErrUnknownImage is returned for ids the provider does not serve.
	ErrUnknownImage = errors.New("provider: unknown image")
)
