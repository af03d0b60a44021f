// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package extimage

import "fmt"

// UnknownImageError is the panic value raised when the renderer locks or
// unlocks an id that the registry does not know (never allocated, or
// already removed). It signals a caller bug.
type UnknownImageError struct {
	ID ID
	Op string
}

func (e *UnknownImageError) Error() string {
	return fmt.Sprintf("extimage: %s of unknown external image %d", e.Op, uint64(e.ID))
}

// MissingProviderError is the panic value raised when an image's kind has
// no provider installed.
type MissingProviderError struct {
	ID   ID
	Kind Kind
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("extimage: no %s provider for external image %d", e.Kind, uint64(e.ID))
}
