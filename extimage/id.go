// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package extimage

import "strconv"

// ID identifies an external image. IDs are issued by a [Registry] and are
// never zero, so the zero value can be used as an "unset" sentinel.
type ID uint64

// IsZero reports whether the id is the unset sentinel.
func (id ID) IsZero() bool {
	return id == 0
}

// Uint64 returns the numeric value forwarded to providers.
func (id ID) Uint64() uint64 {
	return uint64(id)
}

func (id ID) String() string {
	return "extimage#" + strconv.FormatUint(uint64(id), 10)
}

// Kind identifies the producer subsystem that owns an image.
type Kind uint8

const (
	// KindCanvas images are produced by a 3D canvas (WebGL-style) context.
	KindCanvas Kind = iota

	// KindMedia images are decoded video frames.
	KindMedia

	// kindCount is the number of provider slots in a Dispatcher.
	kindCount
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) String() string {
	switch k {
	case KindCanvas:
		return "canvas"
	case KindMedia:
		return "media"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}
