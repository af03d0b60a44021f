// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Size is a size in pixels.
type Size struct {
	Width  int
	Height int
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Extent converts the size to a single-layer gputypes.Extent3D.
// Non-positive dimensions are clamped to zero.
func (s Size) Extent() gputypes.Extent3D {
	return gputypes.NewExtent2D(clampU32(s.Width), clampU32(s.Height))
}

// SizeOf converts a gputypes.Extent3D back to a Size, ignoring depth.
func SizeOf(e gputypes.Extent3D) Size {
	return Size{Width: int(e.Width), Height: int(e.Height)}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func clampU32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(v) //nolint:gosec // G115: v > 0 checked above
}
