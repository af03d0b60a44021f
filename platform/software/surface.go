// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
)

// Surface is an RGBA color buffer.
type Surface struct {
	id     surface.SurfaceID
	ctx    surface.ContextID
	access surface.Access
	pixels *image.RGBA
	window *Window

	imported  bool
	destroyed bool
}

// SurfaceID implements surface.Surface.
func (s *Surface) SurfaceID() surface.SurfaceID { return s.id }

// IsWidget reports whether s presents to a window.
func (s *Surface) IsWidget() bool { return s.window != nil }

// Access returns the access mode s was created with. Software surfaces
// are always host memory, whatever the mode.
func (s *Surface) Access() surface.Access { return s.access }

func (s *Surface) size() texbridge.Size { return rectSize(s.pixels.Bounds()) }

func (s *Surface) info() surface.Info {
	return surface.Info{
		ID:          s.id,
		ContextID:   s.ctx,
		Size:        s.size(),
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Framebuffer: uintptr(s.id),
	}
}

// SurfacePixels returns the pixels of a software surface, or nil for
// surfaces of another platform. The image aliases the surface: writes
// show up on the next present or texture import.
func SurfacePixels(s surface.Surface) *image.RGBA {
	ss, ok := s.(*Surface)
	if !ok || ss == nil || ss.destroyed {
		return nil
	}
	return ss.pixels
}

// SurfaceTexture is a generic surface imported for sampling.
type SurfaceTexture struct {
	surface *Surface
}

// SurfaceID implements surface.SurfaceTexture.
func (st *SurfaceTexture) SurfaceID() surface.SurfaceID { return st.surface.id }

// Pixels returns the sampled pixels.
func (st *SurfaceTexture) Pixels() *image.RGBA { return st.surface.pixels }
