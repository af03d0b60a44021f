// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
	"github.com/gogpu/wgpu/hal"
)

// generic surfaces can be rendered to, sampled and copied either way.
const genericUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// Surface is a render target created by a Device.
//
// Generic surfaces own a texture and a render-target view of it. Widget
// surfaces own a configured hal surface.
type Surface struct {
	id     surface.SurfaceID
	ctx    surface.ContextID
	size   texbridge.Size
	format gputypes.TextureFormat
	access surface.Access

	window     *Window
	halSurface hal.Surface

	texture hal.Texture
	view    hal.TextureView

	imported bool
}

// SurfaceID implements surface.Surface.
func (s *Surface) SurfaceID() surface.SurfaceID { return s.id }

// IsWidget reports whether the surface presents to a window.
func (s *Surface) IsWidget() bool { return s.window != nil }

// Access returns the access mode the surface was created with.
func (s *Surface) Access() surface.Access { return s.access }

// Texture returns the texture of a generic surface, or nil.
func (s *Surface) Texture() hal.Texture { return s.texture }

// View returns the render-target view of a generic surface, or nil.
func (s *Surface) View() hal.TextureView { return s.view }

// HALSurface returns the hal surface of a widget surface, or nil.
func (s *Surface) HALSurface() hal.Surface { return s.halSurface }

func (s *Surface) info() surface.Info {
	return surface.Info{
		ID:          s.id,
		ContextID:   s.ctx,
		Size:        s.size,
		Format:      s.format,
		Framebuffer: nativeHandle(s.view),
	}
}

// SurfaceTexture is a sampling view onto a generic surface.
type SurfaceTexture struct {
	surface *Surface
	view    hal.TextureView
}

// SurfaceID implements surface.SurfaceTexture.
func (st *SurfaceTexture) SurfaceID() surface.SurfaceID { return st.surface.id }

// View returns the sampling view.
func (st *SurfaceTexture) View() hal.TextureView { return st.view }

// nativeHandle returns the raw handle of r when it exposes one.
func nativeHandle(r any) uintptr {
	if h, ok := r.(hal.NativeHandle); ok {
		return h.NativeHandle()
	}
	return 0
}
