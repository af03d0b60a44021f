// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package extimage

import "github.com/gogpu/texbridge"

// NativeTexture is a backend texture handle (a GL texture name, a
// wgpu texture pointer, ...). Zero means "no texture".
type NativeTexture uint64

// TexelRect is a texture-coordinate rectangle in texels.
//
// (U0, V0) maps to the top-left corner of the drawn quad and (U1, V1) to
// the bottom-right one, so a rectangle with V0 > V1 samples the texture
// upside down.
type TexelRect struct {
	U0, V0 float32
	U1, V1 float32
}

// Width returns the signed horizontal extent.
func (r TexelRect) Width() float32 { return r.U1 - r.U0 }

// Height returns the signed vertical extent. It is negative for a
// Y-flipped rectangle.
func (r TexelRect) Height() float32 { return r.V1 - r.V0 }

// FlippedY reports whether the rectangle samples rows bottom-up.
func (r TexelRect) FlippedY() bool { return r.V0 > r.V1 }

// Normalized converts the rectangle from texels to the 0..1 range used by
// samplers. An empty size returns the rectangle unchanged.
func (r TexelRect) Normalized(size texbridge.Size) TexelRect {
	if size.Empty() {
		return r
	}
	w, h := float32(size.Width), float32(size.Height)
	return TexelRect{
		U0: r.U0 / w,
		V0: r.V0 / h,
		U1: r.U1 / w,
		V1: r.V1 / h,
	}
}

// ImageRendering is the renderer's filtering hint for an image.
type ImageRendering uint8

const (
	// RenderingAuto lets the renderer pick a filter.
	RenderingAuto ImageRendering = iota

	// RenderingCrispEdges preserves contrast at edges.
	RenderingCrispEdges

	// RenderingPixelated uses nearest-neighbor scaling.
	RenderingPixelated
)

// Descriptor tells the renderer how to sample a locked external image.
type Descriptor struct {
	// UV is the region of Source to sample, in texels.
	UV TexelRect

	// Source is the native texture to sample.
	Source NativeTexture
}
