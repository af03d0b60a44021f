// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/hex"
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
	"github.com/gogpu/texbridge/platform/halgpu"
	"github.com/gogpu/wgpu/hal"
)

// hostImage is implemented by textures whose pixels live in host memory.
type hostImage interface {
	Image() *image.RGBA
}

// textureIndex wraps a TextureCreator and remembers every texture it makes
// by native handle, so the renderer can resolve the handles returned by
// the dispatcher.
type textureIndex struct {
	gpucontext.TextureCreator

	mu       sync.Mutex
	byHandle map[extimage.NativeTexture]gpucontext.Texture
}

func newTextureIndex(c gpucontext.TextureCreator) *textureIndex {
	return &textureIndex{
		TextureCreator: c,
		byHandle:       make(map[extimage.NativeTexture]gpucontext.Texture),
	}
}

func (ti *textureIndex) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	tex, err := ti.TextureCreator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, err
	}
	if h, ok := tex.(hal.NativeHandle); ok && h.NativeHandle() != 0 {
		ti.mu.Lock()
		ti.byHandle[extimage.NativeTexture(h.NativeHandle())] = tex
		ti.mu.Unlock()
	}
	return tex, nil
}

// lookup returns the live texture behind handle, or nil.
func (ti *textureIndex) lookup(handle extimage.NativeTexture) gpucontext.Texture {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	// Destroyed textures stop reporting their handle.
	for k, tex := range ti.byHandle {
		if h, ok := tex.(hal.NativeHandle); ok && h.NativeHandle() == 0 {
			delete(ti.byHandle, k)
		}
	}
	return ti.byHandle[handle]
}

// imageRenderer draws external images into the current frame.
type imageRenderer interface {
	drawImage(id extimage.ID, dst image.Rectangle) error
}

// cpuRenderer samples host textures into a software surface.
type cpuRenderer struct {
	dispatcher *extimage.Dispatcher
	textures   *textureIndex
	target     *image.RGBA
}

func (r *cpuRenderer) drawImage(id extimage.ID, dst image.Rectangle) error {
	desc := r.dispatcher.Lock(id, 0, extimage.RenderingAuto)
	defer r.dispatcher.Unlock(id, 0)

	if desc.Source == 0 {
		texbridge.Logger().Debug("demo: image has no content yet", "id", id)
		return nil
	}
	src, ok := r.textures.lookup(desc.Source).(hostImage)
	if !ok {
		return fmt.Errorf("demo: texture %d of image %s has no host pixels", desc.Source, id)
	}
	blit(r.target, dst, src.Image(), desc.UV)
	return nil
}

// blit maps the texel rectangle uv of src onto dst in target. A rectangle
// with V0 > V1 is drawn upside down, which turns bottom-up storage upright.
func blit(target *image.RGBA, dst image.Rectangle, src *image.RGBA, uv extimage.TexelRect) {
	if uv.Width() == 0 || uv.Height() == 0 || dst.Empty() {
		return
	}
	sx := float64(dst.Dx()) / float64(uv.Width())
	sy := float64(dst.Dy()) / float64(uv.Height())
	s2d := f64.Aff3{
		sx, 0, float64(dst.Min.X) - float64(uv.U0)*sx,
		0, sy, float64(dst.Min.Y) - float64(uv.V0)*sy,
	}
	sr := image.Rect(
		int(math.Min(float64(uv.U0), float64(uv.U1))),
		int(math.Min(float64(uv.V0), float64(uv.V1))),
		int(math.Max(float64(uv.U0), float64(uv.U1))),
		int(math.Max(float64(uv.V0), float64(uv.V1))),
	)
	draw.ApproxBiLinear.Transform(target, s2d, src, sr, draw.Over, nil)
}

// gpuRenderer prepares the sampling state for hal contexts. Recording the
// draw itself belongs to the embedding renderer; the demo stops at the
// shader module and uniform block.
type gpuRenderer struct {
	dispatcher *extimage.Dispatcher
	ctx        *halgpu.Context
}

func (r *gpuRenderer) drawImage(id extimage.ID, dst image.Rectangle) error {
	if _, err := r.ctx.SamplingModule(); err != nil {
		return err
	}

	desc := r.dispatcher.Lock(id, 0, extimage.RenderingAuto)
	defer r.dispatcher.Unlock(id, 0)

	size := texbridge.Sz(int(math.Abs(float64(desc.UV.Width()))), int(math.Abs(float64(desc.UV.Height()))))
	uniform := halgpu.SamplingUniform(desc.UV, size)
	texbridge.Logger().Debug("demo: sampling",
		"id", id, "texture", uint64(desc.Source), "dst", dst, "uniform", hex.EncodeToString(uniform))
	return nil
}
