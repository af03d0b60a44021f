// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
	"github.com/gogpu/wgpu/hal"
)

// textureDestroyer is implemented by textures that own GPU memory.
type textureDestroyer interface {
	Destroy()
}

// destroyTexture releases tex if it supports it. nil is ignored.
func destroyTexture(tex gpucontext.Texture) {
	if tex == nil {
		return
	}
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// describe returns the native handle and size the renderer sees for tex.
// Textures that do not expose a native handle report zero.
func describe(tex gpucontext.Texture) (extimage.NativeTexture, texbridge.Size) {
	if tex == nil {
		return 0, texbridge.Size{}
	}
	var handle extimage.NativeTexture
	if h, ok := tex.(hal.NativeHandle); ok {
		handle = extimage.NativeTexture(h.NativeHandle())
	}
	return handle, texbridge.Sz(tex.Width(), tex.Height())
}

// flipRows copies src into dst with the row order reversed.
// dst must be at least len(src) bytes.
func flipRows(dst, src []byte, stride, rows int) {
	for y := 0; y < rows; y++ {
		copy(dst[(rows-1-y)*stride:(rows-y)*stride], src[y*stride:(y+1)*stride])
	}
}
