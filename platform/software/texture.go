// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

const bytesPerPixel = 4

// textureHandles hands out the native handles of host textures. Zero is
// never used.
var textureHandles atomic.Uint64

type textureCreator struct{}

// NewTextureFromRGBA copies data into a new host texture.
func (textureCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDataSize, width, height)
	}
	if len(data) != width*height*bytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), width*height*bytesPerPixel)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data)
	return &Texture{
		img:    img,
		handle: uintptr(textureHandles.Add(1)),
	}, nil
}

// Texture is an RGBA texture in host memory.
type Texture struct {
	mu        sync.RWMutex
	img       *image.RGBA
	handle    uintptr
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// NativeHandle returns a process-unique handle, or 0 once destroyed.
func (t *Texture) NativeHandle() uintptr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return 0
	}
	return t.handle
}

// Image returns a copy of the texture contents.
func (t *Texture) Image() *image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := image.NewRGBA(t.img.Rect)
	copy(out.Pix, t.img.Pix)
	return out
}

// UpdateData replaces the whole texture.
func (t *Texture) UpdateData(data []byte) error {
	if len(data) != len(t.img.Pix) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), len(t.img.Pix))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}
	copy(t.img.Pix, data)
	return nil
}

// UpdateRegion replaces a w by h region at x, y.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	r := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 || !r.In(t.img.Rect) {
		return fmt.Errorf("software: region %v outside %v texture", r, t.img.Rect.Size())
	}
	if len(data) != w*h*bytesPerPixel {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), w*h*bytesPerPixel)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}
	stride := w * bytesPerPixel
	for row := 0; row < h; row++ {
		off := t.img.PixOffset(x, y+row)
		copy(t.img.Pix[off:off+stride], data[row*stride:])
	}
	return nil
}

// Destroy releases the texture. It is safe to call more than once.
func (t *Texture) Destroy() {
	t.mu.Lock()
	t.destroyed = true
	t.mu.Unlock()
}

// IsDestroyed reports whether Destroy has been called.
func (t *Texture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

var (
	_ gpucontext.TextureCreator       = textureCreator{}
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)
