// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const bytesPerPixel = 4

// textureCreator creates sampled RGBA8 textures on a hal device.
type textureCreator struct {
	device hal.Device
	queue  hal.Queue
}

// NewTextureFromRGBA creates a width x height RGBA8 texture and uploads
// data, which must hold exactly width*height*4 bytes.
func (c *textureCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDataSize, width, height)
	}
	if len(data) != width*height*bytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), width*height*bytesPerPixel)
	}

	raw, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "texbridge-rgba",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create texture: %w", err)
	}

	t := &Texture{
		device: c.device,
		queue:  c.queue,
		raw:    raw,
		width:  width,
		height: height,
	}
	if err := t.write(0, 0, width, height, data); err != nil {
		c.device.DestroyTexture(raw)
		return nil, err
	}
	return t, nil
}

// Texture is an RGBA8 texture created by a Device's texture creator.
//
// Texture is safe for concurrent use. Destroy should be called once the
// GPU no longer samples it.
type Texture struct {
	mu        sync.RWMutex
	device    hal.Device
	queue     hal.Queue
	raw       hal.Texture
	width     int
	height    int
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Raw returns the hal texture, or nil once destroyed.
func (t *Texture) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.raw
}

// NativeHandle returns the backend handle of the texture.
func (t *Texture) NativeHandle() uintptr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return 0
	}
	return nativeHandle(t.raw)
}

// UpdateData replaces the whole texture content.
func (t *Texture) UpdateData(data []byte) error {
	if len(data) != t.width*t.height*bytesPerPixel {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), t.width*t.height*bytesPerPixel)
	}
	return t.write(0, 0, t.width, t.height, data)
}

// UpdateRegion replaces the w x h rectangle at x, y.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("halgpu: region %d,%d %dx%d outside %dx%d texture", x, y, w, h, t.width, t.height)
	}
	if len(data) != w*h*bytesPerPixel {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDataSize, len(data), w*h*bytesPerPixel)
	}
	return t.write(x, y, w, h, data)
}

// Destroy releases the texture. It is idempotent.
func (t *Texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.device.DestroyTexture(t.raw)
	t.raw = nil
}

// IsDestroyed reports whether Destroy has been called.
func (t *Texture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

func (t *Texture) write(x, y, w, h int, data []byte) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.raw,
			Origin:  hal.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(w * bytesPerPixel),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("halgpu: write texture: %w", err)
	}
	return nil
}

// Verify Texture implements the gpucontext texture interfaces.
var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
	_ hal.NativeHandle                = (*Texture)(nil)
)
