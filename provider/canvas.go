// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
)

// canvasImage is one canvas: a CPU pixel buffer and the GPU texture it
// is uploaded to.
//
// content is held by Draw and Resize while they run, and by the renderer
// from Lock to Unlock, so pixels and texture never change mid-sample.
type canvasImage struct {
	content sync.Mutex

	pixels      *image.RGBA
	staging     []byte             // bottom-up copy of pixels for upload
	texture     gpucontext.Texture // lazily created
	oldTexture  gpucontext.Texture // retired by Resize, destroyed on the next upload
	dirty       bool
	sizeChanged bool

	// Guarded by Canvas.mu.
	locked        bool
	removePending bool
}

// Canvas provides 3D-canvas images.
//
// Each image is an *image.RGBA the application draws into with Draw. The
// first Lock creates a GPU texture from it; later Locks upload only if the
// image changed. Uploads are stored bottom-up, the way GL framebuffers
// are, which is why the dispatcher flips canvas UVs.
//
// Canvas is safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	creator gpucontext.TextureCreator
	images  map[uint64]*canvasImage
	closed  bool
}

// NewCanvas creates a canvas provider that creates textures with creator.
func NewCanvas(creator gpucontext.TextureCreator) (*Canvas, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &Canvas{
		creator: creator,
		images:  make(map[uint64]*canvasImage),
	}, nil
}

// Allocate registers a new canvas image in r and adds it with the given
// size.
func (c *Canvas) Allocate(r *extimage.Registry, width, height int) (extimage.ID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	id := r.Allocate(extimage.KindCanvas)
	if err := c.Add(id.Uint64(), width, height); err != nil {
		r.Remove(id)
		return 0, err
	}
	return id, nil
}

// Add creates a cleared image for id.
func (c *Canvas) Add(id uint64, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if _, ok := c.images[id]; ok {
		return fmt.Errorf("%w: %d", ErrImageExists, id)
	}
	c.images[id] = &canvasImage{
		pixels: image.NewRGBA(image.Rect(0, 0, width, height)),
		dirty:  true,
	}
	texbridge.Logger().Debug("provider: canvas added", "id", id, "width", width, "height", height)
	return nil
}

// Draw calls fn with the pixels of id and marks the image for upload.
// It waits while the renderer has the image locked.
func (c *Canvas) Draw(id uint64, fn func(*image.RGBA)) error {
	img, err := c.lookup(id)
	if err != nil {
		return err
	}

	img.content.Lock()
	defer img.content.Unlock()

	if img.pixels == nil {
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}
	fn(img.pixels)
	img.dirty = true
	return nil
}

// Resize replaces the pixel buffer of id with a cleared one of the new
// size. The current texture stays alive until the next upload has
// replaced it.
func (c *Canvas) Resize(id uint64, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	img, err := c.lookup(id)
	if err != nil {
		return err
	}

	img.content.Lock()
	defer img.content.Unlock()

	if img.pixels == nil {
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}
	if b := img.pixels.Bounds(); b.Dx() == width && b.Dy() == height {
		return nil
	}
	img.pixels = image.NewRGBA(image.Rect(0, 0, width, height))
	img.staging = nil
	img.sizeChanged = true
	img.dirty = true
	return nil
}

// Size returns the pixel size of id.
func (c *Canvas) Size(id uint64) (texbridge.Size, error) {
	img, err := c.lookup(id)
	if err != nil {
		return texbridge.Size{}, err
	}
	img.content.Lock()
	defer img.content.Unlock()

	if img.pixels == nil {
		return texbridge.Size{}, fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}
	b := img.pixels.Bounds()
	return texbridge.Sz(b.Dx(), b.Dy()), nil
}

// Remove drops id and destroys its textures. If the renderer holds the
// image locked, removal completes at Unlock. Unknown ids are ignored.
func (c *Canvas) Remove(id uint64) {
	c.mu.Lock()
	img, ok := c.images[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	if img.locked {
		img.removePending = true
		c.mu.Unlock()
		return
	}
	delete(c.images, id)
	c.mu.Unlock()

	img.release()
}

// Lock uploads id if needed and returns its texture.
//
// An id the canvas does not know (for example one removed while a frame
// was in flight) yields a zero texture and size. Locking an image twice
// without Unlock panics.
func (c *Canvas) Lock(id uint64) (extimage.NativeTexture, texbridge.Size) {
	c.mu.Lock()
	img, ok := c.images[id]
	if !ok || img.removePending {
		c.mu.Unlock()
		texbridge.Logger().Warn("provider: lock of unknown canvas image", "id", id)
		return 0, texbridge.Size{}
	}
	if img.locked {
		c.mu.Unlock()
		panic(fmt.Sprintf("provider: canvas image %d locked twice", id))
	}
	img.locked = true
	c.mu.Unlock()

	img.content.Lock()
	c.upload(id, img)
	return describe(img.texture)
}

// Unlock releases id after sampling. Unlocking an image that is not
// locked panics; unknown ids are ignored.
func (c *Canvas) Unlock(id uint64) {
	c.mu.Lock()
	img, ok := c.images[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	if !img.locked {
		c.mu.Unlock()
		panic(fmt.Sprintf("provider: canvas image %d unlocked without lock", id))
	}
	img.locked = false
	remove := img.removePending
	if remove {
		delete(c.images, id)
	}
	c.mu.Unlock()

	img.content.Unlock()
	if remove {
		img.release()
	}
}

// Len returns the number of images.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// Close destroys every texture. Images the renderer holds locked are
// released at their Unlock. Further Adds fail with ErrClosed.
// Close is idempotent.
func (c *Canvas) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	var released []*canvasImage
	for id, img := range c.images {
		if img.locked {
			img.removePending = true
			continue
		}
		delete(c.images, id)
		released = append(released, img)
	}
	c.mu.Unlock()

	for _, img := range released {
		img.release()
	}
	return nil
}

func (c *Canvas) lookup(id uint64) (*canvasImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	img, ok := c.images[id]
	if !ok || img.removePending {
		return nil, fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}
	return img, nil
}

// upload brings the texture of img up to date. Must be called with
// img.content held. Failures are logged and the previous texture, if any,
// is served.
func (c *Canvas) upload(id uint64, img *canvasImage) {
	// The renderer finished with the retired texture at the last Unlock.
	if img.oldTexture != nil && img.texture != nil {
		destroyTexture(img.oldTexture)
		img.oldTexture = nil
	}

	if img.sizeChanged {
		if img.texture != nil {
			destroyTexture(img.oldTexture)
			img.oldTexture = img.texture
			img.texture = nil
		}
		img.sizeChanged = false
	}

	if !img.dirty && img.texture != nil {
		return
	}

	b := img.pixels.Bounds()
	w, h := b.Dx(), b.Dy()
	if len(img.staging) != len(img.pixels.Pix) {
		img.staging = make([]byte, len(img.pixels.Pix))
	}
	flipRows(img.staging, img.pixels.Pix, img.pixels.Stride, h)

	if img.texture == nil {
		tex, err := c.creator.NewTextureFromRGBA(w, h, img.staging)
		if err != nil {
			texbridge.Logger().Warn("provider: canvas texture creation failed", "id", id, "err", err)
			if img.oldTexture != nil {
				// Keep serving stale content rather than nothing.
				img.texture, img.oldTexture = img.oldTexture, nil
				img.sizeChanged = true
			}
			return
		}
		img.texture = tex
		img.dirty = false
		return
	}

	updater, ok := img.texture.(gpucontext.TextureUpdater)
	if !ok {
		// Recreate textures that cannot be updated in place.
		tex, err := c.creator.NewTextureFromRGBA(w, h, img.staging)
		if err != nil {
			texbridge.Logger().Warn("provider: canvas texture creation failed", "id", id, "err", err)
			return
		}
		img.oldTexture = img.texture
		img.texture = tex
		img.dirty = false
		return
	}
	if err := updater.UpdateData(img.staging); err != nil {
		texbridge.Logger().Warn("provider: canvas upload failed", "id", id, "err", err)
		return
	}
	img.dirty = false
}

// release destroys the textures of a removed image.
func (img *canvasImage) release() {
	img.content.Lock()
	defer img.content.Unlock()

	destroyTexture(img.oldTexture)
	destroyTexture(img.texture)
	img.oldTexture = nil
	img.texture = nil
	img.pixels = nil
	img.staging = nil
}

// Verify Canvas implements extimage.Provider.
var _ extimage.Provider = (*Canvas)(nil)
