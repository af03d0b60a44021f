// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
)

type mediaImage struct {
	frame   gpucontext.Texture
	pending gpucontext.Texture // arrived while locked, swapped in at Unlock

	locked        bool
	detachPending bool
}

// Media provides media images: frames a decoder pushes as textures.
//
// PushFrame never waits for the renderer. A frame pushed while the image
// is locked is parked and becomes current at Unlock; a parked frame that
// is overtaken by a newer one is destroyed unseen.
//
// Media is safe for concurrent use.
type Media struct {
	mu     sync.Mutex
	images map[uint64]*mediaImage
	closed bool
}

// NewMedia creates an empty media provider.
func NewMedia() *Media {
	return &Media{images: make(map[uint64]*mediaImage)}
}

// Allocate registers a new media image in r and attaches it.
func (m *Media) Allocate(r *extimage.Registry) (extimage.ID, error) {
	id := r.Allocate(extimage.KindMedia)
	if err := m.Attach(id.Uint64()); err != nil {
		r.Remove(id)
		return 0, err
	}
	return id, nil
}

// Attach starts serving id. It has no frame until the first PushFrame.
// Attaching an id twice is a no-op.
func (m *Media) Attach(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.images[id]; !ok {
		m.images[id] = &mediaImage{}
	}
	return nil
}

// Detach stops serving id and destroys its frames. If the renderer holds
// the image locked, the frames are destroyed at Unlock.
func (m *Media) Detach(id uint64) {
	m.mu.Lock()
	img, ok := m.images[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	if img.locked {
		img.detachPending = true
		m.mu.Unlock()
		return
	}
	delete(m.images, id)
	m.mu.Unlock()

	img.release()
}

// PushFrame makes frame the current content of id. The provider takes
// ownership of frame and destroys it when it is replaced.
func (m *Media) PushFrame(id uint64, frame gpucontext.Texture) error {
	if frame == nil {
		return fmt.Errorf("provider: nil frame for media image %d", id)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	img, ok := m.images[id]
	if !ok || img.detachPending {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}

	var stale gpucontext.Texture
	if img.locked {
		stale, img.pending = img.pending, frame
	} else {
		stale, img.frame = img.frame, frame
	}
	m.mu.Unlock()

	destroyTexture(stale)
	return nil
}

// Lock returns the current frame of id. An image without a frame, or an
// unknown id, yields a zero texture and size. Locking an image twice
// without Unlock panics.
func (m *Media) Lock(id uint64) (extimage.NativeTexture, texbridge.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()

	img, ok := m.images[id]
	if !ok || img.detachPending {
		texbridge.Logger().Warn("provider: lock of unknown media image", "id", id)
		return 0, texbridge.Size{}
	}
	if img.locked {
		panic(fmt.Sprintf("provider: media image %d locked twice", id))
	}
	img.locked = true
	return describe(img.frame)
}

// Unlock releases id after sampling and swaps in any parked frame.
// Unlocking an image that is not locked panics; unknown ids are ignored.
func (m *Media) Unlock(id uint64) {
	m.mu.Lock()
	img, ok := m.images[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	if !img.locked {
		m.mu.Unlock()
		panic(fmt.Sprintf("provider: media image %d unlocked without lock", id))
	}
	img.locked = false

	if img.detachPending {
		delete(m.images, id)
		m.mu.Unlock()
		img.release()
		return
	}

	var stale gpucontext.Texture
	if img.pending != nil {
		stale, img.frame, img.pending = img.frame, img.pending, nil
	}
	m.mu.Unlock()

	destroyTexture(stale)
}

// Len returns the number of attached images.
func (m *Media) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// Close destroys every frame. Images the renderer holds locked are
// released at their Unlock. Close is idempotent.
func (m *Media) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	var released []*mediaImage
	for id, img := range m.images {
		if img.locked {
			img.detachPending = true
			continue
		}
		delete(m.images, id)
		released = append(released, img)
	}
	m.mu.Unlock()

	for _, img := range released {
		img.release()
	}
	return nil
}

func (img *mediaImage) release() {
	destroyTexture(img.pending)
	destroyTexture(img.frame)
	img.pending = nil
	img.frame = nil
}

// Verify Media implements extimage.Provider.
var _ extimage.Provider = (*Media)(nil)
