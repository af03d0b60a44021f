// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/texbridge"
)

// Window is an in-memory native widget. Presenting a widget surface
// replaces the window's frame.
//
// Window is safe for concurrent use: the presenter and a consumer reading
// frames may run on different goroutines.
type Window struct {
	mu       sync.Mutex
	frame    *image.RGBA
	presents int
}

// NewWindow creates a window with a transparent frame of size.
func NewWindow(size texbridge.Size) *Window {
	return &Window{frame: image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))}
}

// Size returns the frame size.
func (w *Window) Size() texbridge.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return rectSize(w.frame.Bounds())
}

// Resize replaces the frame with a transparent one of size. Surfaces
// created at the old size are scaled on present.
func (w *Window) Resize(size texbridge.Size) {
	w.mu.Lock()
	w.frame = image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	w.mu.Unlock()
}

// Frame returns a copy of the last presented frame.
func (w *Window) Frame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := image.NewRGBA(w.frame.Bounds())
	copy(out.Pix, w.frame.Pix)
	return out
}

// Presents returns the number of frames presented so far.
func (w *Window) Presents() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presents
}

// present copies src into the frame, scaling bilinearly if the sizes differ.
func (w *Window) present(src *image.RGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dst := w.frame
	if dst.Bounds().Size() == src.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	w.presents++
}

func rectSize(r image.Rectangle) texbridge.Size {
	return texbridge.Sz(r.Dx(), r.Dy())
}
