// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"

	"github.com/gogpu/texbridge"
)

// defaultRecycleLimit is the number of spare buffers a swap chain keeps.
const defaultRecycleLimit = 2

// SwapChain cycles off-screen surfaces through a context.
//
// The chain is attached: its back buffer is whatever surface is bound to
// the context, so rendering into the context renders into the back
// buffer. SwapBuffers moves the back buffer to the front, where a consumer
// can take it (for example to import it as a texture), and binds a fresh
// back buffer.
//
// Lifecycle:
//  1. NewAttachedSwapChain adopts the context's bound surface
//  2. SwapBuffers once per frame, TakeSurface/RecycleSurface on the consumer side
//  3. Destroy before the context is destroyed
//
// TakeSurface and RecycleSurface are safe for concurrent use. SwapBuffers,
// Resize and Destroy call into the device, so they must be serialized with
// every other use of that device.
type SwapChain struct {
	mu sync.Mutex

	provider     SurfaceProvider
	contextID    ContextID
	size         texbridge.Size
	front        Surface
	recycled     []Surface
	recycleLimit int
	destroyed    bool
}

// NewAttachedSwapChain creates a swap chain whose back buffer is the
// surface currently bound to ctx. New buffers come from provider.
func NewAttachedSwapChain(d Device, ctx Context, provider SurfaceProvider) (*SwapChain, error) {
	info, err := d.ContextSurfaceInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrNoBoundSurface
	}
	if provider == nil {
		provider = AccessProvider{Access: AccessGPUOnly}
	}
	return &SwapChain{
		provider:     provider,
		contextID:    ctx.ContextID(),
		size:         info.Size,
		recycleLimit: defaultRecycleLimit,
	}, nil
}

// Size returns the size of the back buffer.
func (sc *SwapChain) Size() texbridge.Size {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.size
}

// SetRecycleLimit bounds the number of spare buffers kept for reuse.
func (sc *SwapChain) SetRecycleLimit(n int) {
	if n < 0 {
		n = 0
	}
	sc.mu.Lock()
	sc.recycleLimit = n
	sc.mu.Unlock()
}

// SwapBuffers presents the back buffer and binds a new one.
//
// The previous front buffer, if nobody took it, is recycled. If a new back
// buffer cannot be created or bound, the old back buffer is rebound so the
// context stays usable, and the error is returned.
func (sc *SwapChain) SwapBuffers(d Device, ctx Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.destroyed {
		return ErrSwapChainDestroyed
	}

	back, err := d.UnbindSurfaceFromContext(ctx)
	if err != nil {
		return err
	}
	if back == nil {
		return ErrNoBoundSurface
	}

	next, err := sc.nextBackBuffer(d, ctx)
	if err != nil {
		sc.restore(d, ctx, back)
		return err
	}
	if err := d.BindSurfaceToContext(ctx, next); err != nil {
		if derr := sc.provider.DestroySurface(d, ctx, next); derr != nil {
			texbridge.Logger().Warn("surface: destroy unbindable back buffer", "err", derr)
		}
		sc.restore(d, ctx, back)
		return err
	}

	if sc.front != nil {
		sc.recycled = append(sc.recycled, sc.front)
	}
	sc.front = back
	sc.trim(d, ctx)

	texbridge.Logger().Debug("surface: swapped buffers",
		"front", back.SurfaceID(), "back", next.SurfaceID(), "spare", len(sc.recycled))
	return nil
}

// TakeSurface removes and returns the most recently presented buffer, or
// nil if there is none. The caller owns it and should hand it back with
// RecycleSurface when done.
func (sc *SwapChain) TakeSurface() Surface {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	s := sc.front
	sc.front = nil
	return s
}

// RecycleSurface returns a surface obtained from TakeSurface.
// Surfaces of a stale size are destroyed on the next swap.
func (sc *SwapChain) RecycleSurface(s Surface) {
	if s == nil {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.recycled = append(sc.recycled, s)
}

// Resize replaces the back buffer with a new one of size.
// Spare buffers of the old size are dropped.
func (sc *SwapChain) Resize(d Device, ctx Context, size texbridge.Size) error {
	if size.Empty() {
		return ErrInvalidSize
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.destroyed {
		return ErrSwapChainDestroyed
	}
	if size == sc.size {
		return nil
	}

	next, err := sc.provider.CreateSurface(d, ctx, size)
	if err != nil {
		return err
	}
	old, err := d.UnbindSurfaceFromContext(ctx)
	if err != nil {
		if derr := sc.provider.DestroySurface(d, ctx, next); derr != nil {
			texbridge.Logger().Warn("surface: destroy resized back buffer", "err", derr)
		}
		return err
	}
	if err := d.BindSurfaceToContext(ctx, next); err != nil {
		if derr := sc.provider.DestroySurface(d, ctx, next); derr != nil {
			texbridge.Logger().Warn("surface: destroy resized back buffer", "err", derr)
		}
		if old != nil {
			sc.restore(d, ctx, old)
		}
		return err
	}

	sc.size = size
	if old != nil {
		sc.destroy(d, ctx, old)
	}
	for _, s := range sc.recycled {
		sc.destroy(d, ctx, s)
	}
	sc.recycled = nil

	texbridge.Logger().Debug("surface: resized swap chain", "size", size)
	return nil
}

// Destroy destroys every buffer owned by the chain, including the back
// buffer bound to ctx. All buffers are released even if some fail; the
// first error is returned.
func (sc *SwapChain) Destroy(d Device, ctx Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.destroyed {
		return nil
	}
	sc.destroyed = true

	var first error
	collect := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	back, err := d.UnbindSurfaceFromContext(ctx)
	collect(err)
	if back != nil {
		collect(sc.provider.DestroySurface(d, ctx, back))
	}
	if sc.front != nil {
		collect(sc.provider.DestroySurface(d, ctx, sc.front))
		sc.front = nil
	}
	for _, s := range sc.recycled {
		collect(sc.provider.DestroySurface(d, ctx, s))
	}
	sc.recycled = nil

	return first
}

// nextBackBuffer reuses a spare buffer of the current size or creates one.
// Must be called with sc.mu held.
func (sc *SwapChain) nextBackBuffer(d Device, ctx Context) (Surface, error) {
	for len(sc.recycled) > 0 {
		last := len(sc.recycled) - 1
		s := sc.recycled[last]
		sc.recycled = sc.recycled[:last]
		if d.SurfaceInfo(s).Size == sc.size {
			return s, nil
		}
		sc.destroy(d, ctx, s)
	}
	return sc.provider.CreateSurface(d, ctx, sc.size)
}

// restore rebinds a surface after a failed swap, destroying it if that
// fails too. Must be called with sc.mu held.
func (sc *SwapChain) restore(d Device, ctx Context, s Surface) {
	if err := d.BindSurfaceToContext(ctx, s); err != nil {
		texbridge.Logger().Warn("surface: rebind back buffer", "err", err)
		sc.destroy(d, ctx, s)
	}
}

// trim destroys spare buffers beyond the recycle limit.
// Must be called with sc.mu held.
func (sc *SwapChain) trim(d Device, ctx Context) {
	for len(sc.recycled) > sc.recycleLimit {
		s := sc.recycled[0]
		sc.recycled = sc.recycled[1:]
		sc.destroy(d, ctx, s)
	}
}

func (sc *SwapChain) destroy(d Device, ctx Context, s Surface) {
	if err := sc.provider.DestroySurface(d, ctx, s); err != nil {
		texbridge.Logger().Warn("surface: destroy swap chain buffer", "surface", s.SurfaceID(), "err", err)
	}
}
