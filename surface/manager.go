// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/texbridge"
)

// Manager owns a device, one context on it, and the render target bound
// to that context.
//
// For a widget target the bound surface presents straight to the window.
// For a generic target the manager also owns an attached SwapChain, and
// presenting swaps its buffers.
//
// A Manager may be shared between goroutines; its methods serialize
// access to the device.
type Manager struct {
	mu sync.Mutex

	device    Device
	ctx       Context
	swapChain *SwapChain
	closed    bool
}

// NewManager opens a device on adapter, creates a context satisfying
// attrs, and binds a surface for target to it.
//
// If any step fails, everything created so far is destroyed in reverse
// order and the error is returned.
func NewManager(conn Connection, adapter Adapter, attrs ContextAttributes, target Target, opts ...Option) (*Manager, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = AccessProvider{Access: o.initialAccess}
	}

	device, err := conn.CreateDevice(adapter)
	if err != nil {
		return nil, fmt.Errorf("surface: create device: %w", err)
	}

	desc, err := device.CreateContextDescriptor(attrs)
	if err != nil {
		device.Destroy()
		return nil, fmt.Errorf("surface: create context descriptor: %w", err)
	}

	ctx, err := device.CreateContext(desc)
	if err != nil {
		device.Destroy()
		return nil, fmt.Errorf("surface: create context: %w", err)
	}

	s, err := device.CreateSurface(ctx, o.initialAccess, target)
	if err != nil {
		destroyContext(device, ctx)
		device.Destroy()
		return nil, fmt.Errorf("surface: create surface: %w", err)
	}

	if err := device.BindSurfaceToContext(ctx, s); err != nil {
		if derr := device.DestroySurface(ctx, s); derr != nil {
			texbridge.Logger().Warn("surface: destroy unbound surface", "err", derr)
		}
		destroyContext(device, ctx)
		device.Destroy()
		return nil, fmt.Errorf("surface: bind surface: %w", err)
	}

	m := &Manager{device: device, ctx: ctx}

	if !target.IsWidget() {
		sc, err := NewAttachedSwapChain(device, ctx, o.provider)
		if err != nil {
			// The context destroys its bound surface.
			destroyContext(device, ctx)
			device.Destroy()
			return nil, fmt.Errorf("surface: create swap chain: %w", err)
		}
		sc.SetRecycleLimit(o.recycleLimit)
		m.swapChain = sc
	}

	info := device.SurfaceInfo(s)
	texbridge.Logger().Info("surface: manager created",
		"context", ctx.ContextID(), "surface", info.ID, "size", info.Size,
		"widget", target.IsWidget(), "access", o.initialAccess)

	return m, nil
}

// CreateSurfaceTexture imports s as a texture that can be sampled from
// this manager's context. On failure the returned *TextureImportError
// carries s back to the caller.
func (m *Manager) CreateSurfaceTexture(s Surface) (SurfaceTexture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, &TextureImportError{Surface: s, Err: ErrClosed}
	}
	st, err := m.device.CreateSurfaceTexture(m.ctx, s)
	if err != nil {
		return nil, &TextureImportError{Surface: s, Err: err}
	}
	return st, nil
}

// DestroySurfaceTexture releases st and returns the surface it was
// created from. On failure the returned *TextureExportError carries st
// back to the caller.
func (m *Manager) DestroySurfaceTexture(st SurfaceTexture) (Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, &TextureExportError{Texture: st, Err: ErrClosed}
	}
	s, err := m.device.DestroySurfaceTexture(m.ctx, st)
	if err != nil {
		return nil, &TextureExportError{Texture: st, Err: err}
	}
	return s, nil
}

// MakeCurrent makes the manager's context current.
func (m *Manager) MakeCurrent() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return m.device.MakeContextCurrent(m.ctx)
}

// SwapChain returns the attached swap chain. It returns ErrWidgetAttached
// when the manager renders to a widget.
//
// TakeSurface and RecycleSurface may be called from any goroutine. The
// methods that take a Device and Context (SwapBuffers, Resize, Destroy)
// drive the device outside the manager's lock: callers must not run them
// concurrently with manager calls. Prefer Present and Resize on the manager.
func (m *Manager) SwapChain() (*SwapChain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.swapChain == nil {
		return nil, ErrWidgetAttached
	}
	return m.swapChain, nil
}

// Resize resizes the swap chain's back buffer. Widget surfaces follow
// their window and cannot be resized here: that returns ErrWidgetAttached.
func (m *Manager) Resize(size texbridge.Size) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.swapChain == nil {
		return ErrWidgetAttached
	}
	return m.swapChain.Resize(m.device, m.ctx, size)
}

// Present shows the current frame.
//
// With a swap chain this swaps buffers. With a widget the bound surface is
// unbound, presented to the window and rebound; if the rebind fails the
// surface is destroyed.
func (m *Manager) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.swapChain != nil {
		return m.swapChain.SwapBuffers(m.device, m.ctx)
	}

	s, err := m.device.UnbindSurfaceFromContext(m.ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoBoundSurface
	}

	perr := m.device.PresentSurface(m.ctx, s)
	if err := m.device.BindSurfaceToContext(m.ctx, s); err != nil {
		if derr := m.device.DestroySurface(m.ctx, s); derr != nil {
			texbridge.Logger().Warn("surface: destroy unbindable widget surface", "err", derr)
		}
		if perr != nil {
			return perr
		}
		return err
	}
	return perr
}

// Device returns the manager's device, or nil after Destroy.
func (m *Manager) Device() Device {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.device
}

// Context returns the manager's context, or nil after Destroy.
func (m *Manager) Context() Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.ctx
}

// Connection returns the connection the device was opened from.
func (m *Manager) Connection() Connection {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.device.Connection()
}

// Adapter returns the adapter the device was opened on.
func (m *Manager) Adapter() Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.device.Adapter()
}

// NativeDevice returns the platform's raw device.
func (m *Manager) NativeDevice() NativeDevice {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.device.NativeDevice()
}

// NativeContext returns the platform's raw context.
func (m *Manager) NativeContext() NativeContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.device.NativeContext(m.ctx)
}

// ContextAttributes returns the attributes the context was created with.
func (m *Manager) ContextAttributes() ContextAttributes {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ContextAttributes{}
	}
	return m.device.ContextDescriptorAttributes(m.device.ContextDescriptor(m.ctx))
}

// ContextSurfaceInfo describes the surface bound to the context, or
// returns nil if none is bound.
func (m *Manager) ContextSurfaceInfo() (*Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	return m.device.ContextSurfaceInfo(m.ctx)
}

// SurfaceInfo describes s.
func (m *Manager) SurfaceInfo(s Surface) Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}
	}
	return m.device.SurfaceInfo(s)
}

// SurfaceTextureObject returns the native texture object of st.
func (m *Manager) SurfaceTextureObject(st SurfaceTexture) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0
	}
	return m.device.SurfaceTextureObject(st)
}

// ProcAddress looks up a driver symbol for the context.
func (m *Manager) ProcAddress(name string) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0
	}
	return m.device.ProcAddress(m.ctx, name)
}

// Destroy tears down the swap chain, the context and the device, in that
// order. Errors are logged and otherwise ignored. Destroy is idempotent.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	if m.swapChain != nil {
		if err := m.swapChain.Destroy(m.device, m.ctx); err != nil {
			texbridge.Logger().Warn("surface: destroy swap chain", "err", err)
		}
		m.swapChain = nil
	}
	destroyContext(m.device, m.ctx)
	m.device.Destroy()

	texbridge.Logger().Info("surface: manager destroyed", "context", m.ctx.ContextID())
	m.ctx = nil
	m.device = nil
}

func destroyContext(d Device, ctx Context) {
	if err := d.DestroyContext(ctx); err != nil {
		texbridge.Logger().Warn("surface: destroy context", "context", ctx.ContextID(), "err", err)
	}
}
