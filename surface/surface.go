// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "github.com/gogpu/texbridge"

// Connection is a platform's entry point: it enumerates adapters and
// opens devices on them.
type Connection interface {
	// CreateAdapter picks the platform's preferred adapter.
	CreateAdapter() (Adapter, error)

	// CreateDevice opens a device on adapter.
	CreateDevice(adapter Adapter) (Device, error)
}

// Adapter is a physical or virtual GPU as exposed by the platform.
type Adapter interface{}

// NativeWidget is a platform window handle that widget surfaces present to.
type NativeWidget interface{}

// NativeDevice is the platform's raw device object.
type NativeDevice interface{}

// NativeContext is the platform's raw context object.
type NativeContext interface{}

// Context is a GPU state scope created by a Device. At most one surface
// is bound to a context at a time.
type Context interface {
	ContextID() ContextID
}

// Surface is a renderable color buffer. Between calls the caller owns it;
// while bound, the context owns it.
type Surface interface {
	SurfaceID() SurfaceID
}

// SurfaceTexture is a Surface imported as a sampling-capable texture.
type SurfaceTexture interface {
	SurfaceID() SurfaceID
}

// Device is the GPU platform capability consumed by [Manager] and
// [SwapChain].
//
// Devices are not safe for concurrent use; callers serialize access.
//
// Methods that take ownership of a Surface or SurfaceTexture leave it with
// the caller when they fail, so the caller can retry or destroy it.
type Device interface {
	// Connection returns the connection that created this device.
	Connection() Connection

	// Adapter returns the adapter this device was opened on.
	Adapter() Adapter

	// NativeDevice returns the platform's raw device.
	NativeDevice() NativeDevice

	// CreateContextDescriptor validates attrs and derives a descriptor.
	CreateContextDescriptor(attrs ContextAttributes) (ContextDescriptor, error)

	// CreateContext creates a context without a bound surface.
	CreateContext(desc ContextDescriptor) (Context, error)

	// DestroyContext destroys ctx and any surface still bound to it.
	DestroyContext(ctx Context) error

	// ContextDescriptor returns the descriptor ctx was created with.
	ContextDescriptor(ctx Context) ContextDescriptor

	// ContextDescriptorAttributes returns the attributes desc was derived from.
	ContextDescriptorAttributes(desc ContextDescriptor) ContextAttributes

	// NativeContext returns the platform's raw context for ctx.
	NativeContext(ctx Context) NativeContext

	// MakeContextCurrent makes ctx the active context for the calling thread.
	MakeContextCurrent(ctx Context) error

	// CreateSurface creates a surface belonging to ctx.
	CreateSurface(ctx Context, access Access, target Target) (Surface, error)

	// BindSurfaceToContext makes s the render target of ctx.
	BindSurfaceToContext(ctx Context, s Surface) error

	// UnbindSurfaceFromContext detaches and returns the bound surface.
	// It returns a nil Surface if nothing is bound.
	UnbindSurfaceFromContext(ctx Context) (Surface, error)

	// DestroySurface destroys an unbound surface.
	DestroySurface(ctx Context, s Surface) error

	// PresentSurface shows the contents of a widget surface on its window.
	PresentSurface(ctx Context, s Surface) error

	// CreateSurfaceTexture imports an unbound surface for sampling.
	CreateSurfaceTexture(ctx Context, s Surface) (SurfaceTexture, error)

	// DestroySurfaceTexture releases st and hands back its surface.
	DestroySurfaceTexture(ctx Context, st SurfaceTexture) (Surface, error)

	// ContextSurfaceInfo describes the surface bound to ctx, or returns nil.
	ContextSurfaceInfo(ctx Context) (*Info, error)

	// SurfaceInfo describes s.
	SurfaceInfo(s Surface) Info

	// SurfaceTextureObject returns the native texture object of st.
	SurfaceTextureObject(st SurfaceTexture) uintptr

	// ProcAddress looks up a driver symbol in the scope of ctx.
	// Platforms without a symbol table return 0.
	ProcAddress(ctx Context, name string) uintptr

	// Destroy releases the device. All contexts must be destroyed first.
	Destroy()
}

// SurfaceProvider creates the surfaces a [SwapChain] cycles through.
type SurfaceProvider interface {
	CreateSurface(d Device, ctx Context, size texbridge.Size) (Surface, error)
	DestroySurface(d Device, ctx Context, s Surface) error
}

// AccessProvider is the default SurfaceProvider: it creates generic
// surfaces with a fixed access mode.
type AccessProvider struct {
	Access Access
}

// CreateSurface creates a generic surface of size.
func (p AccessProvider) CreateSurface(d Device, ctx Context, size texbridge.Size) (Surface, error) {
	return d.CreateSurface(ctx, p.Access, GenericTarget(size))
}

// DestroySurface destroys s.
func (p AccessProvider) DestroySurface(d Device, ctx Context, s Surface) error {
	return d.DestroySurface(ctx, s)
}

// Verify AccessProvider implements SurfaceProvider.
var _ SurfaceProvider = AccessProvider{}
