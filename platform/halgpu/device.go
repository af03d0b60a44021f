// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
	"github.com/gogpu/wgpu/hal"
)

// Context is a render scope on a Device. It implements surface.Context.
type Context struct {
	id     surface.ContextID
	device *Device
	desc   surface.ContextDescriptor
	bound  *Surface

	mu       sync.Mutex
	sampling hal.ShaderModule
}

// ContextID implements surface.Context.
func (c *Context) ContextID() surface.ContextID { return c.id }

// Device is an open hal device. It implements surface.Device.
//
// Device is not safe for concurrent use except for the texture creator
// and device provider it hands out, which only touch the hal device and
// queue.
type Device struct {
	conn    *Connection
	adapter *Adapter
	device  hal.Device
	queue   hal.Queue

	nextID   atomic.Uint64
	contexts map[surface.ContextID]*Context
	current  *Context
}

func newDevice(conn *Connection, adapter *Adapter, open hal.OpenDevice) *Device {
	return &Device{
		conn:     conn,
		adapter:  adapter,
		device:   open.Device,
		queue:    open.Queue,
		contexts: make(map[surface.ContextID]*Context),
	}
}

// HAL returns the underlying hal device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Provider exposes the device to gpucontext consumers.
func (d *Device) Provider() gpucontext.DeviceProvider {
	return &deviceProvider{device: d}
}

// TextureCreator returns a creator for RGBA textures on this device.
func (d *Device) TextureCreator() gpucontext.TextureCreator {
	return &textureCreator{device: d.device, queue: d.queue}
}

// Connection implements surface.Device.
func (d *Device) Connection() surface.Connection { return d.conn }

// Adapter implements surface.Device.
func (d *Device) Adapter() surface.Adapter { return d.adapter }

// NativeDevice returns the hal.Device.
func (d *Device) NativeDevice() surface.NativeDevice { return d.device }

// CreateContextDescriptor validates attrs. Compatibility profiles do not
// exist in WebGPU and are rejected. Contexts with alpha render to RGBA8,
// others to BGRA8.
func (d *Device) CreateContextDescriptor(attrs surface.ContextAttributes) (surface.ContextDescriptor, error) {
	if attrs.Flags.Contains(surface.ContextCompatibility) {
		return surface.ContextDescriptor{}, fmt.Errorf("%w: compatibility profile", ErrUnsupportedAttributes)
	}
	format := gputypes.TextureFormatBGRA8Unorm
	if attrs.Flags.Contains(surface.ContextAlpha) {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return surface.ContextDescriptor{Attributes: attrs, Format: format}, nil
}

// CreateContext implements surface.Device.
func (d *Device) CreateContext(desc surface.ContextDescriptor) (surface.Context, error) {
	if desc.Format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: undefined format", ErrUnsupportedAttributes)
	}
	c := &Context{
		id:     surface.ContextID(d.nextID.Add(1)),
		device: d,
		desc:   desc,
	}
	d.contexts[c.id] = c
	texbridge.Logger().Debug("halgpu: context created", "context", c.id, "format", desc.Format)
	return c, nil
}

// DestroyContext destroys ctx, its bound surface and its shader modules.
func (d *Device) DestroyContext(ctx surface.Context) error {
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	if c.bound != nil {
		s := c.bound
		c.bound = nil
		d.release(s)
	}
	c.mu.Lock()
	if c.sampling != nil {
		d.device.DestroyShaderModule(c.sampling)
		c.sampling = nil
	}
	c.mu.Unlock()

	if d.current == c {
		d.current = nil
	}
	delete(d.contexts, c.id)
	return nil
}

// ContextDescriptor implements surface.Device.
func (d *Device) ContextDescriptor(ctx surface.Context) surface.ContextDescriptor {
	c, err := d.lookup(ctx)
	if err != nil {
		return surface.ContextDescriptor{}
	}
	return c.desc
}

// ContextDescriptorAttributes implements surface.Device.
func (d *Device) ContextDescriptorAttributes(desc surface.ContextDescriptor) surface.ContextAttributes {
	return desc.Attributes
}

// NativeContext returns the hal.Queue commands for ctx are submitted to.
func (d *Device) NativeContext(ctx surface.Context) surface.NativeContext {
	if _, err := d.lookup(ctx); err != nil {
		return nil
	}
	return d.queue
}

// MakeContextCurrent records ctx as current.
func (d *Device) MakeContextCurrent(ctx surface.Context) error {
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	d.current = c
	return nil
}

// Current returns the context made current last, or nil.
func (d *Device) Current() *Context {
	return d.current
}

// CreateSurface creates a generic render target or, for a widget target
// carrying a *Window, a configured hal surface.
func (d *Device) CreateSurface(ctx surface.Context, access surface.Access, target surface.Target) (surface.Surface, error) {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		id:     surface.SurfaceID(d.nextID.Add(1)),
		ctx:    c.id,
		format: c.desc.Format,
		access: access,
	}

	if target.IsWidget() {
		w, ok := target.Widget.(*Window)
		if !ok || w == nil {
			return nil, ErrNotWindow
		}
		if w.Size.Empty() {
			return nil, surface.ErrInvalidSize
		}
		hs, err := d.conn.instance.CreateSurface(w.Display, w.Handle)
		if err != nil {
			return nil, fmt.Errorf("halgpu: create window surface: %w", err)
		}
		s.window = w
		s.halSurface = hs
		s.size = w.Size
		if err := d.configure(s); err != nil {
			hs.Destroy()
			return nil, err
		}
		return s, nil
	}

	if target.Size.Empty() {
		return nil, surface.ErrInvalidSize
	}
	s.size = target.Size

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("texbridge-surface-%d", s.id),
		Size:          halExtent(s.size),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        s.format,
		Usage:         genericUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create surface texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     fmt.Sprintf("texbridge-surface-%d-target", s.id),
		Format:    s.format,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("halgpu: create surface view: %w", err)
	}
	s.texture = tex
	s.view = view
	return s, nil
}

// BindSurfaceToContext implements surface.Device.
func (d *Device) BindSurfaceToContext(ctx surface.Context, s surface.Surface) error {
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	hs, err := asSurface(s)
	if err != nil {
		return err
	}
	switch {
	case c.bound != nil:
		return ErrContextBusy
	case hs.ctx != c.id:
		return ErrWrongContext
	case hs.imported:
		return ErrSurfaceImported
	}
	c.bound = hs
	return nil
}

// UnbindSurfaceFromContext implements surface.Device.
func (d *Device) UnbindSurfaceFromContext(ctx surface.Context) (surface.Surface, error) {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, err
	}
	s := c.bound
	c.bound = nil
	if s == nil {
		return nil, nil
	}
	return s, nil
}

// DestroySurface implements surface.Device.
func (d *Device) DestroySurface(ctx surface.Context, s surface.Surface) error {
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	hs, err := asSurface(s)
	if err != nil {
		return err
	}
	switch {
	case c.bound == hs:
		return ErrSurfaceBound
	case hs.ctx != c.id:
		return ErrWrongContext
	case hs.imported:
		return ErrSurfaceImported
	}
	d.release(hs)
	return nil
}

// PresentSurface presents the next frame of a widget surface. An outdated
// surface is reconfigured once and presentation retried.
func (d *Device) PresentSurface(ctx surface.Context, s surface.Surface) error {
	if _, err := d.lookup(ctx); err != nil {
		return err
	}
	hs, err := asSurface(s)
	if err != nil {
		return err
	}
	if !hs.IsWidget() {
		return ErrNotWidgetSurface
	}

	acquired, err := hs.halSurface.AcquireTexture(nil)
	if errors.Is(err, hal.ErrSurfaceOutdated) {
		texbridge.Logger().Debug("halgpu: surface outdated, reconfiguring", "surface", hs.id)
		if err := d.configure(hs); err != nil {
			return err
		}
		acquired, err = hs.halSurface.AcquireTexture(nil)
	}
	if err != nil {
		return fmt.Errorf("halgpu: acquire surface texture: %w", err)
	}
	if acquired.Suboptimal {
		texbridge.Logger().Debug("halgpu: suboptimal surface", "surface", hs.id)
	}
	if err := d.queue.Present(hs.halSurface, acquired.Texture, nil); err != nil {
		return fmt.Errorf("halgpu: present: %w", err)
	}
	return nil
}

// CreateSurfaceTexture creates a sampling view of a generic surface.
func (d *Device) CreateSurfaceTexture(ctx surface.Context, s surface.Surface) (surface.SurfaceTexture, error) {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, err
	}
	hs, err := asSurface(s)
	if err != nil {
		return nil, err
	}
	switch {
	case hs.IsWidget():
		return nil, ErrWidgetSurfaceNotTexturable
	case c.bound == hs:
		return nil, ErrSurfaceBound
	case hs.imported:
		return nil, ErrSurfaceImported
	}

	view, err := d.device.CreateTextureView(hs.texture, &hal.TextureViewDescriptor{
		Label:     fmt.Sprintf("texbridge-surface-%d-sample", hs.id),
		Format:    hs.format,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create sampling view: %w", err)
	}
	hs.imported = true
	return &SurfaceTexture{surface: hs, view: view}, nil
}

// DestroySurfaceTexture implements surface.Device.
func (d *Device) DestroySurfaceTexture(ctx surface.Context, st surface.SurfaceTexture) (surface.Surface, error) {
	if _, err := d.lookup(ctx); err != nil {
		return nil, err
	}
	t, ok := st.(*SurfaceTexture)
	if !ok || t == nil {
		return nil, fmt.Errorf("halgpu: surface texture %T is not a *halgpu.SurfaceTexture", st)
	}
	if t.view != nil {
		d.device.DestroyTextureView(t.view)
		t.view = nil
	}
	t.surface.imported = false
	return t.surface, nil
}

// ContextSurfaceInfo implements surface.Device.
func (d *Device) ContextSurfaceInfo(ctx surface.Context) (*surface.Info, error) {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, err
	}
	if c.bound == nil {
		return nil, nil
	}
	info := c.bound.info()
	return &info, nil
}

// SurfaceInfo implements surface.Device.
func (d *Device) SurfaceInfo(s surface.Surface) surface.Info {
	hs, err := asSurface(s)
	if err != nil {
		return surface.Info{}
	}
	return hs.info()
}

// SurfaceTextureObject returns the native handle of the sampling view.
func (d *Device) SurfaceTextureObject(st surface.SurfaceTexture) uintptr {
	t, ok := st.(*SurfaceTexture)
	if !ok || t == nil {
		return 0
	}
	return nativeHandle(t.view)
}

// ProcAddress returns 0: WebGPU exposes no driver symbols.
func (d *Device) ProcAddress(ctx surface.Context, name string) uintptr {
	return 0
}

// Destroy waits for the GPU and releases the device.
func (d *Device) Destroy() {
	if d.device == nil {
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		texbridge.Logger().Warn("halgpu: wait idle", "err", err)
	}
	if len(d.contexts) > 0 {
		texbridge.Logger().Warn("halgpu: device destroyed with live contexts", "count", len(d.contexts))
	}
	d.device.Destroy()
	d.device = nil
	d.queue = nil
}

func (d *Device) lookup(ctx surface.Context) (*Context, error) {
	c, ok := ctx.(*Context)
	if !ok || c == nil || d.contexts[c.id] != c {
		return nil, ErrUnknownContext
	}
	return c, nil
}

// configure (re)configures the hal surface of a widget surface.
func (d *Device) configure(s *Surface) error {
	err := s.halSurface.Configure(d.device, &hal.SurfaceConfiguration{
		Width:       clampU32(s.size.Width),
		Height:      clampU32(s.size.Height),
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("halgpu: configure surface: %w", err)
	}
	return nil
}

// release frees the hal resources of an unbound surface.
func (d *Device) release(s *Surface) {
	if s.halSurface != nil {
		s.halSurface.Unconfigure(d.device)
		s.halSurface.Destroy()
		s.halSurface = nil
	}
	if s.view != nil {
		d.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.texture != nil {
		d.device.DestroyTexture(s.texture)
		s.texture = nil
	}
}

func asSurface(s surface.Surface) (*Surface, error) {
	hs, ok := s.(*Surface)
	if !ok || hs == nil {
		return nil, fmt.Errorf("halgpu: surface %T is not a *halgpu.Surface", s)
	}
	return hs, nil
}

func halExtent(size texbridge.Size) hal.Extent3D {
	e := size.Extent()
	return hal.Extent3D{Width: e.Width, Height: e.Height, DepthOrArrayLayers: e.DepthOrArrayLayers}
}

func clampU32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Verify Device implements surface.Device.
var _ surface.Device = (*Device)(nil)
