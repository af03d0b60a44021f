// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
)

// Context is a render scope on a Device.
type Context struct {
	id    surface.ContextID
	desc  surface.ContextDescriptor
	bound *Surface
}

// ContextID implements surface.Context.
func (c *Context) ContextID() surface.ContextID { return c.id }

// Pixels returns the pixels of the bound surface, or nil if nothing is
// bound. Drawing into the image renders the next frame.
func (c *Context) Pixels() *image.RGBA {
	if c.bound == nil {
		return nil
	}
	return c.bound.pixels
}

// Device is a CPU device. It implements surface.Device.
//
// Device is not safe for concurrent use. The texture creator it hands
// out is.
type Device struct {
	conn    *Connection
	adapter *Adapter

	nextID   uint64
	contexts map[surface.ContextID]*Context
	current  *Context
	faults   map[string]error

	destroyed bool
}

func newDevice(conn *Connection, adapter *Adapter) *Device {
	return &Device{
		conn:     conn,
		adapter:  adapter,
		contexts: make(map[surface.ContextID]*Context),
		faults:   make(map[string]error),
	}
}

// FailNext makes the next call of the named Device method return err
// instead of doing its work. Method names are as in surface.Device, for
// example "CreateSurface" or "PresentSurface".
func (d *Device) FailNext(op string, err error) {
	d.faults[op] = err
}

func (d *Device) fault(op string) error {
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	if err, ok := d.faults[op]; ok {
		delete(d.faults, op)
		return err
	}
	return nil
}

// TextureCreator returns a creator of host-memory textures.
func (d *Device) TextureCreator() gpucontext.TextureCreator {
	return &textureCreator{}
}

// Current returns the context made current last, or nil.
func (d *Device) Current() *Context {
	return d.current
}

// Connection implements surface.Device.
func (d *Device) Connection() surface.Connection { return d.conn }

// Adapter implements surface.Device.
func (d *Device) Adapter() surface.Adapter { return d.adapter }

// NativeDevice returns d.
func (d *Device) NativeDevice() surface.NativeDevice { return d }

// CreateContextDescriptor accepts any attributes. Depth and stencil are
// ignored; surfaces are always RGBA8.
func (d *Device) CreateContextDescriptor(attrs surface.ContextAttributes) (surface.ContextDescriptor, error) {
	if err := d.fault("CreateContextDescriptor"); err != nil {
		return surface.ContextDescriptor{}, err
	}
	return surface.ContextDescriptor{Attributes: attrs, Format: gputypes.TextureFormatRGBA8Unorm}, nil
}

// CreateContext implements surface.Device.
func (d *Device) CreateContext(desc surface.ContextDescriptor) (surface.Context, error) {
	if err := d.fault("CreateContext"); err != nil {
		return nil, err
	}
	d.nextID++
	c := &Context{id: surface.ContextID(d.nextID), desc: desc}
	d.contexts[c.id] = c
	return c, nil
}

// DestroyContext destroys ctx and its bound surface.
func (d *Device) DestroyContext(ctx surface.Context) error {
	if err := d.fault("DestroyContext"); err != nil {
		return err
	}
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	if c.bound != nil {
		c.bound.release()
		c.bound = nil
	}
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

// NativeContext returns the *Context itself.
func (d *Device) NativeContext(ctx surface.Context) surface.NativeContext {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil
	}
	return c
}

// MakeContextCurrent implements surface.Device.
func (d *Device) MakeContextCurrent(ctx surface.Context) error {
	if err := d.fault("MakeContextCurrent"); err != nil {
		return err
	}
	c, err := d.lookup(ctx)
	if err != nil {
		return err
	}
	d.current = c
	return nil
}

// CreateSurface creates an RGBA surface. Widget targets must carry a
// *Window; the surface takes the window's current size.
func (d *Device) CreateSurface(ctx surface.Context, access surface.Access, target surface.Target) (surface.Surface, error) {
	if err := d.fault("CreateSurface"); err != nil {
		return nil, err
	}
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, err
	}

	size := target.Size
	var win *Window
	if target.IsWidget() {
		w, ok := target.Widget.(*Window)
		if !ok || w == nil {
			return nil, ErrNotWindow
		}
		win = w
		size = w.Size()
	}
	if size.Empty() {
		return nil, surface.ErrInvalidSize
	}

	d.nextID++
	s := &Surface{
		id:     surface.SurfaceID(d.nextID),
		ctx:    c.id,
		access: access,
		pixels: image.NewRGBA(image.Rect(0, 0, size.Width, size.Height)),
		window: win,
	}
	texbridge.Logger().Debug("software: surface created", "surface", s.id, "size", size, "widget", win != nil)
	return s, nil
}

// BindSurfaceToContext implements surface.Device.
func (d *Device) BindSurfaceToContext(ctx surface.Context, s surface.Surface) error {
	if err := d.fault("BindSurfaceToContext"); err != nil {
		return err
	}
	c, ss, err := d.contextSurface(ctx, s)
	if err != nil {
		return err
	}
	switch {
	case c.bound != nil:
		return ErrContextBusy
	case ss.imported:
		return ErrSurfaceImported
	}
	c.bound = ss
	return nil
}

// UnbindSurfaceFromContext implements surface.Device.
func (d *Device) UnbindSurfaceFromContext(ctx surface.Context) (surface.Surface, error) {
	if err := d.fault("UnbindSurfaceFromContext"); err != nil {
		return nil, err
	}
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
	if err := d.fault("DestroySurface"); err != nil {
		return err
	}
	c, ss, err := d.contextSurface(ctx, s)
	if err != nil {
		return err
	}
	switch {
	case c.bound == ss:
		return ErrSurfaceBound
	case ss.imported:
		return ErrSurfaceImported
	}
	ss.release()
	return nil
}

// PresentSurface copies a widget surface into its window's frame.
func (d *Device) PresentSurface(ctx surface.Context, s surface.Surface) error {
	if err := d.fault("PresentSurface"); err != nil {
		return err
	}
	_, ss, err := d.contextSurface(ctx, s)
	if err != nil {
		return err
	}
	if !ss.IsWidget() {
		return ErrNotWidgetSurface
	}
	ss.window.present(ss.pixels)
	return nil
}

// CreateSurfaceTexture imports an unbound generic surface.
func (d *Device) CreateSurfaceTexture(ctx surface.Context, s surface.Surface) (surface.SurfaceTexture, error) {
	if err := d.fault("CreateSurfaceTexture"); err != nil {
		return nil, err
	}
	c, ss, err := d.contextSurface(ctx, s)
	if err != nil {
		return nil, err
	}
	switch {
	case ss.IsWidget():
		return nil, ErrWidgetSurfaceNotTexturable
	case c.bound == ss:
		return nil, ErrSurfaceBound
	case ss.imported:
		return nil, ErrSurfaceImported
	}
	ss.imported = true
	return &SurfaceTexture{surface: ss}, nil
}

// DestroySurfaceTexture implements surface.Device.
func (d *Device) DestroySurfaceTexture(ctx surface.Context, st surface.SurfaceTexture) (surface.Surface, error) {
	if err := d.fault("DestroySurfaceTexture"); err != nil {
		return nil, err
	}
	if _, err := d.lookup(ctx); err != nil {
		return nil, err
	}
	t, ok := st.(*SurfaceTexture)
	if !ok || t == nil {
		return nil, ErrSurfaceDestroyed
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
	ss, ok := s.(*Surface)
	if !ok || ss == nil || ss.destroyed {
		return surface.Info{}
	}
	return ss.info()
}

// SurfaceTextureObject returns the id of the imported surface.
func (d *Device) SurfaceTextureObject(st surface.SurfaceTexture) uintptr {
	t, ok := st.(*SurfaceTexture)
	if !ok || t == nil {
		return 0
	}
	return uintptr(t.surface.id)
}

// ProcAddress returns 0: there are no driver symbols.
func (d *Device) ProcAddress(ctx surface.Context, name string) uintptr {
	return 0
}

// Destroy releases the device. Later calls fail with ErrDeviceDestroyed.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	if len(d.contexts) > 0 {
		texbridge.Logger().Warn("software: device destroyed with live contexts", "count", len(d.contexts))
	}
	d.destroyed = true
	d.contexts = nil
	d.current = nil
}

func (d *Device) lookup(ctx surface.Context) (*Context, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	c, ok := ctx.(*Context)
	if !ok || c == nil || d.contexts[c.id] != c {
		return nil, ErrUnknownContext
	}
	return c, nil
}

// contextSurface resolves ctx and checks that s is a live surface of it.
func (d *Device) contextSurface(ctx surface.Context, s surface.Surface) (*Context, *Surface, error) {
	c, err := d.lookup(ctx)
	if err != nil {
		return nil, nil, err
	}
	ss, ok := s.(*Surface)
	if !ok || ss == nil || ss.destroyed {
		return nil, nil, ErrSurfaceDestroyed
	}
	if ss.ctx != c.id {
		return nil, nil, ErrWrongContext
	}
	return c, ss, nil
}

func (s *Surface) release() {
	s.destroyed = true
	s.pixels = nil
	s.window = nil
}

// Verify Device implements surface.Device.
var _ surface.Device = (*Device)(nil)
