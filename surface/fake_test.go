// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
)

// fakeConnection is an in-memory platform used to drive Manager and
// SwapChain through every success and failure path.
type fakeConnection struct {
	device *fakeDevice
	err    error
}

func (c *fakeConnection) CreateAdapter() (Adapter, error) {
	return "fake-adapter", nil
}

func (c *fakeConnection) CreateDevice(adapter Adapter) (Device, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.device == nil {
		c.device = newFakeDevice()
	}
	c.device.conn = c
	c.device.adapter = adapter
	return c.device, nil
}

type fakeContext struct{ id ContextID }

func (c *fakeContext) ContextID() ContextID { return c.id }

type fakeSurface struct {
	id     SurfaceID
	ctx    ContextID
	size   texbridge.Size
	access Access
	widget bool
}

func (s *fakeSurface) SurfaceID() SurfaceID { return s.id }

type fakeSurfaceTexture struct{ surface *fakeSurface }

func (st *fakeSurfaceTexture) SurfaceID() SurfaceID { return st.surface.id }

// fakeWidget stands in for a native window.
type fakeWidget struct{ size texbridge.Size }

var errFake = errors.New("fake: injected failure")

type fakeDevice struct {
	conn    Connection
	adapter Adapter

	nextID    uint64
	descs     map[ContextID]ContextDescriptor
	bound     map[ContextID]*fakeSurface
	live      map[SurfaceID]*fakeSurface
	textures  map[SurfaceID]bool
	fail      map[string]error
	calls     []string
	presented []SurfaceID
	current   ContextID
	created   int
	destroyed bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		descs:    make(map[ContextID]ContextDescriptor),
		bound:    make(map[ContextID]*fakeSurface),
		live:     make(map[SurfaceID]*fakeSurface),
		textures: make(map[SurfaceID]bool),
		fail:     make(map[string]error),
	}
}

// failNext makes the next call of op return err.
func (d *fakeDevice) failNext(op string, err error) {
	d.fail[op] = err
}

func (d *fakeDevice) check(op string) error {
	d.calls = append(d.calls, op)
	if err, ok := d.fail[op]; ok {
		delete(d.fail, op)
		return err
	}
	return nil
}

func (d *fakeDevice) id() uint64 {
	d.nextID++
	return d.nextID
}

// called reports the index of the first call of op, or -1.
func (d *fakeDevice) called(op string) int {
	for i, c := range d.calls {
		if c == op {
			return i
		}
	}
	return -1
}

func (d *fakeDevice) Connection() Connection     { return d.conn }
func (d *fakeDevice) Adapter() Adapter           { return d.adapter }
func (d *fakeDevice) NativeDevice() NativeDevice { return "fake-native-device" }

func (d *fakeDevice) CreateContextDescriptor(attrs ContextAttributes) (ContextDescriptor, error) {
	if err := d.check("CreateContextDescriptor"); err != nil {
		return ContextDescriptor{}, err
	}
	format := gputypes.TextureFormatBGRA8Unorm
	if attrs.Flags.Contains(ContextAlpha) {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return ContextDescriptor{Attributes: attrs, Format: format}, nil
}

func (d *fakeDevice) CreateContext(desc ContextDescriptor) (Context, error) {
	if err := d.check("CreateContext"); err != nil {
		return nil, err
	}
	id := ContextID(d.id())
	d.descs[id] = desc
	return &fakeContext{id: id}, nil
}

func (d *fakeDevice) DestroyContext(ctx Context) error {
	if err := d.check("DestroyContext"); err != nil {
		return err
	}
	id := ctx.ContextID()
	if s := d.bound[id]; s != nil {
		delete(d.live, s.id)
		delete(d.bound, id)
	}
	delete(d.descs, id)
	return nil
}

func (d *fakeDevice) ContextDescriptor(ctx Context) ContextDescriptor {
	return d.descs[ctx.ContextID()]
}

func (d *fakeDevice) ContextDescriptorAttributes(desc ContextDescriptor) ContextAttributes {
	return desc.Attributes
}

func (d *fakeDevice) NativeContext(ctx Context) NativeContext {
	return ctx.ContextID()
}

func (d *fakeDevice) MakeContextCurrent(ctx Context) error {
	if err := d.check("MakeContextCurrent"); err != nil {
		return err
	}
	d.current = ctx.ContextID()
	return nil
}

func (d *fakeDevice) CreateSurface(ctx Context, access Access, target Target) (Surface, error) {
	if err := d.check("CreateSurface"); err != nil {
		return nil, err
	}
	s := &fakeSurface{
		id:     SurfaceID(d.id()),
		ctx:    ctx.ContextID(),
		size:   target.Size,
		access: access,
		widget: target.IsWidget(),
	}
	if w, ok := target.Widget.(fakeWidget); ok {
		s.size = w.size
	}
	d.live[s.id] = s
	d.created++
	return s, nil
}

func (d *fakeDevice) BindSurfaceToContext(ctx Context, s Surface) error {
	if err := d.check("BindSurfaceToContext"); err != nil {
		return err
	}
	fs := s.(*fakeSurface)
	if d.bound[ctx.ContextID()] != nil {
		return fmt.Errorf("fake: context %d already has a surface", ctx.ContextID())
	}
	if fs.ctx != ctx.ContextID() {
		return fmt.Errorf("fake: surface %d belongs to context %d", fs.id, fs.ctx)
	}
	d.bound[ctx.ContextID()] = fs
	return nil
}

func (d *fakeDevice) UnbindSurfaceFromContext(ctx Context) (Surface, error) {
	if err := d.check("UnbindSurfaceFromContext"); err != nil {
		return nil, err
	}
	s := d.bound[ctx.ContextID()]
	delete(d.bound, ctx.ContextID())
	if s == nil {
		return nil, nil
	}
	return s, nil
}

func (d *fakeDevice) DestroySurface(ctx Context, s Surface) error {
	if err := d.check("DestroySurface"); err != nil {
		return err
	}
	fs := s.(*fakeSurface)
	if d.bound[ctx.ContextID()] == fs {
		return fmt.Errorf("fake: surface %d is bound", fs.id)
	}
	delete(d.live, fs.id)
	return nil
}

func (d *fakeDevice) PresentSurface(ctx Context, s Surface) error {
	if err := d.check("PresentSurface"); err != nil {
		return err
	}
	d.presented = append(d.presented, s.SurfaceID())
	return nil
}

func (d *fakeDevice) CreateSurfaceTexture(ctx Context, s Surface) (SurfaceTexture, error) {
	if err := d.check("CreateSurfaceTexture"); err != nil {
		return nil, err
	}
	fs := s.(*fakeSurface)
	d.textures[fs.id] = true
	return &fakeSurfaceTexture{surface: fs}, nil
}

func (d *fakeDevice) DestroySurfaceTexture(ctx Context, st SurfaceTexture) (Surface, error) {
	if err := d.check("DestroySurfaceTexture"); err != nil {
		return nil, err
	}
	fst := st.(*fakeSurfaceTexture)
	delete(d.textures, fst.surface.id)
	return fst.surface, nil
}

func (d *fakeDevice) ContextSurfaceInfo(ctx Context) (*Info, error) {
	if err := d.check("ContextSurfaceInfo"); err != nil {
		return nil, err
	}
	s := d.bound[ctx.ContextID()]
	if s == nil {
		return nil, nil
	}
	info := d.SurfaceInfo(s)
	return &info, nil
}

func (d *fakeDevice) SurfaceInfo(s Surface) Info {
	fs := s.(*fakeSurface)
	return Info{
		ID:        fs.id,
		ContextID: fs.ctx,
		Size:      fs.size,
		Format:    d.descs[fs.ctx].Format,
	}
}

func (d *fakeDevice) SurfaceTextureObject(st SurfaceTexture) uintptr {
	return uintptr(st.SurfaceID()) + 1000
}

func (d *fakeDevice) ProcAddress(ctx Context, name string) uintptr {
	if name == "glFinish" {
		return 0x1234
	}
	return 0
}

func (d *fakeDevice) Destroy() {
	d.calls = append(d.calls, "Destroy")
	d.destroyed = true
}

// Verify fakeDevice implements Device.
var _ Device = (*fakeDevice)(nil)
