// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"

	_ "github.com/gogpu/wgpu/hal/noop"
)

func openNoop(t *testing.T) *Connection {
	t.Helper()
	conn, err := Open(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("Open(BackendEmpty) error = %v", err)
	}
	t.Cleanup(conn.Destroy)
	return conn
}

func openDevice(t *testing.T) *Device {
	t.Helper()
	conn := openNoop(t)
	sd, err := conn.CreateDevice(nil)
	if err != nil {
		t.Fatalf("CreateDevice(nil) error = %v", err)
	}
	d := sd.(*Device)
	t.Cleanup(d.Destroy)
	return d
}

func newContext(t *testing.T, d *Device, attrs surface.ContextAttributes) *Context {
	t.Helper()
	desc, err := d.CreateContextDescriptor(attrs)
	if err != nil {
		t.Fatalf("CreateContextDescriptor error = %v", err)
	}
	ctx, err := d.CreateContext(desc)
	if err != nil {
		t.Fatalf("CreateContext error = %v", err)
	}
	return ctx.(*Context)
}

func TestOpenUnregistered(t *testing.T) {
	// Only the noop backend is linked into this test binary.
	_, err := Open(gputypes.BackendMetal)
	var nre *BackendNotRegisteredError
	if !errors.As(err, &nre) {
		t.Fatalf("Open(BackendMetal) error = %v, want *BackendNotRegisteredError", err)
	}
	if nre.Variant != gputypes.BackendMetal {
		t.Errorf("Variant = %v, want %v", nre.Variant, gputypes.BackendMetal)
	}
}

func TestOpenBest(t *testing.T) {
	conn, err := OpenBest()
	if err != nil {
		t.Fatalf("OpenBest() error = %v", err)
	}
	defer conn.Destroy()
	if conn.Variant() != gputypes.BackendEmpty {
		t.Errorf("Variant() = %v, want %v", conn.Variant(), gputypes.BackendEmpty)
	}
	if conn.Instance() == nil {
		t.Error("Instance() = nil")
	}
}

func TestCreateAdapter(t *testing.T) {
	conn := openNoop(t)
	sa, err := conn.CreateAdapter()
	if err != nil {
		t.Fatalf("CreateAdapter() error = %v", err)
	}
	a := sa.(*Adapter)
	if a.Info().Name == "" {
		t.Error("adapter has no name")
	}
	if a.Info().Backend != gputypes.BackendEmpty {
		t.Errorf("adapter backend = %v, want %v", a.Info().Backend, gputypes.BackendEmpty)
	}
}

func TestCreateDeviceWrongAdapter(t *testing.T) {
	conn := openNoop(t)
	if _, err := conn.CreateDevice("not an adapter"); err == nil {
		t.Error("CreateDevice with foreign adapter succeeded")
	}
}

func TestAdapterRank(t *testing.T) {
	order := []gputypes.DeviceType{
		gputypes.DeviceTypeOther,
		gputypes.DeviceTypeVirtualGPU,
		gputypes.DeviceTypeIntegratedGPU,
		gputypes.DeviceTypeDiscreteGPU,
	}
	for i := 1; i < len(order); i++ {
		if adapterRank(order[i]) <= adapterRank(order[i-1]) {
			t.Errorf("adapterRank(%v) <= adapterRank(%v)", order[i], order[i-1])
		}
	}
}

func TestContextDescriptorFormat(t *testing.T) {
	d := openDevice(t)

	tests := []struct {
		name  string
		flags surface.ContextAttributeFlags
		want  gputypes.TextureFormat
	}{
		{"opaque", 0, gputypes.TextureFormatBGRA8Unorm},
		{"alpha", surface.ContextAlpha, gputypes.TextureFormatRGBA8Unorm},
		{"alpha depth", surface.ContextAlpha | surface.ContextDepth, gputypes.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := d.CreateContextDescriptor(surface.ContextAttributes{Flags: tt.flags})
			if err != nil {
				t.Fatalf("CreateContextDescriptor error = %v", err)
			}
			if desc.Format != tt.want {
				t.Errorf("Format = %v, want %v", desc.Format, tt.want)
			}
			if got := d.ContextDescriptorAttributes(desc).Flags; got != tt.flags {
				t.Errorf("attributes = %v, want %v", got, tt.flags)
			}
		})
	}
}

func TestContextDescriptorCompatibility(t *testing.T) {
	d := openDevice(t)
	_, err := d.CreateContextDescriptor(surface.ContextAttributes{Flags: surface.ContextCompatibility})
	if !errors.Is(err, ErrUnsupportedAttributes) {
		t.Errorf("error = %v, want ErrUnsupportedAttributes", err)
	}
	if _, err := d.CreateContext(surface.ContextDescriptor{}); !errors.Is(err, ErrUnsupportedAttributes) {
		t.Errorf("CreateContext(zero) error = %v, want ErrUnsupportedAttributes", err)
	}
}

func TestGenericSurfaceBinding(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)

	s, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.GenericTarget(texbridge.Sz(64, 32)))
	if err != nil {
		t.Fatalf("CreateSurface error = %v", err)
	}
	hs := s.(*Surface)
	if hs.IsWidget() || hs.Texture() == nil || hs.View() == nil {
		t.Fatalf("generic surface not backed by a texture: %+v", hs)
	}

	if err := d.BindSurfaceToContext(ctx, s); err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	if err := d.BindSurfaceToContext(ctx, s); !errors.Is(err, ErrContextBusy) {
		t.Errorf("second Bind error = %v, want ErrContextBusy", err)
	}
	if err := d.DestroySurface(ctx, s); !errors.Is(err, ErrSurfaceBound) {
		t.Errorf("DestroySurface(bound) error = %v, want ErrSurfaceBound", err)
	}

	info, err := d.ContextSurfaceInfo(ctx)
	if err != nil || info == nil {
		t.Fatalf("ContextSurfaceInfo = %v, %v", info, err)
	}
	if info.ID != hs.SurfaceID() || info.Size != texbridge.Sz(64, 32) || info.ContextID != ctx.ContextID() {
		t.Errorf("info = %+v", info)
	}

	got, err := d.UnbindSurfaceFromContext(ctx)
	if err != nil || got != s {
		t.Fatalf("Unbind = %v, %v, want the bound surface", got, err)
	}
	if got, err := d.UnbindSurfaceFromContext(ctx); got != nil || err != nil {
		t.Errorf("Unbind(empty) = %v, %v, want nil, nil", got, err)
	}
	if info, _ := d.ContextSurfaceInfo(ctx); info != nil {
		t.Errorf("ContextSurfaceInfo after unbind = %+v, want nil", info)
	}
	if err := d.DestroySurface(ctx, s); err != nil {
		t.Errorf("DestroySurface error = %v", err)
	}
	if hs.Texture() != nil {
		t.Error("destroyed surface still holds its texture")
	}
}

func TestSurfaceWrongContext(t *testing.T) {
	d := openDevice(t)
	a := newContext(t, d, surface.ContextAttributes{})
	b := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(a)
	defer d.DestroyContext(b)

	s, err := d.CreateSurface(a, surface.AccessGPUOnly, surface.GenericTarget(texbridge.Sz(4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.BindSurfaceToContext(b, s); !errors.Is(err, ErrWrongContext) {
		t.Errorf("Bind to other context error = %v, want ErrWrongContext", err)
	}
	if err := d.DestroySurface(b, s); !errors.Is(err, ErrWrongContext) {
		t.Errorf("DestroySurface from other context error = %v, want ErrWrongContext", err)
	}
	if err := d.DestroySurface(a, s); err != nil {
		t.Errorf("DestroySurface error = %v", err)
	}
}

func TestUnknownContext(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	if err := d.DestroyContext(ctx); err != nil {
		t.Fatal(err)
	}
	if err := d.MakeContextCurrent(ctx); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("MakeContextCurrent(destroyed) error = %v, want ErrUnknownContext", err)
	}
	if err := d.DestroyContext(ctx); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("second DestroyContext error = %v, want ErrUnknownContext", err)
	}
	if d.NativeContext(ctx) != nil {
		t.Error("NativeContext(destroyed) != nil")
	}
}

func TestCreateSurfaceInvalid(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)

	if _, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.GenericTarget(texbridge.Size{})); !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("empty generic surface error = %v, want ErrInvalidSize", err)
	}
	if _, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.WidgetTarget("window")); !errors.Is(err, ErrNotWindow) {
		t.Errorf("foreign widget error = %v, want ErrNotWindow", err)
	}
	if _, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.WidgetTarget(&Window{})); !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("empty window error = %v, want ErrInvalidSize", err)
	}
}

func TestWidgetSurface(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)

	win := &Window{Size: texbridge.Sz(640, 480)}
	s, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.WidgetTarget(win))
	if err != nil {
		t.Fatalf("CreateSurface(widget) error = %v", err)
	}
	hs := s.(*Surface)
	if !hs.IsWidget() || hs.HALSurface() == nil {
		t.Fatal("widget surface has no hal surface")
	}
	if err := d.PresentSurface(ctx, s); err != nil {
		t.Errorf("PresentSurface error = %v", err)
	}
	if _, err := d.CreateSurfaceTexture(ctx, s); !errors.Is(err, ErrWidgetSurfaceNotTexturable) {
		t.Errorf("CreateSurfaceTexture(widget) error = %v, want ErrWidgetSurfaceNotTexturable", err)
	}
	if err := d.DestroySurface(ctx, s); err != nil {
		t.Errorf("DestroySurface error = %v", err)
	}
	if hs.HALSurface() != nil {
		t.Error("destroyed widget surface still holds its hal surface")
	}
}

func TestPresentGenericSurface(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)

	s, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.GenericTarget(texbridge.Sz(8, 8)))
	if err != nil {
		t.Fatal(err)
	}
	defer d.DestroySurface(ctx, s)
	if err := d.PresentSurface(ctx, s); !errors.Is(err, ErrNotWidgetSurface) {
		t.Errorf("PresentSurface(generic) error = %v, want ErrNotWidgetSurface", err)
	}
}

func TestSurfaceTextureRoundTrip(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)

	s, err := d.CreateSurface(ctx, surface.AccessGPUOnly, surface.GenericTarget(texbridge.Sz(16, 16)))
	if err != nil {
		t.Fatal(err)
	}

	st, err := d.CreateSurfaceTexture(ctx, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture error = %v", err)
	}
	if st.(*SurfaceTexture).View() == nil {
		t.Error("surface texture has no view")
	}
	if st.SurfaceID() != s.SurfaceID() {
		t.Errorf("SurfaceID = %d, want %d", st.SurfaceID(), s.SurfaceID())
	}

	if _, err := d.CreateSurfaceTexture(ctx, s); !errors.Is(err, ErrSurfaceImported) {
		t.Errorf("second import error = %v, want ErrSurfaceImported", err)
	}
	if err := d.BindSurfaceToContext(ctx, s); !errors.Is(err, ErrSurfaceImported) {
		t.Errorf("Bind(imported) error = %v, want ErrSurfaceImported", err)
	}
	if err := d.DestroySurface(ctx, s); !errors.Is(err, ErrSurfaceImported) {
		t.Errorf("DestroySurface(imported) error = %v, want ErrSurfaceImported", err)
	}

	back, err := d.DestroySurfaceTexture(ctx, st)
	if err != nil {
		t.Fatalf("DestroySurfaceTexture error = %v", err)
	}
	if back != s {
		t.Error("DestroySurfaceTexture returned a different surface")
	}
	if err := d.DestroySurface(ctx, back); err != nil {
		t.Errorf("DestroySurface error = %v", err)
	}
}

func TestMakeCurrentAndProvider(t *testing.T) {
	d := openDevice(t)
	p := d.Provider()

	if p.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() before MakeCurrent = %v, want undefined", p.SurfaceFormat())
	}

	ctx := newContext(t, d, surface.ContextAttributes{Flags: surface.ContextAlpha})
	if err := d.MakeContextCurrent(ctx); err != nil {
		t.Fatal(err)
	}
	if d.Current() != ctx {
		t.Error("Current() is not the context made current")
	}
	if p.SurfaceFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", p.SurfaceFormat())
	}
	if p.Device() == nil || p.Queue() == nil || p.Adapter() == nil {
		t.Error("provider returned nil device, queue or adapter")
	}
	info := p.AdapterInfo()
	if info.Name == "" {
		t.Error("AdapterInfo().Name is empty")
	}

	if err := d.DestroyContext(ctx); err != nil {
		t.Fatal(err)
	}
	if d.Current() != nil {
		t.Error("Current() survives DestroyContext")
	}
	if p.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() after destroy = %v, want undefined", p.SurfaceFormat())
	}
}

func TestProcAddress(t *testing.T) {
	d := openDevice(t)
	ctx := newContext(t, d, surface.ContextAttributes{})
	defer d.DestroyContext(ctx)
	if got := d.ProcAddress(ctx, "glClear"); got != 0 {
		t.Errorf("ProcAddress = %#x, want 0", got)
	}
}

func TestDeviceDestroyTwice(t *testing.T) {
	conn := openNoop(t)
	sd, err := conn.CreateDevice(nil)
	if err != nil {
		t.Fatal(err)
	}
	d := sd.(*Device)
	d.Destroy()
	d.Destroy()
	if dev, q := d.HAL(); dev != nil || q != nil {
		t.Error("HAL() returns resources after Destroy")
	}
}

func TestRegistered(t *testing.T) {
	e, ok := surface.Get(BackendName)
	if !ok {
		t.Fatalf("%q not registered", BackendName)
	}
	if e.Priority != 100 {
		t.Errorf("priority = %d, want 100", e.Priority)
	}
	if !e.Available() {
		t.Error("backend unavailable with noop linked in")
	}

	conn, err := surface.OpenConnectionByName(BackendName)
	if err != nil {
		t.Fatalf("OpenConnectionByName error = %v", err)
	}
	hc, ok := conn.(*Connection)
	if !ok {
		t.Fatalf("connection is %T, want *halgpu.Connection", conn)
	}
	hc.Destroy()
}
