// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
)

func frame(handle uintptr, w, h int) *mockTexture {
	return &mockTexture{handle: handle, width: w, height: h}
}

func TestMediaNoFrame(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })

	if err := m.Attach(3); err != nil {
		t.Fatal(err)
	}
	handle, size := m.Lock(3)
	m.Unlock(3)
	if handle != 0 || !size.Empty() {
		t.Errorf("Lock without frame = %#x, %v, want zero", handle, size)
	}
}

func TestMediaPushFrame(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Attach(1)

	f1 := frame(0xA1, 1920, 1080)
	if err := m.PushFrame(1, f1); err != nil {
		t.Fatalf("PushFrame error = %v", err)
	}
	handle, size := m.Lock(1)
	m.Unlock(1)
	if handle != 0xA1 || size != texbridge.Sz(1920, 1080) {
		t.Errorf("Lock = %#x, %v, want 0xa1, 1920x1080", handle, size)
	}

	f2 := frame(0xA2, 1920, 1080)
	_ = m.PushFrame(1, f2)
	if !f1.isDestroyed() {
		t.Error("replaced frame not destroyed")
	}

	if err := m.PushFrame(9, frame(1, 1, 1)); !errors.Is(err, ErrUnknownImage) {
		t.Errorf("PushFrame(unattached) error = %v, want ErrUnknownImage", err)
	}
	if err := m.PushFrame(1, nil); err == nil {
		t.Error("PushFrame(nil) succeeded")
	}
}

func TestMediaFrameStableWhileLocked(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Attach(1)

	f1, f2, f3 := frame(1, 2, 2), frame(2, 2, 2), frame(3, 4, 4)
	_ = m.PushFrame(1, f1)

	handle, _ := m.Lock(1)
	if handle != 1 {
		t.Fatalf("Lock = %#x, want 1", handle)
	}

	// Frames arriving mid-sample are parked; the latest wins.
	_ = m.PushFrame(1, f2)
	_ = m.PushFrame(1, f3)
	if f1.isDestroyed() {
		t.Error("locked frame destroyed")
	}
	if !f2.isDestroyed() {
		t.Error("overtaken pending frame not destroyed")
	}

	m.Unlock(1)
	if !f1.isDestroyed() {
		t.Error("previous frame not destroyed after swap at Unlock")
	}

	handle, size := m.Lock(1)
	m.Unlock(1)
	if handle != 3 || size != texbridge.Sz(4, 4) {
		t.Errorf("Lock after swap = %#x, %v, want 3, 4x4", handle, size)
	}
}

func TestMediaPairing(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Attach(1)

	m.Lock(1)
	mustPanic(t, "double Lock", func() { m.Lock(1) })
	m.Unlock(1)
	mustPanic(t, "stray Unlock", func() { m.Unlock(1) })
}

func TestMediaDetach(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Attach(1)
	_ = m.Attach(1) // no-op
	f := frame(1, 1, 1)
	_ = m.PushFrame(1, f)

	m.Lock(1)
	m.Detach(1)
	if f.isDestroyed() {
		t.Error("frame destroyed while locked")
	}
	if err := m.PushFrame(1, frame(2, 1, 1)); !errors.Is(err, ErrUnknownImage) {
		t.Errorf("PushFrame after Detach error = %v, want ErrUnknownImage", err)
	}
	m.Unlock(1)
	if !f.isDestroyed() {
		t.Error("frame not destroyed at Unlock after Detach")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMediaClose(t *testing.T) {
	m := NewMedia()
	_ = m.Attach(1)
	f := frame(1, 1, 1)
	_ = m.PushFrame(1, f)

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !f.isDestroyed() {
		t.Error("frame not destroyed on Close")
	}
	if err := m.Attach(2); !errors.Is(err, ErrClosed) {
		t.Errorf("Attach after Close error = %v, want ErrClosed", err)
	}
	if err := m.PushFrame(1, frame(2, 1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("PushFrame after Close error = %v, want ErrClosed", err)
	}
}

func TestMediaThroughDispatcher(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	d, r := extimage.NewDispatcher()
	d.SetProvider(extimage.KindMedia, m)

	id, err := m.Allocate(r)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.PushFrame(id.Uint64(), frame(0xF0, 640, 360))

	desc := d.Lock(id, 0, extimage.RenderingAuto)
	d.Unlock(id, 0)
	want := extimage.TexelRect{U0: 0, V0: 0, U1: 640, V1: 360}
	if desc.UV != want {
		t.Errorf("UV = %+v, want %+v", desc.UV, want)
	}
	if desc.Source != 0xF0 {
		t.Errorf("Source = %#x, want 0xf0", desc.Source)
	}
}

// TestMediaDecoderNeverBlocks pushes frames from a decoder goroutine while
// the renderer locks and unlocks.
func TestMediaDecoderNeverBlocks(t *testing.T) {
	m := NewMedia()
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Attach(1)
	_ = m.PushFrame(1, frame(1, 8, 8))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := m.PushFrame(1, frame(uintptr(i+2), 8, 8)); err != nil {
				t.Errorf("PushFrame error = %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, size := m.Lock(1)
			if size != texbridge.Sz(8, 8) {
				t.Errorf("size = %v, want 8x8", size)
			}
			m.Unlock(1)
		}
	}()
	wg.Wait()
}
