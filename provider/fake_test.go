// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
)

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	mu        sync.Mutex
	handle    uintptr
	width     int
	height    int
	data      []byte
	destroyed bool
	updated   int
	failNext  error
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) NativeHandle() uintptr { return m.handle }

func (m *mockTexture) UpdateData(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy() {
	m.mu.Lock()
	m.destroyed = true
	m.mu.Unlock()
}

func (m *mockTexture) isDestroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// mockCreator implements gpucontext.TextureCreator for testing.
type mockCreator struct {
	mu       sync.Mutex
	next     uintptr
	created  []*mockTexture
	failNext error
}

var errCreate = errors.New("mock: texture creation failed")

func (c *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext != nil {
		err := c.failNext
		c.failNext = nil
		return nil, err
	}
	c.next++
	tex := &mockTexture{
		handle: 0x100 + c.next,
		width:  width,
		height: height,
		data:   append([]byte(nil), data...),
	}
	c.created = append(c.created, tex)
	return tex, nil
}

func (c *mockCreator) last() *mockTexture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.created) == 0 {
		return nil
	}
	return c.created[len(c.created)-1]
}

func (c *mockCreator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created)
}

// creatorFunc adapts a function to gpucontext.TextureCreator.
type creatorFunc func(width, height int, data []byte) (gpucontext.Texture, error)

func (f creatorFunc) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	return f(width, height, data)
}

// plainTexture has no native handle, update or destroy support.
type plainTexture struct{ w, h int }

func (p plainTexture) Width() int  { return p.w }
func (p plainTexture) Height() int { return p.h }

func mustPanic(t interface {
	Helper()
	Fatal(...any)
}, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal(name + " did not panic")
		}
	}()
	fn()
}
