// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface manages the device, context and surface triad behind a
// render target.
//
// A platform backend implements the capability interfaces ([Connection],
// [Device] and friends). [Manager] drives them: it opens a device, creates
// a context, binds a surface and keeps that arrangement valid across
// presents and resizes until it is destroyed.
//
// # Targets
//
//   - Widget targets present straight to a native window.
//   - Generic targets are off-screen. The manager attaches a [SwapChain]
//     whose front buffers a compositor can take and import as textures.
//
// # Registry
//
// Platform packages register themselves from init:
//
//	func init() {
//	    surface.Register("wgpu", 100, open, available)
//	}
//
//	// Later:
//	conn, err := surface.OpenConnection()
//
// # Usage
//
//	conn, err := surface.OpenConnectionByName("software")
//	if err != nil {
//	    return err
//	}
//	m, err := surface.NewManager(conn, nil, surface.ContextAttributes{},
//	    surface.GenericTarget(texbridge.Sz(256, 256)))
//	if err != nil {
//	    return err
//	}
//	defer m.Destroy()
//
//	// render, then
//	if err := m.Present(); err != nil {
//	    return err
//	}
//	sc, _ := m.SwapChain()
//	frame := sc.TakeSurface()
//	st, err := m.CreateSurfaceTexture(frame)
//
// # Ownership
//
// A surface belongs to whoever holds it between calls. Device methods that
// take a surface leave it with the caller when they fail; the manager
// reports that through [*TextureImportError] and [*TextureExportError].
package surface
