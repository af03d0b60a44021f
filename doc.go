// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texbridge connects a compositor's external image protocol to a
// platform GPU device/context/surface abstraction.
//
// # Overview
//
// A compositor-style renderer often needs to sample textures it does not
// own: frames produced by a 3D canvas, decoded video, and so on. texbridge
// lets those producers hand textures to the renderer through a lock/unlock
// handshake, and manages the GPU device, context and surfaces the renderer
// draws into.
//
// The module is organized into:
//   - extimage: image id registry and the lock/unlock dispatcher
//   - provider: ready-made producers for the canvas and media kinds
//   - surface: the surface manager, swap chain and platform interfaces
//   - platform/halgpu: platform implementation over gogpu/wgpu HAL
//   - platform/software: CPU platform implementation on image.RGBA
//
// # Composition
//
// The dispatcher and the surface manager never call each other. The
// embedding application owns both:
//
//	dispatcher, registry := extimage.NewDispatcher()
//	dispatcher.SetProvider(extimage.KindCanvas, canvas)
//
//	mgr, err := surface.NewManager(conn, adapter, attrs, surface.WidgetTarget(win))
//	if err != nil {
//	    return err
//	}
//	defer mgr.Destroy()
//
//	// Per frame:
//	desc := dispatcher.Lock(id, 0, extimage.RenderingAuto)
//	// ... sample desc.Source using desc.UV ...
//	dispatcher.Unlock(id, 0)
//	err = mgr.Present()
//
// # Logging
//
// texbridge is silent by default. See [SetLogger].
package texbridge

// Version is the current version of the library.
const Version = "0.1.0"
