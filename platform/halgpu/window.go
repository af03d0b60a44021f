// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import "github.com/gogpu/texbridge"

// Window identifies a native window for widget surfaces.
//
// Display and Handle are passed to hal.Instance.CreateSurface unchanged:
// HINSTANCE and HWND on Windows, the CAMetalLayer on macOS, the
// display and window on X11 or Wayland.
type Window struct {
	Display uintptr
	Handle  uintptr

	// Size is the drawable size in pixels.
	Size texbridge.Size
}
