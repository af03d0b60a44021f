// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package halgpu implements the surface platform capability on top of the
// gogpu/wgpu hardware abstraction layer.
//
// Off-screen (generic) surfaces are render-target textures; surface
// textures are sampling views onto them. Widget surfaces are configured
// hal surfaces created from a native window and presented through the
// device queue.
//
// Importing the package registers the "wgpu" backend with the surface
// registry. A hal backend must be registered too, for example:
//
//	import (
//	    _ "github.com/gogpu/texbridge/platform/halgpu"
//	    _ "github.com/gogpu/wgpu/hal/vulkan"
//	)
//
// WebGPU has no notion of a current context or driver symbol table, so
// MakeContextCurrent only validates its argument and ProcAddress
// always returns 0.
package halgpu
