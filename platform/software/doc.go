// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements the surface platform capability on the CPU.
//
// Surfaces are *image.RGBA buffers. A widget surface presents into the
// frame of a [Window]; when the window has been resized since the surface
// was created, presentation scales the surface to fit.
//
// Importing the package registers the "software" backend with the surface
// registry at a lower priority than GPU backends, so it is picked only
// when nothing better is available:
//
//	import _ "github.com/gogpu/texbridge/platform/software"
//
// The device also hands out a [gpucontext.TextureCreator] whose textures
// live in host memory, which lets image providers run without a GPU.
package software
