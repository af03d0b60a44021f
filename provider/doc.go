// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package provider contains the bundled external image providers.
//
// [Canvas] serves 3D-canvas images: CPU-drawn RGBA buffers uploaded to GPU
// textures on demand. [Media] serves decoded video frames pushed by a
// decoder as ready-made textures.
//
// Both implement extimage.Provider and never change an image's content
// while the renderer holds it locked.
//
// # Usage
//
//	dispatcher, registry := extimage.NewDispatcher()
//
//	canvas, err := provider.NewCanvas(device.TextureCreator())
//	if err != nil {
//	    return err
//	}
//	dispatcher.SetProvider(extimage.KindCanvas, canvas)
//
//	id, err := canvas.Allocate(registry, 256, 256)
//	err = canvas.Draw(id.Uint64(), func(img *image.RGBA) {
//	    draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
//	})
package provider
