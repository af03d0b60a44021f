// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
	"github.com/gogpu/texbridge/internal/shadercache"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/external_image.wgsl
var externalImageShaderSource string

// Entry points of the sampling shader.
const (
	SamplingVertexEntry   = "vs_main"
	SamplingFragmentEntry = "fs_main"
)

// SamplingUniformSize is the size in bytes of the sampling shader's
// uniform block.
const SamplingUniformSize = 16

// shaderCacheLimit bounds the compiled modules kept for the process.
const shaderCacheLimit = 16

var shaders = shadercache.New(naga.Compile, shaderCacheLimit)

// compileSPIRV compiles WGSL source to SPIR-V words. Results are shared
// by every device in the process.
func compileSPIRV(source string) ([]uint32, error) {
	words, err := shaders.Words(source)
	if err != nil {
		return nil, fmt.Errorf("halgpu: compile shader: %w", err)
	}
	return words, nil
}

// SamplingModule returns the shader module that draws external images,
// compiling it on first use. The module is destroyed with the context.
func (c *Context) SamplingModule() (hal.ShaderModule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sampling != nil {
		return c.sampling, nil
	}
	if c.device.device == nil {
		return nil, ErrUnknownContext
	}

	words, err := compileSPIRV(externalImageShaderSource)
	if err != nil {
		return nil, err
	}
	module, err := c.device.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "texbridge-external-image",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create shader module: %w", err)
	}
	c.sampling = module
	texbridge.Logger().Debug("halgpu: sampling shader compiled", "context", c.id, "words", len(words))
	return module, nil
}

// SamplingUniform packs the uniform block of the sampling shader for an
// image locked with rect whose texture has the given size.
func SamplingUniform(rect extimage.TexelRect, size texbridge.Size) []byte {
	n := rect.Normalized(size)
	values := [4]float32{n.U0, n.V0, n.Width(), n.Height()}

	buf := make([]byte, SamplingUniformSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
