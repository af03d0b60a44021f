// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// deviceProvider shares a Device with gpucontext consumers, so that other
// gogpu libraries render into the same device the surfaces live on.
type deviceProvider struct {
	device *Device
}

// Device returns the hal.Device.
func (p *deviceProvider) Device() gpucontext.Device { return p.device.device }

// Queue returns the hal.Queue.
func (p *deviceProvider) Queue() gpucontext.Queue { return p.device.queue }

// SurfaceFormat returns the format of the most recently current context,
// or TextureFormatUndefined if none was made current.
func (p *deviceProvider) SurfaceFormat() gputypes.TextureFormat {
	if c := p.device.current; c != nil {
		return c.desc.Format
	}
	return gputypes.TextureFormatUndefined
}

// Adapter returns the *Adapter the device was opened on.
func (p *deviceProvider) Adapter() gpucontext.Adapter { return p.device.adapter }

// AdapterInfo reports the adapter name and class.
func (p *deviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	info := p.device.adapter.Info()
	return gpucontext.AdapterInfo{
		Name: info.Name,
		Type: adapterType(info.DeviceType),
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// Verify deviceProvider implements gpucontext.DeviceProvider.
var _ gpucontext.DeviceProvider = (*deviceProvider)(nil)
