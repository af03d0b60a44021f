// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
	"github.com/gogpu/wgpu/hal"
)

// preferredBackends is the order OpenBest tries hal backends in.
// BackendEmpty (the noop backend) comes last.
var preferredBackends = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// Connection is a hal instance. It implements surface.Connection.
type Connection struct {
	variant  gputypes.Backend
	instance hal.Instance
}

// Open creates an instance on the hal backend registered for variant.
func Open(variant gputypes.Backend) (*Connection, error) {
	backend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, &BackendNotRegisteredError{Variant: variant}
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create %s instance: %w", variant, err)
	}
	texbridge.Logger().Info("halgpu: instance created", "backend", variant)
	return &Connection{variant: variant, instance: instance}, nil
}

// OpenBest opens the most capable registered hal backend.
func OpenBest() (*Connection, error) {
	var lastErr error
	for _, variant := range preferredBackends {
		if _, ok := hal.GetBackend(variant); !ok {
			continue
		}
		conn, err := Open(variant)
		if err == nil {
			return conn, nil
		}
		texbridge.Logger().Warn("halgpu: backend failed", "backend", variant, "err", err)
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &BackendNotRegisteredError{Variant: gputypes.BackendEmpty}
}

// Variant returns the hal backend of the connection.
func (c *Connection) Variant() gputypes.Backend {
	return c.variant
}

// Instance returns the underlying hal instance.
func (c *Connection) Instance() hal.Instance {
	return c.instance
}

// CreateAdapter picks an adapter: discrete GPUs first, then integrated
// GPUs, then whatever the instance lists first.
func (c *Connection) CreateAdapter() (surface.Adapter, error) {
	exposed := c.instance.EnumerateAdapters(nil)
	if len(exposed) == 0 {
		return nil, ErrNoAdapter
	}

	best := 0
	for i, e := range exposed {
		if adapterRank(e.Info.DeviceType) > adapterRank(exposed[best].Info.DeviceType) {
			best = i
		}
	}

	a := &Adapter{exposed: exposed[best]}
	texbridge.Logger().Info("halgpu: adapter selected",
		"name", a.exposed.Info.Name, "type", a.exposed.Info.DeviceType, "backend", a.exposed.Info.Backend)
	return a, nil
}

// CreateDevice opens a device on adapter. A nil adapter selects one with
// CreateAdapter.
func (c *Connection) CreateDevice(adapter surface.Adapter) (surface.Device, error) {
	if adapter == nil {
		var err error
		if adapter, err = c.CreateAdapter(); err != nil {
			return nil, err
		}
	}
	a, ok := adapter.(*Adapter)
	if !ok {
		return nil, fmt.Errorf("halgpu: adapter %T is not a *halgpu.Adapter", adapter)
	}

	open, err := a.exposed.Adapter.Open(a.exposed.Features, a.exposed.Capabilities.Limits)
	if err != nil {
		return nil, fmt.Errorf("halgpu: open device: %w", err)
	}
	return newDevice(c, a, open), nil
}

// Destroy releases the instance. Every device opened from it must be
// destroyed first.
func (c *Connection) Destroy() {
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}

func adapterRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 3
	case gputypes.DeviceTypeIntegratedGPU:
		return 2
	case gputypes.DeviceTypeVirtualGPU:
		return 1
	default:
		return 0
	}
}

// Adapter is a hal adapter with its reported capabilities.
type Adapter struct {
	exposed hal.ExposedAdapter
}

// Info returns the adapter's metadata.
func (a *Adapter) Info() gputypes.AdapterInfo {
	return a.exposed.Info
}

// Limits returns the adapter's supported limits.
func (a *Adapter) Limits() gputypes.Limits {
	return a.exposed.Capabilities.Limits
}

// Verify Connection implements surface.Connection.
var _ surface.Connection = (*Connection)(nil)
