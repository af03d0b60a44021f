// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
)

// Connection is the software platform. It has a single adapter.
type Connection struct{}

// Open returns a software connection. It never fails.
func Open() *Connection {
	return &Connection{}
}

// CreateAdapter returns the CPU adapter.
func (c *Connection) CreateAdapter() (surface.Adapter, error) {
	return &Adapter{Name: "software"}, nil
}

// CreateDevice opens a device. A nil adapter selects the CPU adapter.
func (c *Connection) CreateDevice(adapter surface.Adapter) (surface.Device, error) {
	if adapter == nil {
		adapter, _ = c.CreateAdapter()
	}
	a, ok := adapter.(*Adapter)
	if !ok {
		return nil, fmt.Errorf("software: adapter %T is not a *software.Adapter", adapter)
	}
	texbridge.Logger().Info("software: device opened", "adapter", a.Name)
	return newDevice(c, a), nil
}

// Adapter describes the CPU adapter.
type Adapter struct {
	Name string
}

var _ surface.Connection = (*Connection)(nil)
