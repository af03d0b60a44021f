// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"github.com/gogpu/texbridge/surface"
	"github.com/gogpu/wgpu/hal"
)

// BackendName is the name the platform registers with the surface registry.
const BackendName = "wgpu"

func init() {
	surface.Register(BackendName, 100, func() (surface.Connection, error) {
		conn, err := OpenBest()
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, func() bool {
		return len(hal.AvailableBackends()) > 0
	})
}
