// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "github.com/gogpu/texbridge/surface"

// BackendName is the registry name of the software platform.
const BackendName = "software"

func init() {
	surface.Register(BackendName, 10, func() (surface.Connection, error) {
		return Open(), nil
	}, func() bool { return true })
}
