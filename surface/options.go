// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// Option configures a Manager during creation.
//
// Example:
//
//	m, err := surface.NewManager(conn, nil, attrs, surface.GenericTarget(size),
//	    surface.WithRecycleLimit(4))
type Option func(*options)

// options holds optional configuration for Manager creation.
type options struct {
	provider      SurfaceProvider
	recycleLimit  int
	initialAccess Access
}

// defaultOptions returns the default manager options.
func defaultOptions() options {
	return options{
		provider:      nil, // AccessProvider with initialAccess if nil
		recycleLimit:  defaultRecycleLimit,
		initialAccess: AccessGPUOnly,
	}
}

// WithSurfaceProvider sets the provider the swap chain allocates back
// buffers from. It has no effect for widget targets.
func WithSurfaceProvider(p SurfaceProvider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithRecycleLimit sets how many spare buffers the swap chain keeps.
// Negative values are treated as zero.
func WithRecycleLimit(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.recycleLimit = n
	}
}

// WithInitialAccess sets the access mode of the first surface. Unless a
// provider is supplied, swap chain buffers use the same access mode.
//
// Example:
//
//	// CPU-readable frames for screenshots
//	m, err := surface.NewManager(conn, nil, attrs, target,
//	    surface.WithInitialAccess(surface.AccessGPUCPU))
func WithInitialAccess(a Access) Option {
	return func(o *options) {
		o.initialAccess = a
	}
}
