// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texbridge"
)

// ContextID identifies a context within its device.
type ContextID uint64

// SurfaceID identifies a surface within its device.
type SurfaceID uint64

// Access describes which processors may touch a surface's memory.
type Access uint8

const (
	// AccessGPUOnly surfaces live in GPU memory only.
	AccessGPUOnly Access = iota

	// AccessGPUCPU surfaces can also be mapped for CPU reads and writes.
	AccessGPUCPU

	// AccessGPUCPUWriteCombined surfaces can be mapped for fast CPU writes.
	AccessGPUCPUWriteCombined
)

func (a Access) String() string {
	switch a {
	case AccessGPUOnly:
		return "GPUOnly"
	case AccessGPUCPU:
		return "GPUCPU"
	case AccessGPUCPUWriteCombined:
		return "GPUCPUWriteCombined"
	default:
		return "Unknown"
	}
}

// CPUVisible reports whether the CPU may map surfaces with this access.
func (a Access) CPUVisible() bool {
	return a == AccessGPUCPU || a == AccessGPUCPUWriteCombined
}

// TargetKind distinguishes on-screen from off-screen targets.
type TargetKind uint8

const (
	// TargetGeneric is an off-screen target of a given size.
	TargetGeneric TargetKind = iota

	// TargetWidget is bound to a native window.
	TargetWidget
)

// Target describes what a surface renders into.
type Target struct {
	Kind TargetKind

	// Widget is the native window for TargetWidget.
	Widget NativeWidget

	// Size is the surface size for TargetGeneric. Widget targets take
	// their size from the window.
	Size texbridge.Size
}

// WidgetTarget returns a target presenting to w.
func WidgetTarget(w NativeWidget) Target {
	return Target{Kind: TargetWidget, Widget: w}
}

// GenericTarget returns an off-screen target of the given size.
func GenericTarget(size texbridge.Size) Target {
	return Target{Kind: TargetGeneric, Size: size}
}

// IsWidget reports whether the target is bound to a native window.
func (t Target) IsWidget() bool {
	return t.Kind == TargetWidget
}

// ContextAttributeFlags request optional context features.
type ContextAttributeFlags uint8

const (
	// ContextAlpha requests an alpha channel in the default surface format.
	ContextAlpha ContextAttributeFlags = 1 << iota

	// ContextDepth requests a depth buffer.
	ContextDepth

	// ContextStencil requests a stencil buffer.
	ContextStencil

	// ContextCompatibility requests a legacy compatibility profile.
	ContextCompatibility
)

// Contains reports whether all flags in f are set.
func (c ContextAttributeFlags) Contains(f ContextAttributeFlags) bool {
	return c&f == f
}

// APIVersion is a major.minor API version requested for a context.
type APIVersion struct {
	Major uint8
	Minor uint8
}

// ContextAttributes are the caller's requirements for a context.
type ContextAttributes struct {
	Version APIVersion
	Flags   ContextAttributeFlags
}

// ContextDescriptor is a device-validated form of ContextAttributes.
type ContextDescriptor struct {
	Attributes ContextAttributes

	// Format is the color format of surfaces created for the context.
	Format gputypes.TextureFormat
}

// Info describes a surface.
type Info struct {
	ID        SurfaceID
	ContextID ContextID
	Size      texbridge.Size
	Format    gputypes.TextureFormat

	// Framebuffer is the native render target object, if the platform
	// has one. Zero otherwise.
	Framebuffer uintptr
}
