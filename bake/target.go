// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bake

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/metatex"
)

// TargetFormat is the pixel format of every bake target.
const TargetFormat = gputypes.TextureFormatRGBA32Float

// TargetUsage is the usage of every bake target: it is rendered into and
// then copied out for readback.
const TargetUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc

// TargetDescriptor describes an offscreen render target.
type TargetDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the exact target size in pixels.
	Width  int
	Height int

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the target will be used.
	Usage gputypes.TextureUsage

	// DepthBits is the depth buffer precision. Bakes never use depth.
	DepthBits int
}

// Target is an offscreen render target owned by a single bake.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// ReadPixels copies the target contents into a new pixmap.
	ReadPixels() (*metatex.Pixmap, error)

	// Release frees the target. It is safe to call more than once.
	Release()
}

// Backend is the rendering capability a bake needs.
type Backend interface {
	// AcquireTarget allocates an offscreen target. On failure the backend
	// may still return a partially initialized target, which the caller
	// releases.
	AcquireTarget(desc TargetDescriptor) (Target, error)

	// RenderPass runs pass number pass of prog into target with the given
	// slot values.
	RenderPass(target Target, prog Program, binding Binding, pass int) error
}
