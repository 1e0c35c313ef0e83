// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// Default entry point names.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// FragmentInput is what a CPU fragment sees for one pixel.
type FragmentInput struct {
	// X and Y are integer pixel coordinates.
	X, Y int

	// UV is the normalized pixel center, ((x+0.5)/W, (y+0.5)/H).
	UV [2]float64

	// Params holds the slot values bound for the pass.
	Params bake.Binding
}

// FragmentFunc is a CPU implementation of a shader's fragment stage.
type FragmentFunc func(in FragmentInput) metatex.RGBA

// Option configures Compile.
type Option func(*options)

type options struct {
	vertexEntry   string
	fragmentEntry string
	fragment      FragmentFunc
}

func defaultOptions() options {
	return options{
		vertexEntry:   DefaultVertexEntry,
		fragmentEntry: DefaultFragmentEntry,
	}
}

// WithFragment attaches a CPU fragment used by the software backend.
func WithFragment(fn FragmentFunc) Option {
	return func(o *options) {
		o.fragment = fn
	}
}

// WithEntryPoints overrides the vertex and fragment entry point names.
// Empty names keep the defaults.
func WithEntryPoints(vertex, fragment string) Option {
	return func(o *options) {
		if vertex != "" {
			o.vertexEntry = vertex
		}
		if fragment != "" {
			o.fragmentEntry = fragment
		}
	}
}
