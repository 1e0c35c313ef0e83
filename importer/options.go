// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	backend  bake.Backend
	workers  int
	fallback metatex.RGBA
}

func defaultOptions() options {
	return options{fallback: FallbackColor}
}

// WithBackend sets the backend used by the program kinds. Without a backend
// program kinds fail with metatex.ErrBackendRender.
func WithBackend(b bake.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithWorkers sets the number of goroutines used for block compression.
// Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithFallbackColor replaces the color used when a program is missing.
func WithFallbackColor(c metatex.RGBA) Option {
	return func(o *options) {
		o.fallback = c
	}
}
