// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package bake renders a parametrized shading program into an offscreen
// target and reads the result back as a metatex.Pixmap.
//
// The package does not draw anything itself. Rendering goes through the
// Backend capability interface, implemented by backend/software (CPU) and
// backend/gpu (wgpu HAL devices).
//
// # Parameter slots
//
// A program may declare any of four well-known slots. The adapter binds only
// the slots a program declares:
//
//	_Color       primary color        (vec4)
//	_Color2      secondary color      (vec4)
//	_Dimensions  (width, height, 0, 0) (vec4)
//	_Scale       (1, 1)               (vec2, fixed)
//
// # Target lifetime
//
// Every bake acquires its own RGBA32F target and releases it before Bake
// returns, whether rendering succeeded, failed or panicked.
package bake
