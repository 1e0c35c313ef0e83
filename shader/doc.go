// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader provides WGSL shading programs for baking.
//
// A Shader is a compiled, reflected WGSL module. It is a bake.Template:
// Instantiate creates an ephemeral Material for a single bake. Callers that
// keep a Material across bakes create it with NewMaterial and own it.
//
// Compile parses and lowers the source with naga, validates the resulting
// IR and reflects which parameter slots the module declares. A slot is
// declared either as a module-scope uniform variable or as a member of a
// uniform struct:
//
//	struct Params {
//	    color: vec4<f32>,
//	    dimensions: vec4<f32>,
//	}
//	@group(0) @binding(0) var<uniform> params: Params;
//
// Slot matching ignores leading underscores and case, so "color", "Color"
// and "_Color" all declare bake.ParamColor.
//
// WGSL cannot run on the CPU. Shaders intended for the software backend
// carry a Go equivalent of their fragment stage, given with WithFragment.
package shader
