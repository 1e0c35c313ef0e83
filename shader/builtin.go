// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// BlendSource is a WGSL program that blends _Color into _Color2 across the
// horizontal axis, scaled by _Scale.x. It draws a full-screen triangle from
// the vertex index and needs no vertex buffers.
const BlendSource = `
struct Params {
    color: vec4<f32>,
    color2: vec4<f32>,
    dimensions: vec4<f32>,
    scale: vec2<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    let x = f32((index << 1u) & 2u);
    let y = f32(index & 2u);
    var out: VertexOutput;
    out.position = vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    out.uv = vec2<f32>(x, y);
    return out;
}

@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    let t = clamp(input.uv.x * params.scale.x, 0.0, 1.0);
    return mix(params.color, params.color2, t);
}
`

// BlendFragment is the CPU equivalent of BlendSource's fragment stage.
func BlendFragment(in FragmentInput) metatex.RGBA {
	c1 := in.Params.Vec4(bake.ParamColor)
	c2 := in.Params.Vec4(bake.ParamColor2)
	t := in.UV[0] * in.Params.Vec4(bake.ParamScale)[0]
	t = min(max(t, 0), 1)
	return metatex.RGBA{
		R: c1[0] + (c2[0]-c1[0])*t,
		G: c1[1] + (c2[1]-c1[1])*t,
		B: c1[2] + (c2[2]-c1[2])*t,
		A: c1[3] + (c2[3]-c1[3])*t,
	}
}

// Blend compiles the built-in blend program with its CPU fragment.
func Blend() (*Shader, error) {
	return Compile("blend", BlendSource, WithFragment(BlendFragment))
}
