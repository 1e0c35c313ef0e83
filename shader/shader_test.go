// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"testing"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

const colorOnlySource = `
@group(0) @binding(1) var<uniform> _Color: vec4<f32>;

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    let x = f32((index << 1u) & 2u);
    let y = f32(index & 2u);
    return vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return _Color;
}
`

const noSlotSource = `
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    let x = f32((index << 1u) & 2u);
    let y = f32(index & 2u);
    return vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 1.0, 0.0, 1.0);
}
`

func TestCanonicalSlot(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"_Color", bake.ParamColor, true},
		{"color", bake.ParamColor, true},
		{"COLOR2", bake.ParamColor2, true},
		{"__dimensions", bake.ParamDimensions, true},
		{"Scale", bake.ParamScale, true},
		{"_Tint", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalSlot(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CanonicalSlot(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCompileBlendLayout(t *testing.T) {
	s, err := Blend()
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	layout := s.Layout()
	if len(layout.Buffers) != 1 {
		t.Fatalf("buffers = %d, want 1", len(layout.Buffers))
	}
	buf := layout.Buffers[0]
	if buf.Name != "params" || buf.Group != 0 || buf.Binding != 0 {
		t.Errorf("buffer = %s @group(%d) @binding(%d)", buf.Name, buf.Group, buf.Binding)
	}
	if buf.Size < 56 {
		t.Errorf("buffer size = %d, want at least 56", buf.Size)
	}

	want := []Field{
		{Slot: bake.ParamColor, Declared: "color", Offset: 0, Components: 4},
		{Slot: bake.ParamColor2, Declared: "color2", Offset: 16, Components: 4},
		{Slot: bake.ParamDimensions, Declared: "dimensions", Offset: 32, Components: 4},
		{Slot: bake.ParamScale, Declared: "scale", Offset: 48, Components: 2},
	}
	if len(buf.Fields) != len(want) {
		t.Fatalf("fields = %+v", buf.Fields)
	}
	for i, f := range buf.Fields {
		if f != want[i] {
			t.Errorf("field %d = %+v, want %+v", i, f, want[i])
		}
	}

	vs, fs := s.EntryPoints()
	if vs != DefaultVertexEntry || fs != DefaultFragmentEntry {
		t.Errorf("entry points = %s, %s", vs, fs)
	}
	if s.Fragment() == nil {
		t.Error("Blend has no CPU fragment")
	}
}

func TestCompileStandaloneUniform(t *testing.T) {
	s, err := Compile("color-only", colorOnlySource)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	layout := s.Layout()
	if len(layout.Buffers) != 1 {
		t.Fatalf("buffers = %+v", layout.Buffers)
	}
	buf := layout.Buffers[0]
	if buf.Binding != 1 || buf.Size != 16 {
		t.Errorf("buffer binding=%d size=%d, want 1 and 16", buf.Binding, buf.Size)
	}
	if got := layout.Slots(); len(got) != 1 || got[0] != bake.ParamColor {
		t.Errorf("Slots() = %v", got)
	}
	if s.Fragment() != nil {
		t.Error("unexpected CPU fragment")
	}
}

func TestCompileNoSlots(t *testing.T) {
	s, err := Compile("green", noSlotSource)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := s.NewMaterial("")
	for _, slot := range slotNames {
		if m.HasParam(slot) {
			t.Errorf("HasParam(%s) = true", slot)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts []Option
	}{
		{"syntax", "fn broken( {", nil},
		{"missing fragment", `
@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`, nil},
		{"renamed entry points", noSlotSource, []Option{WithEntryPoints("main_vs", "")}},
		{"integer slot", `
@group(0) @binding(0) var<uniform> color: vec4<u32>;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(color);
}
`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.name, tt.src, tt.opts...)
			if !errors.Is(err, metatex.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestMaterialParams(t *testing.T) {
	s, err := Compile("color-only", colorOnlySource)
	if err != nil {
		t.Fatal(err)
	}
	m := s.NewMaterial("persistent")

	if m.Label() != "persistent" {
		t.Errorf("Label() = %q", m.Label())
	}
	if !m.HasParam(bake.ParamColor) || !m.HasParam("color") {
		t.Error("declared slot not reported")
	}
	if m.HasParam(bake.ParamColor2) {
		t.Error("undeclared slot reported")
	}

	m.SetParam("COLOR", bake.ColorValue(metatex.Red))
	m.SetParam(bake.ParamColor2, bake.ColorValue(metatex.Blue))

	v, ok := m.Param(bake.ParamColor)
	if !ok || v.Color() != metatex.Red {
		t.Errorf("Param(_Color) = %+v, %v", v, ok)
	}
	if _, ok := m.Param(bake.ParamColor2); ok {
		t.Error("undeclared slot stored")
	}

	m.Release()
	if !m.Released() || m.HasParam(bake.ParamColor) {
		t.Error("released material still declares slots")
	}
	if _, ok := m.Param(bake.ParamColor); ok {
		t.Error("released material still holds values")
	}
}

func TestInstantiateIsIndependent(t *testing.T) {
	s, err := Blend()
	if err != nil {
		t.Fatal(err)
	}
	p1, err := s.Instantiate()
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := s.Instantiate()

	p1.SetParam(bake.ParamColor, bake.ColorValue(metatex.Red))
	if _, ok := p2.(*Material).Param(bake.ParamColor); ok {
		t.Error("instances share values")
	}
	p1.(bake.Releaser).Release()
	if !p2.HasParam(bake.ParamColor) {
		t.Error("releasing one instance affected another")
	}
}

func TestBlendFragment(t *testing.T) {
	s, err := Blend()
	if err != nil {
		t.Fatal(err)
	}
	prog := s.NewMaterial("")
	b := bake.NewBinding(prog, bake.Parameters{Color: metatex.Black, Color2: metatex.White}, 4, 4)

	tests := []struct {
		u    float64
		want float64
	}{
		{0, 0}, {0.25, 0.25}, {1, 1}, {2, 1},
	}
	for _, tt := range tests {
		got := BlendFragment(FragmentInput{UV: [2]float64{tt.u, 0.5}, Params: b})
		if got.R != tt.want || got.A != 1 {
			t.Errorf("u=%v: %v, want gray %v", tt.u, got, tt.want)
		}
	}
}
