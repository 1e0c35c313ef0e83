// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/backend/software"
	"github.com/gogpu/metatex/bake"
	"github.com/gogpu/metatex/internal/bc"
	"github.com/gogpu/metatex/internal/mip"
	"github.com/gogpu/metatex/shader"
)

func newSoftwarePipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	b := software.New(software.WithWorkers(2))
	t.Cleanup(b.Close)
	p := New(append([]Option{WithBackend(b)}, opts...)...)
	t.Cleanup(p.Close)
	return p
}

func mustBlend(t *testing.T) *shader.Shader {
	t.Helper()
	s, err := shader.Blend()
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	return s
}

func solid(t *testing.T, w, h int, c metatex.RGBA) *metatex.Pixmap {
	t.Helper()
	pm, err := metatex.NewPixmap(w, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := metatex.FillSolid(pm, c); err != nil {
		t.Fatal(err)
	}
	return pm
}

// checkUncompressed verifies the single-level, uncompressed finalize.
func checkUncompressed(t *testing.T, art *Artifact) {
	t.Helper()
	if art.HasMipmaps || art.IsCompressed {
		t.Errorf("HasMipmaps = %v, IsCompressed = %v, want false, false", art.HasMipmaps, art.IsCompressed)
	}
	if art.Mipmaps != nil || art.Blocks != nil {
		t.Error("uncompressed artifact carries mipmaps or blocks")
	}
	if art.Levels() != 1 {
		t.Errorf("Levels() = %d, want 1", art.Levels())
	}
}

func TestDefaultDescription(t *testing.T) {
	d := DefaultDescription()
	if d.Width != 512 || d.Height != 512 {
		t.Errorf("size = %dx%d, want 512x512", d.Width, d.Height)
	}
	if d.Kind != KindCheckerboard {
		t.Errorf("Kind = %v, want Checkerboard", d.Kind)
	}
	if d.Color != metatex.White || d.Color2 != metatex.Black {
		t.Errorf("colors = %v, %v, want white, black", d.Color, d.Color2)
	}
	if d.CheckerCount != 8 {
		t.Errorf("CheckerCount = %d, want 8", d.CheckerCount)
	}
	if d.Wrap != metatex.WrapRepeat || d.Filter != metatex.FilterBilinear {
		t.Errorf("sampling = %v/%v, want Repeat/Bilinear", d.Wrap, d.Filter)
	}
	if d.Anisotropy != 1 || d.Compress {
		t.Errorf("Anisotropy = %d, Compress = %v, want 1, false", d.Anisotropy, d.Compress)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Description)
	}{
		{"zero width", func(d *Description) { d.Width = 0 }},
		{"negative height", func(d *Description) { d.Height = -1 }},
		{"unknown kind", func(d *Description) { d.Kind = Kind(42) }},
		{"checker count zero", func(d *Description) { d.CheckerCount = 0 }},
		{"unknown wrap", func(d *Description) { d.Wrap = metatex.WrapMode(9) }},
		{"unknown filter", func(d *Description) { d.Filter = metatex.FilterMode(-1) }},
		{"anisotropy too high", func(d *Description) { d.Anisotropy = 17 }},
		{"anisotropy negative", func(d *Description) { d.Anisotropy = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultDescription()
			tt.modify(&d)
			if err := d.Validate(); !errors.Is(err, metatex.ErrInvalidParameter) {
				t.Errorf("Validate() = %v, want ErrInvalidParameter", err)
			}
			if _, err := New().Import(d); !errors.Is(err, metatex.ErrInvalidParameter) {
				t.Errorf("Import() = %v, want ErrInvalidParameter", err)
			}
		})
	}

	t.Run("checker count ignored for other kinds", func(t *testing.T) {
		d := DefaultDescription()
		d.Kind = KindSolidColor
		d.CheckerCount = 0
		if err := d.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestImportCheckerboardEndToEnd(t *testing.T) {
	d := DefaultDescription()
	d.Width, d.Height = 4, 4
	d.CheckerCount = 2

	art, err := New().Import(d)
	if err != nil {
		t.Fatal(err)
	}
	if art.Width() != 4 || art.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", art.Width(), art.Height())
	}

	w, b := metatex.White, metatex.Black
	want := [4][4]metatex.RGBA{
		{w, w, b, b},
		{w, w, b, b},
		{b, b, w, w},
		{b, b, w, w},
	}
	for y := range want {
		for x := range want[y] {
			if got := art.Pixels.GetPixel(x, y); got != want[y][x] {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want[y][x])
			}
		}
	}
}

func TestImportUncompressedEveryKind(t *testing.T) {
	blend := mustBlend(t)
	tests := []struct {
		name   string
		modify func(d *Description)
	}{
		{"SolidColor", func(d *Description) { d.Kind = KindSolidColor }},
		{"LinearGradient", func(d *Description) { d.Kind = KindLinearGradient }},
		{"RadialGradient", func(d *Description) { d.Kind = KindRadialGradient }},
		{"Checkerboard", func(d *Description) { d.Kind = KindCheckerboard }},
		{"ShaderProgram", func(d *Description) {
			d.Kind = KindShaderProgram
			d.Shader = blend
		}},
		{"MaterialProgram", func(d *Description) {
			d.Kind = KindMaterialProgram
			d.Material = blend.NewMaterial("m")
		}},
		{"ShaderProgram fallback", func(d *Description) { d.Kind = KindShaderProgram }},
		{"MaterialProgram fallback", func(d *Description) { d.Kind = KindMaterialProgram }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultDescription()
			d.Width, d.Height = 9, 5
			d.Color = metatex.Green
			d.Ramp = metatex.TwoColorRamp(metatex.Red, metatex.Blue)
			d.Wrap = metatex.WrapMirror
			d.Filter = metatex.FilterTrilinear
			d.Anisotropy = 4
			tt.modify(&d)

			art, err := newSoftwarePipeline(t).Import(d)
			if err != nil {
				t.Fatal(err)
			}
			checkUncompressed(t, art)
			if art.Wrap != metatex.WrapMirror || art.Filter != metatex.FilterTrilinear || art.Anisotropy != 4 {
				t.Errorf("metadata = %v/%v/%d, want Mirror/Trilinear/4", art.Wrap, art.Filter, art.Anisotropy)
			}
		})
	}
}

func TestImportSolidColorExact(t *testing.T) {
	d := DefaultDescription()
	d.Width, d.Height = 3, 2
	d.Kind = KindSolidColor
	d.Color = metatex.RGBA{R: 0.3, G: 0.6, B: 0.9, A: 0.5}

	art, err := New().Import(d)
	if err != nil {
		t.Fatal(err)
	}
	if !art.Pixels.Equal(solid(t, 3, 2, d.Color)) {
		t.Error("solid import differs from FillSolid")
	}
}

func TestImportCompress(t *testing.T) {
	d := DefaultDescription()
	d.Width, d.Height = 20, 12
	d.Compress = true

	p := New(WithWorkers(2))
	defer p.Close()
	art, err := p.Import(d)
	if err != nil {
		t.Fatal(err)
	}

	if !art.HasMipmaps || !art.IsCompressed {
		t.Errorf("HasMipmaps = %v, IsCompressed = %v, want true, true", art.HasMipmaps, art.IsCompressed)
	}
	if want := mip.LevelCount(20, 12); len(art.Mipmaps) != want {
		t.Fatalf("mip levels = %d, want %d", len(art.Mipmaps), want)
	}
	if len(art.Blocks) != len(art.Mipmaps) {
		t.Fatalf("block levels = %d, want %d", len(art.Blocks), len(art.Mipmaps))
	}
	if art.Pixels != art.Mipmaps[0] {
		t.Error("Pixels is not mip level 0")
	}
	if art.Levels() != len(art.Mipmaps) {
		t.Errorf("Levels() = %d, want %d", art.Levels(), len(art.Mipmaps))
	}

	for i, lvl := range art.Mipmaps {
		if want := bc.EncodedSize(lvl.Width(), lvl.Height()); len(art.Blocks[i]) != want {
			t.Errorf("level %d: %d block bytes, want %d", i, len(art.Blocks[i]), want)
		}
	}
	last := art.Mipmaps[len(art.Mipmaps)-1]
	if last.Width() != 1 || last.Height() != 1 {
		t.Errorf("last level = %dx%d, want 1x1", last.Width(), last.Height())
	}

	// White and black survive BC3 exactly.
	if got := art.Pixels.GetPixel(0, 0); got != metatex.White {
		t.Errorf("pixel (0,0) = %v, want white", got)
	}
}

func TestImportCompressAfterClose(t *testing.T) {
	d := DefaultDescription()
	d.Width, d.Height = 8, 8
	d.Compress = true

	p := New()
	p.Close()
	art, err := p.Import(d)
	if err != nil {
		t.Fatal(err)
	}
	if !art.IsCompressed {
		t.Error("IsCompressed = false after Close")
	}
}

func TestImportMissingProgramFallback(t *testing.T) {
	var nilShader *shader.Shader
	var nilMaterial *shader.Material
	tests := []struct {
		name   string
		modify func(d *Description)
	}{
		{"shader absent", func(d *Description) { d.Kind = KindShaderProgram }},
		{"material absent", func(d *Description) { d.Kind = KindMaterialProgram }},
		{"shader typed nil", func(d *Description) {
			d.Kind = KindShaderProgram
			d.Shader = nilShader
		}},
		{"material typed nil", func(d *Description) {
			d.Kind = KindMaterialProgram
			d.Material = nilMaterial
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultDescription()
			d.Width, d.Height = 6, 3
			tt.modify(&d)

			for _, p := range []*Pipeline{New(), newSoftwarePipeline(t)} {
				art, err := p.Import(d)
				if err != nil {
					t.Fatalf("Import() = %v, want magenta fallback", err)
				}
				if !art.Pixels.Equal(solid(t, 6, 3, metatex.Magenta)) {
					t.Error("fallback is not solid magenta")
				}
			}
		})
	}

	t.Run("custom fallback color", func(t *testing.T) {
		d := DefaultDescription()
		d.Width, d.Height = 2, 2
		d.Kind = KindShaderProgram

		art, err := New(WithFallbackColor(metatex.Green)).Import(d)
		if err != nil {
			t.Fatal(err)
		}
		if !art.Pixels.Equal(solid(t, 2, 2, metatex.Green)) {
			t.Error("fallback is not the configured color")
		}
	})
}

// recordingTemplate remembers every instance it hands out.
type recordingTemplate struct {
	shader    *shader.Shader
	instances []*shader.Material
}

func (r *recordingTemplate) Instantiate() (bake.Program, error) {
	prog, err := r.shader.Instantiate()
	if err != nil {
		return nil, err
	}
	m := prog.(*shader.Material)
	r.instances = append(r.instances, m)
	return m, nil
}

type failingTemplate struct{}

func (failingTemplate) Instantiate() (bake.Program, error) {
	return nil, errors.New("template broken")
}

// nilTemplate hands out a typed nil instance.
type nilTemplate struct{}

func (nilTemplate) Instantiate() (bake.Program, error) {
	var m *shader.Material
	return m, nil
}

func TestImportShaderProgram(t *testing.T) {
	tmpl := &recordingTemplate{shader: mustBlend(t)}

	d := DefaultDescription()
	d.Width, d.Height = 2, 1
	d.Kind = KindShaderProgram
	d.Shader = tmpl
	d.Color = metatex.Black
	d.Color2 = metatex.White

	art, err := newSoftwarePipeline(t).Import(d)
	if err != nil {
		t.Fatal(err)
	}

	if len(tmpl.instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(tmpl.instances))
	}
	if !tmpl.instances[0].Released() {
		t.Error("ephemeral instance not released")
	}

	left, right := art.Pixels.GetPixel(0, 0), art.Pixels.GetPixel(1, 0)
	if math.Abs(left.R-0.25) > 1e-6 || math.Abs(right.R-0.75) > 1e-6 || math.Abs(left.A-1) > 1e-6 {
		t.Errorf("pixels = %v, %v, want R 0.25 and 0.75, opaque", left, right)
	}
}

func TestImportShaderInstanceErrors(t *testing.T) {
	d := DefaultDescription()
	d.Width, d.Height = 2, 2
	d.Kind = KindShaderProgram

	d.Shader = failingTemplate{}
	_, err := newSoftwarePipeline(t).Import(d)
	if err == nil || !strings.Contains(err.Error(), "template broken") {
		t.Errorf("Import() = %v, want the instantiate error", err)
	}

	d.Shader = nilTemplate{}
	art, err := newSoftwarePipeline(t).Import(d)
	if err != nil {
		t.Fatalf("typed nil instance: Import() = %v, want fallback", err)
	}
	if !art.Pixels.Equal(solid(t, 2, 2, metatex.Magenta)) {
		t.Error("typed nil instance did not fall back to magenta")
	}
}

func TestImportMaterialProgram(t *testing.T) {
	mat := mustBlend(t).NewMaterial("persistent")

	d := DefaultDescription()
	d.Width, d.Height = 7, 3
	d.Kind = KindMaterialProgram
	d.Material = mat
	d.Color = metatex.Red

	if _, err := newSoftwarePipeline(t).Import(d); err != nil {
		t.Fatal(err)
	}
	if mat.Released() {
		t.Error("pipeline released a caller's material")
	}

	dims, ok := mat.Param(bake.ParamDimensions)
	if !ok || dims.V != [4]float64{7, 3, 0, 0} {
		t.Errorf("_Dimensions = %v (bound %v), want (7, 3, 0, 0)", dims.V, ok)
	}
	c, ok := mat.Param(bake.ParamColor)
	if !ok || c.Color() != metatex.Red {
		t.Errorf("_Color = %v (bound %v), want red", c.Color(), ok)
	}
	scale, ok := mat.Param(bake.ParamScale)
	if !ok || scale != bake.FixedScale {
		t.Errorf("_Scale = %v (bound %v), want %v", scale, ok, bake.FixedScale)
	}
}

func TestImportProgramBackendErrors(t *testing.T) {
	t.Run("no backend", func(t *testing.T) {
		d := DefaultDescription()
		d.Kind = KindMaterialProgram
		d.Material = mustBlend(t).NewMaterial("m")

		if _, err := New().Import(d); !errors.Is(err, metatex.ErrBackendRender) {
			t.Errorf("Import() = %v, want ErrBackendRender", err)
		}
	})

	t.Run("program without cpu fragment", func(t *testing.T) {
		gpuOnly, err := shader.Compile("gpu-only", shader.BlendSource)
		if err != nil {
			t.Fatal(err)
		}

		d := DefaultDescription()
		d.Width, d.Height = 4, 4
		d.Kind = KindShaderProgram
		d.Shader = gpuOnly

		_, err = newSoftwarePipeline(t).Import(d)
		if !errors.Is(err, metatex.ErrBackendRender) || !errors.Is(err, software.ErrNoFragment) {
			t.Errorf("Import() = %v, want ErrBackendRender wrapping ErrNoFragment", err)
		}
	})
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind    Kind
		name    string
		label   string
		program bool
	}{
		{KindSolidColor, "SolidColor", "Solid Color", false},
		{KindRadialGradient, "RadialGradient", "Radial Gradient", false},
		{KindCheckerboard, "Checkerboard", "Checkerboard", false},
		{KindShaderProgram, "ShaderProgram", "Shader Program", true},
		{KindMaterialProgram, "MaterialProgram", "Material Program", true},
		{Kind(-1), "Unknown", "Unknown", false},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.kind.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
		if got := tt.kind.IsProgram(); got != tt.program {
			t.Errorf("%s.IsProgram() = %v, want %v", tt.name, got, tt.program)
		}
	}
}

func BenchmarkImportCompressed(b *testing.B) {
	d := DefaultDescription()
	d.Compress = true
	p := New()
	defer p.Close()
	for b.Loop() {
		_, _ = p.Import(d)
	}
}
