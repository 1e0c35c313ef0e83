// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"fmt"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// Description declares one procedural texture.
//
// A Description is read but never modified by the pipeline. Material is the
// exception: baking writes the bound parameters into it.
type Description struct {
	Width, Height int
	Kind          Kind

	Color  metatex.RGBA
	Color2 metatex.RGBA
	Ramp   metatex.ColorRamp

	// CheckerCount is the number of cells per axis for KindCheckerboard.
	CheckerCount int

	// Shader is the template instantiated for KindShaderProgram.
	Shader bake.Template
	// Material is the persistent program baked for KindMaterialProgram.
	Material bake.Program

	Wrap       metatex.WrapMode
	Filter     metatex.FilterMode
	Anisotropy int

	// Compress requests BC3 compression and a full mipmap chain.
	Compress bool
}

// DefaultDescription returns the description a new texture asset starts
// with: a 512×512 white and black checkerboard with 8 cells per axis,
// repeat wrapping, bilinear filtering, anisotropy 1 and no compression.
func DefaultDescription() Description {
	return Description{
		Width:        512,
		Height:       512,
		Kind:         KindCheckerboard,
		Color:        metatex.White,
		Color2:       metatex.Black,
		Ramp:         metatex.TwoColorRamp(metatex.White, metatex.Black),
		CheckerCount: 8,
		Wrap:         metatex.WrapRepeat,
		Filter:       metatex.FilterBilinear,
		Anisotropy:   1,
	}
}

// Validate checks the fields the selected kind depends on.
func (d *Description) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", metatex.ErrInvalidParameter, d.Width, d.Height)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: unknown generator kind %d", metatex.ErrInvalidParameter, int(d.Kind))
	}
	if d.Kind == KindCheckerboard && d.CheckerCount < 1 {
		return fmt.Errorf("%w: checker count %d", metatex.ErrInvalidParameter, d.CheckerCount)
	}
	if !d.Wrap.Valid() {
		return fmt.Errorf("%w: unknown wrap mode %d", metatex.ErrInvalidParameter, int(d.Wrap))
	}
	if !d.Filter.Valid() {
		return fmt.Errorf("%w: unknown filter mode %d", metatex.ErrInvalidParameter, int(d.Filter))
	}
	if d.Anisotropy < 0 || d.Anisotropy > metatex.MaxAnisotropy {
		return fmt.Errorf("%w: anisotropy %d outside [0, %d]",
			metatex.ErrInvalidParameter, d.Anisotropy, metatex.MaxAnisotropy)
	}
	return nil
}

func (d *Description) params() bake.Parameters {
	return bake.Parameters{Color: d.Color, Color2: d.Color2}
}
