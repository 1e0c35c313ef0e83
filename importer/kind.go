// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects the generator that produces a texture's pixels.
type Kind int

const (
	// KindSolidColor fills the texture with Description.Color.
	KindSolidColor Kind = iota
	// KindLinearGradient evaluates Description.Ramp left to right.
	KindLinearGradient
	// KindRadialGradient evaluates Description.Ramp outward from the center.
	KindRadialGradient
	// KindCheckerboard alternates Color and Color2 in CheckerCount cells
	// per axis.
	KindCheckerboard
	// KindShaderProgram bakes a fresh instance of Description.Shader.
	KindShaderProgram
	// KindMaterialProgram bakes the persistent Description.Material.
	KindMaterialProgram
)

var kindNames = [...]string{
	KindSolidColor:      "SolidColor",
	KindLinearGradient:  "LinearGradient",
	KindRadialGradient:  "RadialGradient",
	KindCheckerboard:    "Checkerboard",
	KindShaderProgram:   "ShaderProgram",
	KindMaterialProgram: "MaterialProgram",
}

// String returns the kind name.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "Unknown"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= KindSolidColor && k <= KindMaterialProgram
}

// IsProgram reports whether k renders through a bake backend.
func (k Kind) IsProgram() bool {
	return k == KindShaderProgram || k == KindMaterialProgram
}

// Label returns the kind name as title-cased words, e.g. "Radial Gradient".
func (k Kind) Label() string {
	return label(k.String())
}

// label turns an enum name such as "MirrorOnce" into "Mirror Once".
// Casers are stateful, so each call builds its own.
func label(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return cases.Title(language.English).String(b.String())
}
