// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bake

import (
	"reflect"

	"github.com/gogpu/metatex"
)

// Parameter slot names recognized by the adapter.
const (
	ParamColor      = "_Color"
	ParamColor2     = "_Color2"
	ParamDimensions = "_Dimensions"
	ParamScale      = "_Scale"
)

// FirstPass is the only render pass index the adapter executes.
const FirstPass = 0

// FixedScale is the value bound to ParamScale. It is not configurable.
var FixedScale = Vec2(1, 1)

// Value is a float vector of one to four components.
type Value struct {
	V [4]float64
	N int // component count
}

// Vec4 returns a four-component value.
func Vec4(x, y, z, w float64) Value {
	return Value{V: [4]float64{x, y, z, w}, N: 4}
}

// Vec2 returns a two-component value.
func Vec2(x, y float64) Value {
	return Value{V: [4]float64{x, y}, N: 2}
}

// ColorValue returns c as a four-component value.
func ColorValue(c metatex.RGBA) Value {
	return Value{V: c.Vec4(), N: 4}
}

// Color interprets the first four components as an RGBA color.
func (v Value) Color() metatex.RGBA {
	return metatex.RGBA{R: v.V[0], G: v.V[1], B: v.V[2], A: v.V[3]}
}

// Program is a shading program instance that can receive slot values.
//
// Programs are either ephemeral (created from a Template for a single bake)
// or persistent (owned by the caller, whose writes stay visible afterwards).
type Program interface {
	// Label identifies the program in logs and errors.
	Label() string

	// HasParam reports whether the program declares the named slot.
	HasParam(name string) bool

	// SetParam writes a slot value into the program.
	SetParam(name string, v Value)
}

// Template produces ephemeral program instances.
type Template interface {
	Instantiate() (Program, error)
}

// Releaser is implemented by programs that hold resources which must be
// freed once an ephemeral instance is no longer needed.
type Releaser interface {
	Release()
}

// IsNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or channel. A typed nil program counts as missing.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Parameters carries the description values that feed the slots.
type Parameters struct {
	Color  metatex.RGBA
	Color2 metatex.RGBA
}
