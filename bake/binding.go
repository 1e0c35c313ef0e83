// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bake

// Param is one bound slot.
type Param struct {
	Name  string
	Value Value
}

// Binding is the ordered set of slot values bound for a single bake.
// It only contains slots the program declares.
type Binding struct {
	params []Param
}

// NewBinding builds the binding for prog. Each bound value is also written
// into prog with SetParam.
func NewBinding(prog Program, params Parameters, width, height int) Binding {
	candidates := [...]Param{
		{ParamColor, ColorValue(params.Color)},
		{ParamColor2, ColorValue(params.Color2)},
		{ParamDimensions, Vec4(float64(width), float64(height), 0, 0)},
		{ParamScale, FixedScale},
	}

	var b Binding
	for _, p := range candidates {
		if !prog.HasParam(p.Name) {
			continue
		}
		prog.SetParam(p.Name, p.Value)
		b.params = append(b.params, p)
	}
	return b
}

// Len returns the number of bound slots.
func (b Binding) Len() int {
	return len(b.params)
}

// Params returns the bound slots in binding order.
func (b Binding) Params() []Param {
	return b.params
}

// Lookup returns the value bound to name.
func (b Binding) Lookup(name string) (Value, bool) {
	for _, p := range b.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Vec4 returns the components bound to name, or zeros if it is unbound.
func (b Binding) Vec4(name string) [4]float64 {
	v, _ := b.Lookup(name)
	return v.V
}
