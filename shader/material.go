// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/metatex/bake"
)

// Material is a shader instance carrying slot values.
//
// Materials are not safe for concurrent use.
type Material struct {
	shader   *Shader
	name     string
	values   map[string]bake.Value
	released bool
}

// Label returns the material name.
func (m *Material) Label() string { return m.name }

// Shader returns the shader the material was created from.
func (m *Material) Shader() *Shader { return m.shader }

// HasParam reports whether the shader declares the slot. Names are matched
// like WGSL declarations, ignoring leading underscores and case.
func (m *Material) HasParam(name string) bool {
	if m.released {
		return false
	}
	slot, ok := CanonicalSlot(name)
	return ok && m.shader.layout.Has(slot)
}

// SetParam stores a slot value. Undeclared slots are ignored.
func (m *Material) SetParam(name string, v bake.Value) {
	if !m.HasParam(name) {
		return
	}
	slot, _ := CanonicalSlot(name)
	m.values[slot] = v
}

// Param returns the stored value of a slot.
func (m *Material) Param(name string) (bake.Value, bool) {
	slot, ok := CanonicalSlot(name)
	if !ok {
		return bake.Value{}, false
	}
	v, ok := m.values[slot]
	return v, ok
}

// Release drops the material's values. A released material declares no
// slots.
func (m *Material) Release() {
	m.released = true
	m.values = nil
}

// Released reports whether Release was called.
func (m *Material) Released() bool { return m.released }

// Source returns the shader's WGSL source.
func (m *Material) Source() string { return m.shader.source }

// Layout returns the shader's uniform layout.
func (m *Material) Layout() Layout { return m.shader.layout }

// EntryPoints returns the shader's entry point names.
func (m *Material) EntryPoints() (vertex, fragment string) { return m.shader.EntryPoints() }

// Fragment returns the shader's CPU fragment, or nil.
func (m *Material) Fragment() FragmentFunc { return m.shader.fragment }

var (
	_ bake.Program  = (*Material)(nil)
	_ bake.Releaser = (*Material)(nil)
)
