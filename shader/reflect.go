// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga/ir"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// slotNames lists the recognized slots in binding order.
var slotNames = [...]string{
	bake.ParamColor,
	bake.ParamColor2,
	bake.ParamDimensions,
	bake.ParamScale,
}

// CanonicalSlot maps a declared name onto a recognized slot name.
func CanonicalSlot(name string) (string, bool) {
	key := slotKey(name)
	for _, s := range slotNames {
		if slotKey(s) == key {
			return s, true
		}
	}
	return "", false
}

func slotKey(name string) string {
	return strings.ToLower(strings.TrimLeft(name, "_"))
}

// Field is one reflected slot inside a uniform buffer.
type Field struct {
	Slot       string // canonical slot name
	Declared   string // name as written in WGSL
	Offset     uint32 // byte offset in the buffer
	Components int
}

// UniformBuffer is a uniform binding that carries at least one slot.
type UniformBuffer struct {
	Name    string
	Group   uint32
	Binding uint32
	Size    uint32
	Fields  []Field
}

// Layout is the uniform layout of a shader's declared slots.
type Layout struct {
	Buffers []UniformBuffer
}

// Slots returns the declared slot names.
func (l Layout) Slots() []string {
	var out []string
	for _, b := range l.Buffers {
		for _, f := range b.Fields {
			out = append(out, f.Slot)
		}
	}
	return out
}

// Has reports whether slot is declared.
func (l Layout) Has(slot string) bool {
	for _, b := range l.Buffers {
		for _, f := range b.Fields {
			if f.Slot == slot {
				return true
			}
		}
	}
	return false
}

// reflectLayout collects the slot-bearing uniform globals of m.
func reflectLayout(m *ir.Module) (Layout, error) {
	var layout Layout
	seen := map[string]string{}

	for _, gv := range m.GlobalVariables {
		if gv.Space != ir.SpaceUniform || gv.Binding == nil {
			continue
		}
		if int(gv.Type) >= len(m.Types) {
			return Layout{}, fmt.Errorf("%w: uniform %q has invalid type handle", metatex.ErrInvalidParameter, gv.Name)
		}

		buf := UniformBuffer{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Size:    ir.TypeSize(m, gv.Type),
		}

		if st, ok := m.Types[gv.Type].Inner.(ir.StructType); ok {
			for _, member := range st.Members {
				f, ok, err := slotField(m, member.Name, member.Type, member.Offset)
				if err != nil {
					return Layout{}, err
				}
				if ok {
					buf.Fields = append(buf.Fields, f)
				}
			}
		} else {
			f, ok, err := slotField(m, gv.Name, gv.Type, 0)
			if err != nil {
				return Layout{}, err
			}
			if ok {
				buf.Fields = append(buf.Fields, f)
			}
		}

		for _, f := range buf.Fields {
			if prev, dup := seen[f.Slot]; dup {
				return Layout{}, fmt.Errorf("%w: slot %s declared twice (%s, %s)",
					metatex.ErrInvalidParameter, f.Slot, prev, f.Declared)
			}
			seen[f.Slot] = f.Declared
		}
		if len(buf.Fields) > 0 {
			layout.Buffers = append(layout.Buffers, buf)
		}
	}
	return layout, nil
}

// slotField returns the field for name if it is a recognized slot.
// Slots must be f32 scalars or vectors.
func slotField(m *ir.Module, name string, th ir.TypeHandle, offset uint32) (Field, bool, error) {
	slot, ok := CanonicalSlot(name)
	if !ok {
		return Field{}, false, nil
	}
	if int(th) >= len(m.Types) {
		return Field{}, false, fmt.Errorf("%w: slot %q has invalid type handle", metatex.ErrInvalidParameter, name)
	}

	var components int
	var scalar ir.ScalarType
	switch t := m.Types[th].Inner.(type) {
	case ir.ScalarType:
		components, scalar = 1, t
	case ir.VectorType:
		components, scalar = int(t.Size), t.Scalar
	default:
		return Field{}, false, fmt.Errorf("%w: slot %q must be a float scalar or vector", metatex.ErrInvalidParameter, name)
	}
	if scalar.Kind != ir.ScalarFloat || scalar.Width != 4 {
		return Field{}, false, fmt.Errorf("%w: slot %q must use f32 components", metatex.ErrInvalidParameter, name)
	}

	return Field{Slot: slot, Declared: name, Offset: offset, Components: components}, true, nil
}
