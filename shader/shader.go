// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// Shader is a compiled WGSL program with its reflected slot layout.
// A Shader is immutable and safe for concurrent use.
type Shader struct {
	name          string
	source        string
	layout        Layout
	vertexEntry   string
	fragmentEntry string
	fragment      FragmentFunc
}

// Compile parses, lowers and validates WGSL source and reflects its slots.
// All failures wrap metatex.ErrInvalidParameter.
func Compile(name, source string, opts ...Option) (*Shader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: shader %s: %w", metatex.ErrInvalidParameter, name, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: shader %s: %w", metatex.ErrInvalidParameter, name, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: shader %s: %w", metatex.ErrInvalidParameter, name, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return nil, fmt.Errorf("%w: shader %s: %s", metatex.ErrInvalidParameter, name, strings.Join(msgs, "; "))
	}

	if err := requireEntryPoint(module, o.vertexEntry, ir.StageVertex); err != nil {
		return nil, fmt.Errorf("%w: shader %s: %w", metatex.ErrInvalidParameter, name, err)
	}
	if err := requireEntryPoint(module, o.fragmentEntry, ir.StageFragment); err != nil {
		return nil, fmt.Errorf("%w: shader %s: %w", metatex.ErrInvalidParameter, name, err)
	}

	layout, err := reflectLayout(module)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	metatex.Logger().Debug("shader: compiled", "name", name, "slots", layout.Slots())

	return &Shader{
		name:          name,
		source:        source,
		layout:        layout,
		vertexEntry:   o.vertexEntry,
		fragmentEntry: o.fragmentEntry,
		fragment:      o.fragment,
	}, nil
}

func requireEntryPoint(m *ir.Module, name string, stage ir.ShaderStage) error {
	for _, ep := range m.EntryPoints {
		if ep.Name == name {
			if ep.Stage != stage {
				return fmt.Errorf("entry point %q has the wrong stage", name)
			}
			return nil
		}
	}
	return fmt.Errorf("missing entry point %q", name)
}

// Name returns the shader name given to Compile.
func (s *Shader) Name() string { return s.name }

// Source returns the WGSL source.
func (s *Shader) Source() string { return s.source }

// Layout returns the reflected uniform layout.
func (s *Shader) Layout() Layout { return s.layout }

// EntryPoints returns the vertex and fragment entry point names.
func (s *Shader) EntryPoints() (vertex, fragment string) {
	return s.vertexEntry, s.fragmentEntry
}

// Fragment returns the CPU fragment, or nil if none was given.
func (s *Shader) Fragment() FragmentFunc { return s.fragment }

// NewMaterial creates a persistent material owned by the caller.
func (s *Shader) NewMaterial(name string) *Material {
	if name == "" {
		name = s.name
	}
	return &Material{shader: s, name: name, values: map[string]bake.Value{}}
}

// Instantiate creates an ephemeral material. The caller releases it after
// the bake.
func (s *Shader) Instantiate() (bake.Program, error) {
	return s.NewMaterial(s.name + " (instance)"), nil
}

var _ bake.Template = (*Shader)(nil)
