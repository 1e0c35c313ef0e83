// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bake

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/metatex"
)

// fakeProgram declares a fixed set of slots and records writes.
type fakeProgram struct {
	label    string
	declared map[string]bool
	values   map[string]Value
}

func newFakeProgram(slots ...string) *fakeProgram {
	p := &fakeProgram{label: "fake", declared: map[string]bool{}, values: map[string]Value{}}
	for _, s := range slots {
		p.declared[s] = true
	}
	return p
}

func (p *fakeProgram) Label() string { return p.label }
func (p *fakeProgram) HasParam(name string) bool { return p.declared[name] }
func (p *fakeProgram) SetParam(name string, v Value) { p.values[name] = v }

// fakeTarget fills its readback with a single color.
type fakeTarget struct {
	w, h     int
	fill     metatex.RGBA
	readErr  error
	readSize [2]int // overrides the readback size when non-zero
	released int
}

func (t *fakeTarget) Width() int { return t.w }
func (t *fakeTarget) Height() int { return t.h }
func (t *fakeTarget) Format() gputypes.TextureFormat { return TargetFormat }
func (t *fakeTarget) Release() { t.released++ }

func (t *fakeTarget) ReadPixels() (*metatex.Pixmap, error) {
	if t.readErr != nil {
		return nil, t.readErr
	}
	w, h := t.w, t.h
	if t.readSize != [2]int{} {
		w, h = t.readSize[0], t.readSize[1]
	}
	pm, err := metatex.NewPixmap(w, h)
	if err != nil {
		return nil, err
	}
	pm.Clear(t.fill)
	return pm, nil
}

// fakeBackend hands out a preconfigured target and records pass calls.
type fakeBackend struct {
	target     *fakeTarget
	acquireErr error
	renderErr  error
	panicMsg   string

	desc    TargetDescriptor
	binding Binding
	passes  []int
}

var errFake = errors.New("fake backend failure")

func (b *fakeBackend) AcquireTarget(desc TargetDescriptor) (Target, error) {
	b.desc = desc
	if b.target == nil {
		b.target = &fakeTarget{w: desc.Width, h: desc.Height}
	}
	if b.acquireErr != nil {
		return b.target, b.acquireErr
	}
	return b.target, nil
}

func (b *fakeBackend) RenderPass(target Target, prog Program, binding Binding, pass int) error {
	b.binding = binding
	b.passes = append(b.passes, pass)
	if b.panicMsg != "" {
		panic(b.panicMsg)
	}
	if c, ok := binding.Lookup(ParamColor); ok {
		target.(*fakeTarget).fill = c.Color()
	}
	return b.renderErr
}
