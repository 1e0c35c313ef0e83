// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bake

import (
	"fmt"

	"github.com/gogpu/metatex"
)

// Adapter bakes programs through a Backend.
//
// An Adapter holds no per-bake state; concurrent bakes are safe as long as
// the backend allows it and the programs are distinct.
type Adapter struct {
	backend Backend
}

// NewAdapter creates an adapter rendering through backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Backend returns the backend the adapter renders through.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Bake renders prog into a width x height target and returns its pixels.
//
// Errors:
//   - metatex.ErrMissingProgram if prog is nil, including a typed nil
//   - metatex.ErrInvalidParameter if width or height is not positive
//   - metatex.ErrTargetAcquire if the target cannot be allocated
//   - metatex.ErrBackendRender if the pass or the readback fails
func (a *Adapter) Bake(prog Program, params Parameters, width, height int) (*metatex.Pixmap, error) {
	if IsNil(prog) {
		return nil, metatex.ErrMissingProgram
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bake size %dx%d", metatex.ErrInvalidParameter, width, height)
	}
	if a.backend == nil {
		return nil, fmt.Errorf("%w: no backend configured", metatex.ErrBackendRender)
	}

	log := metatex.Logger().With("program", prog.Label())
	binding := NewBinding(prog, params, width, height)

	desc := TargetDescriptor{
		Label:  prog.Label(),
		Width:  width,
		Height: height,
		Format: TargetFormat,
		Usage:  TargetUsage,
	}
	target, err := a.backend.AcquireTarget(desc)
	if target != nil {
		defer target.Release()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metatex.ErrTargetAcquire, err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: backend returned no target", metatex.ErrTargetAcquire)
	}
	if target.Width() != width || target.Height() != height {
		return nil, fmt.Errorf("%w: got %dx%d target, want %dx%d",
			metatex.ErrTargetAcquire, target.Width(), target.Height(), width, height)
	}

	log.Debug("bake: render pass", "width", width, "height", height, "slots", binding.Len())
	if err := a.backend.RenderPass(target, prog, binding, FirstPass); err != nil {
		return nil, fmt.Errorf("%w: pass %d: %w", metatex.ErrBackendRender, FirstPass, err)
	}

	pm, err := target.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("%w: readback: %w", metatex.ErrBackendRender, err)
	}
	if pm == nil || pm.Width() != width || pm.Height() != height {
		return nil, fmt.Errorf("%w: readback size mismatch", metatex.ErrBackendRender)
	}
	return pm, nil
}
