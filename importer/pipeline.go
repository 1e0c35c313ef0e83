// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
	"github.com/gogpu/metatex/internal/bc"
	"github.com/gogpu/metatex/internal/mip"
	"github.com/gogpu/metatex/internal/parallel"
)

// FallbackColor marks textures whose program is missing.
var FallbackColor = metatex.Magenta

// Pipeline imports descriptions into artifacts.
//
// A Pipeline holds no per-import state. Concurrent imports are safe as long
// as they do not share a persistent Material.
type Pipeline struct {
	opts    options
	adapter *bake.Adapter

	poolOnce sync.Once
	pool     *parallel.WorkerPool
}

// New creates a pipeline.
func New(opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{
		opts:    o,
		adapter: bake.NewAdapter(o.backend),
	}
}

// Backend returns the configured backend, or nil.
func (p *Pipeline) Backend() bake.Backend {
	return p.opts.backend
}

// Close stops the compression workers. The backend is not closed.
// Imports running concurrently finish; later imports compress on the
// calling goroutine.
func (p *Pipeline) Close() {
	p.poolOnce.Do(func() {})
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Pipeline) workerPool() *parallel.WorkerPool {
	p.poolOnce.Do(func() {
		p.pool = parallel.NewWorkerPool(p.opts.workers)
	})
	return p.pool
}

// Import generates the texture described by desc.
//
// Invalid descriptions fail with metatex.ErrInvalidParameter. Backend
// failures on the program kinds are returned as they are, wrapping
// metatex.ErrBackendRender or metatex.ErrTargetAcquire. A missing program is
// never an error: the texture is filled with the fallback color instead.
func (p *Pipeline) Import(desc Description) (*Artifact, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	log := metatex.Logger().With("kind", desc.Kind.String(), "width", desc.Width, "height", desc.Height)
	log.Debug("importer: generating")

	pixels, err := p.generate(&desc)
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Pixels:     pixels,
		Wrap:       desc.Wrap,
		Filter:     desc.Filter,
		Anisotropy: desc.Anisotropy,
	}
	if desc.Compress {
		if err := p.compress(art); err != nil {
			return nil, err
		}
	}
	log.Info("importer: imported", "mipmaps", art.Levels(), "compressed", art.IsCompressed)
	return art, nil
}

func (p *Pipeline) generate(desc *Description) (*metatex.Pixmap, error) {
	pm, err := metatex.NewPixmap(desc.Width, desc.Height)
	if err != nil {
		return nil, err
	}
	switch desc.Kind {
	case KindSolidColor:
		err = metatex.FillSolid(pm, desc.Color)
	case KindLinearGradient:
		err = metatex.FillLinearGradient(pm, desc.Ramp)
	case KindRadialGradient:
		err = metatex.FillRadialGradient(pm, desc.Ramp)
	case KindCheckerboard:
		err = metatex.FillCheckerboard(pm, desc.Color, desc.Color2, desc.CheckerCount)
	case KindShaderProgram:
		return p.bakeShader(desc)
	case KindMaterialProgram:
		return p.bakeMaterial(desc)
	default:
		err = fmt.Errorf("%w: unknown generator kind %d", metatex.ErrInvalidParameter, int(desc.Kind))
	}
	if err != nil {
		return nil, err
	}
	return pm, nil
}

// bakeShader bakes a throwaway instance of desc.Shader and releases it.
func (p *Pipeline) bakeShader(desc *Description) (*metatex.Pixmap, error) {
	if bake.IsNil(desc.Shader) {
		return p.fallback(desc, metatex.ErrMissingProgram)
	}
	prog, err := desc.Shader.Instantiate()
	if err != nil {
		return nil, fmt.Errorf("importer: instantiate shader: %w", err)
	}
	if r, ok := prog.(bake.Releaser); ok && !bake.IsNil(prog) {
		defer r.Release()
	}
	return p.bake(desc, prog)
}

// bakeMaterial bakes the caller's material. The pipeline does not own it
// and never releases it.
func (p *Pipeline) bakeMaterial(desc *Description) (*metatex.Pixmap, error) {
	return p.bake(desc, desc.Material)
}

func (p *Pipeline) bake(desc *Description, prog bake.Program) (*metatex.Pixmap, error) {
	pm, err := p.adapter.Bake(prog, desc.params(), desc.Width, desc.Height)
	if errors.Is(err, metatex.ErrMissingProgram) {
		return p.fallback(desc, err)
	}
	return pm, err
}

// fallback converts a missing program into a solid fallback texture. This
// is the one error the pipeline recovers from.
func (p *Pipeline) fallback(desc *Description, cause error) (*metatex.Pixmap, error) {
	metatex.Logger().Warn("importer: program missing, using fallback color",
		"kind", desc.Kind.String(), "error", cause)
	pm, err := metatex.NewPixmap(desc.Width, desc.Height)
	if err != nil {
		return nil, err
	}
	if err := metatex.FillSolid(pm, p.opts.fallback); err != nil {
		return nil, err
	}
	return pm, nil
}

// compress builds the mip chain, encodes every level as BC3 and replaces
// the levels with their decoded data.
func (p *Pipeline) compress(art *Artifact) error {
	levels, err := mip.Chain(art.Pixels)
	if err != nil {
		return err
	}
	pool := p.workerPool()
	blocks := make([][]byte, len(levels))
	for i, lvl := range levels {
		data, err := bc.Encode(lvl, pool)
		if err != nil {
			return fmt.Errorf("importer: compress level %d: %w", i, err)
		}
		decoded, err := bc.Decode(data, lvl.Width(), lvl.Height())
		if err != nil {
			return fmt.Errorf("importer: decode level %d: %w", i, err)
		}
		blocks[i] = data
		levels[i] = decoded
	}
	art.Pixels = levels[0]
	art.Mipmaps = levels
	art.Blocks = blocks
	art.HasMipmaps = true
	art.IsCompressed = true
	return nil
}
