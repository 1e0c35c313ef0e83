// Package software implements a CPU rendering backend for baking.
//
// WGSL cannot be executed on the CPU, so the backend runs the Go fragment a
// shader carries (see shader.WithFragment) once per pixel. Rows are shaded
// in parallel on a worker pool.
package software

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/backend"
	"github.com/gogpu/metatex/bake"
	"github.com/gogpu/metatex/internal/parallel"
	"github.com/gogpu/metatex/shader"
)

// Software backend errors.
var (
	// ErrNoFragment is returned when a program has no CPU fragment.
	ErrNoFragment = errors.New("software: program has no CPU fragment")

	// ErrUnsupportedTarget is returned for target descriptors the backend
	// cannot allocate.
	ErrUnsupportedTarget = errors.New("software: unsupported target")

	// ErrForeignTarget is returned when a target from another backend is
	// passed to RenderPass.
	ErrForeignTarget = errors.New("software: target not created by this backend")

	// ErrReleased is returned when a released target is used.
	ErrReleased = errors.New("software: target released")
)

// fragmentProgram is the capability the backend needs from a program.
type fragmentProgram interface {
	Fragment() shader.FragmentFunc
}

func init() {
	backend.Register(backend.NameSoftware, func() (bake.Backend, error) {
		return New(), nil
	})
}

// Option configures a Backend.
type Option func(*Backend)

// WithWorkers sets the number of shading goroutines. Zero or negative uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Backend) {
		b.workers = n
	}
}

// Backend renders programs on the CPU.
type Backend struct {
	workers int
	pool    *parallel.WorkerPool
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	b.pool = parallel.NewWorkerPool(b.workers)
	return b
}

// Close stops the shading workers.
func (b *Backend) Close() {
	b.pool.Close()
}

// AcquireTarget allocates an RGBA32F target in system memory.
func (b *Backend) AcquireTarget(desc bake.TargetDescriptor) (bake.Target, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrUnsupportedTarget, desc.Width, desc.Height)
	}
	if desc.Format != bake.TargetFormat {
		return nil, fmt.Errorf("%w: format %v", ErrUnsupportedTarget, desc.Format)
	}
	if desc.DepthBits != 0 {
		return nil, fmt.Errorf("%w: depth buffers are not supported", ErrUnsupportedTarget)
	}
	return newTarget(desc), nil
}

// RenderPass evaluates the program's CPU fragment at every pixel center.
func (b *Backend) RenderPass(target bake.Target, prog bake.Program, binding bake.Binding, pass int) error {
	t, ok := target.(*Target)
	if !ok {
		return ErrForeignTarget
	}
	if t.released {
		return ErrReleased
	}
	if pass != bake.FirstPass {
		return fmt.Errorf("software: program %s has no pass %d", prog.Label(), pass)
	}
	fp, ok := prog.(fragmentProgram)
	if !ok || fp.Fragment() == nil {
		return fmt.Errorf("%w: %s", ErrNoFragment, prog.Label())
	}
	frag := fp.Fragment()

	w, h := t.width, t.height
	return b.pool.ForEachBand(h, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / float64(h)
			for x := range w {
				c := frag(shader.FragmentInput{
					X:      x,
					Y:      y,
					UV:     [2]float64{(float64(x) + 0.5) / float64(w), v},
					Params: binding,
				})
				t.store(x, y, c)
			}
		}
		return nil
	})
}

var _ bake.Backend = (*Backend)(nil)

// Target is a system-memory RGBA32F render target.
type Target struct {
	label    string
	width    int
	height   int
	pix      []float32 // 4 floats per pixel, row-major
	released bool
}

func newTarget(desc bake.TargetDescriptor) *Target {
	return &Target{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		pix:    make([]float32, 4*desc.Width*desc.Height),
	}
}

func (t *Target) store(x, y int, c metatex.RGBA) {
	i := 4 * (y*t.width + x)
	t.pix[i+0] = float32(c.R)
	t.pix[i+1] = float32(c.G)
	t.pix[i+2] = float32(c.B)
	t.pix[i+3] = float32(c.A)
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns RGBA32Float.
func (t *Target) Format() gputypes.TextureFormat { return bake.TargetFormat }

// ReadPixels converts the float target into a pixmap.
func (t *Target) ReadPixels() (*metatex.Pixmap, error) {
	if t.released {
		return nil, ErrReleased
	}
	pm, err := metatex.NewPixmap(t.width, t.height)
	if err != nil {
		return nil, err
	}
	dst := pm.Pixels()
	for i := range dst {
		dst[i] = metatex.RGBA{
			R: float64(t.pix[4*i+0]),
			G: float64(t.pix[4*i+1]),
			B: float64(t.pix[4*i+2]),
			A: float64(t.pix[4*i+3]),
		}
	}
	return pm, nil
}

// Release frees the pixel storage. It is safe to call more than once.
func (t *Target) Release() {
	t.released = true
	t.pix = nil
}

// Released reports whether Release was called.
func (t *Target) Released() bool { return t.released }

var _ bake.Target = (*Target)(nil)
