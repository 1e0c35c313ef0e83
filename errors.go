package metatex

import "errors"

// Sentinel errors shared by the generator engine, the bake adapter and the
// import pipeline. Callers match them with errors.Is; producers wrap them
// with context using fmt.Errorf("%w: ...").
var (
	// ErrInvalidParameter is returned for non-positive dimensions, a checker
	// count below one, anisotropy outside [0, 16] or an unknown generator.
	ErrInvalidParameter = errors.New("metatex: invalid parameter")

	// ErrMissingProgram is returned by the bake adapter when no program is
	// given. The import pipeline recovers from it with the magenta fallback.
	ErrMissingProgram = errors.New("metatex: missing program")

	// ErrBackendRender is returned when the rendering backend fails to
	// render a pass or to read the target back. It is never retried.
	ErrBackendRender = errors.New("metatex: backend render failed")

	// ErrTargetAcquire is returned when the offscreen render target cannot
	// be allocated.
	ErrTargetAcquire = errors.New("metatex: cannot acquire render target")
)
