package backend

import (
	"errors"

	"github.com/gogpu/metatex/bake"
)

// Backend name constants.
const (
	// NameSoftware is the CPU backend in backend/software.
	NameSoftware = "software"
	// NameGPU is the GPU backend in backend/gpu.
	NameGPU = "gpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory creates a backend instance.
type Factory func() (bake.Backend, error)

// Closer is implemented by backends that own resources.
type Closer interface {
	Close()
}

// Close closes b if it owns resources.
func Close(b bake.Backend) {
	if c, ok := b.(Closer); ok {
		c.Close()
	}
}
