// Package gpu implements a GPU rendering backend for baking on
// gogpu/wgpu HAL devices.
//
// The backend does not create a device. It receives one from the host
// application, either directly or through a gpucontext.DeviceProvider that
// exposes its HAL handles.
//
// Each render pass compiles the program's WGSL, uploads the bound slot values
// into the uniform buffers reflected by the shader package, draws a single
// full-screen triangle into an RGBA32F texture and destroys every per-pass
// object before returning.
package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/metatex/backend"
	"github.com/gogpu/metatex/bake"
)

// GPU backend errors.
var (
	// ErrNilDevice is returned when no HAL device or queue is given.
	ErrNilDevice = errors.New("gpu: HAL device is nil")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL handles.
	ErrNoHALProvider = errors.New("gpu: provider does not expose HAL types")

	// ErrNotWGSL is returned for programs without WGSL source.
	ErrNotWGSL = errors.New("gpu: program has no WGSL source")

	// ErrForeignTarget is returned when a target from another backend is
	// passed to RenderPass.
	ErrForeignTarget = errors.New("gpu: target not created by this backend")

	// ErrReleased is returned when a released target is used.
	ErrReleased = errors.New("gpu: target released")
)

// Backend renders programs on a HAL device.
//
// Submissions are serialized; a Backend is safe for concurrent use.
type Backend struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue
}

// New creates a backend on device and queue. The backend does not take
// ownership: the caller destroys the device.
func New(device hal.Device, queue hal.Queue) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Backend{device: device, queue: queue}, nil
}

// NewFromProvider creates a backend on the device of a host application.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return New(device, queue)
}

// Register makes the device available through the backend registry under
// backend.NameGPU.
func Register(device hal.Device, queue hal.Queue) {
	backend.Register(backend.NameGPU, func() (bake.Backend, error) {
		return New(device, queue)
	})
}

var _ bake.Backend = (*Backend)(nil)
