// Package backend is the registry of rendering backends used for baking.
//
// Backend implementations live in sub-packages and register themselves
// under a name. The software backend registers on import:
//
//	import _ "github.com/gogpu/metatex/backend/software"
//
// The GPU backend needs a device from the host application and registers
// through gpu.Register:
//
//	gpu.Register(device, queue)
//
// # Backend Selection
//
// Use Default to get the best available backend, or Get to request a
// specific one:
//
//	b, err := backend.Default()
//
//	b, err := backend.Get(backend.NameSoftware)
//
// # Available Backends
//
//   - "gpu": GPU rendering through gogpu/wgpu HAL devices
//   - "software": CPU evaluation of a program's Go fragment (always available)
package backend
