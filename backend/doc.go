// Package backend selects the device a batch.Context renders through.
//
// Devices are registered by name from init functions. The software device
// is always registered; importing the wgpu package adds the GPU device:
//
//	import _ "github.com/gogpu/batch/backend/wgpu"
//
// Open creates a named device, and Default tries the registered devices in
// priority order (wgpu first, software last):
//
//	dev, name, err := backend.Default(800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer backend.Release(dev)
//
// # Available Backends
//
//   - "software": CPU rasterizer, always available
//   - "wgpu": Vulkan through gogpu/wgpu, offscreen with readback
package backend
