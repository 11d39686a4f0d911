//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoAdapter is returned by OpenDefault when no GPU adapter is available.
var ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

// halProvider is implemented by device providers that expose their
// underlying HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewDeviceFromProvider creates a quad device sharing the GPU device of a
// host application such as a gogpu window.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, ErrNilHALDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider %T does not expose HAL device", provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider HalDevice is %T, not hal.Device", hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider HalQueue is %T, not hal.Queue", hp.HalQueue())
	}
	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithSurfaceFormat(format)}, opts...)
	}
	return NewDevice(device, queue, opts...)
}

// AdapterInfo describes the adapter a device was opened on.
type AdapterInfo struct {
	Name string
	Type gputypes.DeviceType
}

// OpenDefault opens a standalone Vulkan device, preferring discrete and
// integrated GPUs. Destroy releases the device and instance.
func OpenDefault(opts ...Option) (*Device, AdapterInfo, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, AdapterInfo{}, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, AdapterInfo{}, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, AdapterInfo{}, ErrNoAdapter
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, AdapterInfo{}, fmt.Errorf("wgpu: open device: %w", err)
	}
	d, err := NewDevice(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, AdapterInfo{}, err
	}
	d.release = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}

	info := AdapterInfo{
		Name: selected.Info.Name,
		Type: selected.Info.DeviceType,
	}
	slogger().Info("wgpu: device opened", "adapter", info.Name, "type", info.Type)
	return d, info, nil
}

// selectAdapter returns the first discrete or integrated GPU, or the first
// adapter when there is none.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}
