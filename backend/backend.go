package backend

import (
	"errors"
	"image"

	"github.com/gogpu/batch"
)

// Backend names.
const (
	Software = "software"
	WGPU     = "wgpu"
)

// ErrNotAvailable is returned when no registered backend matches.
var ErrNotAvailable = errors.New("backend: not available")

// Factory creates a device for a width x height offscreen target.
type Factory func(width, height int) (batch.Device, error)

// Readback is implemented by devices whose last submitted frame can be read
// on the CPU.
type Readback interface {
	Pixels() *image.RGBA
}

type imager interface {
	Image() *image.RGBA
}

// Pixels returns the last frame of dev, or nil when the device cannot read
// it back.
func Pixels(dev batch.Device) *image.RGBA {
	switch d := dev.(type) {
	case Readback:
		return d.Pixels()
	case imager:
		return d.Image()
	}
	return nil
}

// Release frees dev's resources if it holds any.
func Release(dev batch.Device) {
	if d, ok := dev.(interface{ Destroy() }); ok {
		d.Destroy()
	}
}
