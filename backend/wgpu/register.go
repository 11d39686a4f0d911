//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/batch"
	"github.com/gogpu/batch/backend"
)

var _ backend.Readback = (*Device)(nil)

func init() {
	backend.Register(backend.WGPU, func(width, height int) (batch.Device, error) {
		d, _, err := OpenDefault(WithSize(width, height))
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
