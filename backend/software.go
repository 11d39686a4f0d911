package backend

import (
	"github.com/gogpu/batch"
	"github.com/gogpu/batch/software"
)

func init() {
	Register(Software, func(width, height int) (batch.Device, error) {
		return software.New(width, height), nil
	})
}
