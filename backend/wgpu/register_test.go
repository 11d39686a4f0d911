//go:build !nogpu

package wgpu

import (
	"testing"

	"github.com/gogpu/batch/backend"
)

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.WGPU) {
		t.Fatalf("wgpu not registered; have %v", backend.Available())
	}
}

func TestPixelsThroughBackend(t *testing.T) {
	d := newTestDevice(t, 16, 8)
	if got := backend.Pixels(d); got != d.Pixels() {
		t.Error("backend.Pixels did not return the device's readback image")
	}
}
