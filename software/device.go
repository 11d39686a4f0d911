// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements batch.Device on the CPU.
//
// The device keeps its transfer and storage buffers as byte slices and
// decodes quads from the storage buffer at draw time, so it exercises the
// exact encoded layout the GPU shader reads. Rendering evaluates the same
// rounded-rect distance field as the fragment shader into an *image.RGBA.
//
// It is the device used by headless rendering, the ebiten viewer and tests.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/gogpu/batch"
)

var (
	// ErrNoFrame is returned by Draw and Submit outside BeginFrame/Submit.
	ErrNoFrame = errors.New("software: no frame in progress")

	// ErrMapped is returned when the transfer buffer is mapped twice.
	ErrMapped = errors.New("software: transfer buffer already mapped")

	// ErrNotMapped is returned by UnmapTransfer without a prior MapTransfer.
	ErrNotMapped = errors.New("software: transfer buffer not mapped")

	// ErrOutOfRange is returned when an upload or draw exceeds the buffers.
	ErrOutOfRange = errors.New("software: range exceeds buffer size")

	// ErrInvalidSize is returned for non-positive target dimensions.
	ErrInvalidSize = errors.New("software: invalid target size")
)

// Stats counts the work a Device has done.
type Stats struct {
	Frames  uint64
	Draws   uint64
	Quads   uint64
	Uploads uint64
	Resizes uint64
}

// Device is a CPU implementation of batch.Device.
// It is not safe for concurrent use.
type Device struct {
	target   *image.RGBA
	texture  *image.RGBA
	transfer []byte
	storage  []byte

	mapped  bool
	inFrame bool
	stats   Stats
}

var (
	_ batch.Device        = (*Device)(nil)
	_ batch.TextureBinder = (*Device)(nil)
	_ batch.Resizer       = (*Device)(nil)
)

// New creates a device rendering into a width x height image.
func New(width, height int) *Device {
	d := &Device{}
	if width > 0 && height > 0 {
		d.target = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return d
}

// SetLogger sets the package logger. Called by batch when a renderer is
// created for this device.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Resize replaces the render target. The previous image is discarded.
func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if d.target != nil && d.target.Rect.Dx() == width && d.target.Rect.Dy() == height {
		return nil
	}
	d.target = image.NewRGBA(image.Rect(0, 0, width, height))
	slogger().Debug("software: target resized", "width", width, "height", height)
	return nil
}

// BeginFrame clears the target to c.
func (d *Device) BeginFrame(c batch.Color) error {
	if d.target == nil {
		return fmt.Errorf("%w: no render target", ErrInvalidSize)
	}
	draw.Draw(d.target, d.target.Bounds(), image.NewUniform(color.Color(c)), image.Point{}, draw.Src)
	d.inFrame = true
	return nil
}

// ResizeBuffers reallocates both buffers to size bytes.
func (d *Device) ResizeBuffers(size uint64) error {
	if d.mapped {
		return ErrMapped
	}
	d.transfer = make([]byte, size)
	d.storage = make([]byte, size)
	d.stats.Resizes++
	slogger().Debug("software: buffers resized", "bytes", size)
	return nil
}

// MapTransfer returns the transfer buffer.
func (d *Device) MapTransfer() ([]byte, error) {
	if d.mapped {
		return nil, ErrMapped
	}
	d.mapped = true
	return d.transfer, nil
}

// UnmapTransfer ends the mapping.
func (d *Device) UnmapTransfer() error {
	if !d.mapped {
		return ErrNotMapped
	}
	d.mapped = false
	return nil
}

// Upload copies size bytes from the transfer to the storage buffer.
func (d *Device) Upload(size uint64) error {
	if d.mapped {
		return ErrMapped
	}
	if size > uint64(len(d.transfer)) || size > uint64(len(d.storage)) {
		return fmt.Errorf("%w: upload %d bytes into %d", ErrOutOfRange, size, len(d.storage))
	}
	copy(d.storage[:size], d.transfer[:size])
	d.stats.Uploads++
	return nil
}

// Draw rasterizes vertexCount/6 quads from the storage buffer in order.
func (d *Device) Draw(vertexCount uint32) error {
	if !d.inFrame {
		return ErrNoFrame
	}
	if vertexCount%batch.VerticesPerQuad != 0 {
		return fmt.Errorf("software: vertex count %d is not a multiple of %d", vertexCount, batch.VerticesPerQuad)
	}
	n := int(vertexCount / batch.VerticesPerQuad)
	if n*batch.QuadSize > len(d.storage) {
		return fmt.Errorf("%w: draw %d quads from %d bytes", ErrOutOfRange, n, len(d.storage))
	}
	for i := range n {
		q := batch.DecodeQuad(d.storage[i*batch.QuadSize:])
		rasterizeQuad(d.target, d.texture, &q)
	}
	d.stats.Draws++
	d.stats.Quads += uint64(n)
	return nil
}

// Submit ends the frame. The image is complete after Submit returns.
func (d *Device) Submit() error {
	if !d.inFrame {
		return ErrNoFrame
	}
	d.inFrame = false
	d.stats.Frames++
	return nil
}

// SetTexture binds a copy of img for textured quads. Passing nil unbinds;
// textured quads then draw with their corner colors only.
func (d *Device) SetTexture(img *image.RGBA) error {
	if img == nil {
		d.texture = nil
		return nil
	}
	d.texture = cloneRGBA(img)
	return nil
}

// Image returns the render target. It is overwritten by the next frame.
func (d *Device) Image() *image.RGBA {
	return d.target
}

// Snapshot returns a copy of the transfer buffer.
func (d *Device) Snapshot() []byte {
	return append([]byte(nil), d.transfer...)
}

// Storage returns a copy of the storage buffer.
func (d *Device) Storage() []byte {
	return append([]byte(nil), d.storage...)
}

// Stats returns the device counters.
func (d *Device) Stats() Stats {
	return d.stats
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Rect.Min, draw.Src)
	return dst
}
