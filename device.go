// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"image"
	"log/slog"
)

// Device is the graphics collaborator a Renderer flushes into.
//
// A frame is BeginFrame, then zero or one flush, then Submit. A flush is:
//
//	ResizeBuffers  only when the store capacity changed since the last flush
//	MapTransfer    obtain staging memory
//	UnmapTransfer  after count quads were copied in
//	Upload         copy count*QuadSize bytes from staging to storage
//	Draw           one draw of count*6 vertices
//
// Implementations live in the software and backend/wgpu packages.
type Device interface {
	// BeginFrame acquires the render target and begins recording. The
	// target is cleared to clear.
	BeginFrame(clear Color) error

	// ResizeBuffers recreates the transfer and storage buffers with size
	// bytes each. Previous contents are discarded.
	ResizeBuffers(size uint64) error

	// MapTransfer returns the CPU-visible staging memory. The slice is
	// valid until UnmapTransfer.
	MapTransfer() ([]byte, error)

	// UnmapTransfer releases the mapping obtained by MapTransfer.
	UnmapTransfer() error

	// Upload copies size bytes from the start of the transfer buffer to the
	// start of the storage buffer.
	Upload(size uint64) error

	// Draw issues one draw call reading quads from the storage buffer.
	Draw(vertexCount uint32) error

	// Submit finishes the frame and presents it.
	Submit() error
}

// TextureBinder is implemented by devices that can bind a texture for
// quads with UseTexture set. The image is uploaded as-is; binding the same
// image again after modifying it re-uploads the pixels.
type TextureBinder interface {
	SetTexture(img *image.RGBA) error
}

// Resizer is implemented by devices whose render target follows the
// window's drawable size.
type Resizer interface {
	Resize(width, height int) error
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a device if it implements
// loggerSetter.
func propagateLogger(d Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
