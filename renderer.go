// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"errors"
	"fmt"
	"sync"
)

// Stats reports what a Renderer has submitted so far.
type Stats struct {
	// Flushes counts flushes that issued a draw.
	Flushes uint64

	// Quads is the total number of quads drawn.
	Quads uint64

	// Resizes counts buffer reallocations.
	Resizes uint64

	// BufferCapacity is the quad capacity the device buffers are sized for.
	BufferCapacity int
}

// Renderer moves the contents of a Store to a Device.
//
// It remembers the capacity the device buffers were last sized for and
// only reallocates them when the store has grown since. Renderer is not
// safe for concurrent Flush calls.
type Renderer struct {
	device Device

	// bufferCap is the store capacity the device buffers currently hold.
	// Zero means the buffers have not been created yet.
	bufferCap int

	mu    sync.Mutex
	stats Stats
}

// NewRenderer creates a renderer for dev and passes it the current logger.
func NewRenderer(dev Device) (*Renderer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	propagateLogger(dev, Logger())
	return &Renderer{device: dev}, nil
}

// Device returns the device the renderer flushes into.
func (r *Renderer) Device() Device {
	return r.device
}

// Flush uploads the quads in s and issues a single draw.
//
// An empty store is a no-op: no buffer is touched and nothing is drawn.
// Device errors are wrapped and returned without retry. A failed resize
// leaves the recorded buffer capacity unchanged so the next flush tries
// again.
func (r *Renderer) Flush(s *Store) error {
	if s == nil {
		return ErrNilStore
	}
	count := s.Len()
	if count == 0 {
		return nil
	}

	if c := s.Cap(); c != r.bufferCap {
		size := uint64(c) * QuadSize
		Logger().Debug("batch: resizing buffers", "quads", c, "bytes", size)
		if err := r.device.ResizeBuffers(size); err != nil {
			return fmt.Errorf("batch: resize buffers to %d bytes: %w", size, err)
		}
		r.bufferCap = c
		r.mu.Lock()
		r.stats.Resizes++
		r.stats.BufferCapacity = c
		r.mu.Unlock()
	}

	staging, err := r.device.MapTransfer()
	if err != nil {
		return fmt.Errorf("batch: map transfer buffer: %w", err)
	}
	_, encErr := EncodeQuads(staging, s.Quads())
	if encErr != nil {
		encErr = fmt.Errorf("batch: copy %d quads into %d staging bytes: %w", count, len(staging), encErr)
	}
	if err := r.device.UnmapTransfer(); err != nil {
		return errors.Join(encErr, fmt.Errorf("batch: unmap transfer buffer: %w", err))
	}
	if encErr != nil {
		return encErr
	}

	size := uint64(count) * QuadSize
	if err := r.device.Upload(size); err != nil {
		return fmt.Errorf("batch: upload %d bytes: %w", size, err)
	}

	if err := r.device.Draw(uint32(count) * VerticesPerQuad); err != nil {
		return fmt.Errorf("batch: draw %d quads: %w", count, err)
	}

	r.mu.Lock()
	r.stats.Flushes++
	r.stats.Quads += uint64(count)
	r.mu.Unlock()
	return nil
}

// Stats returns a snapshot of the renderer counters.
// Safe to call from a goroutine other than the one flushing.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
