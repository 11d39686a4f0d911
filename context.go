// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"fmt"

	"github.com/gogpu/batch/input"
)

// Window is the host surface a Context runs against.
type Window interface {
	// PollEvents returns the events that arrived since the previous call.
	PollEvents() []input.Event

	// DrawableSize returns the render target size in pixels.
	DrawableSize() (width, height int)
}

// DrawFunc fills the store for one frame. The store is already cleared.
type DrawFunc func(s *Store)

// Context holds everything one frame loop needs: the device, the window,
// the store and the renderer that flushes it. It replaces process-wide
// render state; create one per window and pass it where it is needed.
//
// A Context is single-threaded. Frame and Run must be called from one
// goroutine.
type Context struct {
	device   Device
	window   Window
	store    *Store
	renderer *Renderer
	handler  input.Handler
	clear    Color

	width, height int
	sized         bool
	frames        uint64
	quit          bool
}

// NewContext creates a frame context. win may be nil for headless
// rendering, in which case WithSize gives the target size.
func NewContext(dev Device, win Window, opts ...ContextOption) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r, err := NewRenderer(dev)
	if err != nil {
		return nil, err
	}
	s := o.store
	if s == nil {
		s = NewStore(o.capacity)
	}

	c := &Context{
		device:   dev,
		window:   win,
		store:    s,
		renderer: r,
		handler:  o.handler,
		clear:    o.clear,
		width:    o.width,
		height:   o.height,
	}
	if err := c.syncSize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Store returns the store frames draw into.
func (c *Context) Store() *Store { return c.store }

// Renderer returns the renderer used to flush frames.
func (c *Context) Renderer() *Renderer { return c.renderer }

// Device returns the context's device.
func (c *Context) Device() Device { return c.device }

// Size returns the current drawable size.
func (c *Context) Size() (width, height int) { return c.width, c.height }

// Frames returns the number of frames submitted.
func (c *Context) Frames() uint64 { return c.frames }

// SetClearColor changes the clear color for subsequent frames.
func (c *Context) SetClearColor(col Color) { c.clear = col }

// RequestQuit makes the next Frame return false without rendering.
func (c *Context) RequestQuit() { c.quit = true }

// Frame runs one step of the loop:
//
//	poll events, dispatch them, stop on quit
//	follow drawable size changes
//	clear the store, call draw
//	begin frame, flush, submit
//
// It returns false once the application should stop. A frame that fails
// part way is not retried.
func (c *Context) Frame(draw DrawFunc) (bool, error) {
	if c.window != nil {
		for _, e := range c.window.PollEvents() {
			if _, ok := e.(input.Quit); ok {
				c.quit = true
			}
			input.Dispatch(c.handler, e)
		}
	}
	if q, ok := c.handler.(input.Quitter); ok && q.QuitRequested() {
		c.quit = true
	}
	if c.quit {
		return false, nil
	}

	if err := c.syncSize(); err != nil {
		return false, err
	}

	c.store.Clear()
	if draw != nil {
		draw(c.store)
	}

	if err := c.device.BeginFrame(c.clear); err != nil {
		return false, fmt.Errorf("batch: begin frame: %w", err)
	}
	if err := c.renderer.Flush(c.store); err != nil {
		return false, err
	}
	if err := c.device.Submit(); err != nil {
		return false, fmt.Errorf("batch: submit frame: %w", err)
	}
	c.frames++
	return true, nil
}

// Run calls Frame until the application quits, ctx is cancelled or a
// frame fails. Cancellation returns ctx.Err().
func (c *Context) Run(ctx context.Context, draw DrawFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := c.Frame(draw)
		if err != nil {
			return err
		}
		if !more {
			Logger().Info("batch: frame loop finished", "frames", c.frames)
			return nil
		}
	}
}

// syncSize forwards drawable size changes to a resizable device.
func (c *Context) syncSize() error {
	w, h := c.width, c.height
	if c.window != nil {
		w, h = c.window.DrawableSize()
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	changed := !c.sized || w != c.width || h != c.height
	c.width, c.height = w, h
	if !changed {
		return nil
	}
	if rs, ok := c.device.(Resizer); ok {
		if err := rs.Resize(w, h); err != nil {
			return fmt.Errorf("batch: resize target to %dx%d: %w", w, h, err)
		}
	}
	c.sized = true
	return nil
}
