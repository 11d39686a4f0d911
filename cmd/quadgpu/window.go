package main

import (
	"errors"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/batch/input"
)

// window queues gogpu's pushed events until the frame loop polls them.
// Callbacks may arrive on the platform thread, so the queue is locked.
type window struct {
	mu            sync.Mutex
	events        []input.Event
	width, height int
	lastX, lastY  float64
	seen          bool

	// onKey runs on every key press before the key is queued.
	onKey func(gpucontext.Key)
}

func newWindow(width, height int) *window {
	return &window{width: width, height: height}
}

func (w *window) PollEvents() []input.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	ev := w.events
	w.events = nil
	return ev
}

func (w *window) DrawableSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *window) setSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

func (w *window) push(e input.Event) {
	w.mu.Lock()
	w.events = append(w.events, e)
	w.mu.Unlock()
}

func (w *window) attach(src gpucontext.EventSource) {
	src.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		if w.onKey != nil {
			w.onKey(k)
		}
		if key := mapKey(k); key != input.KeyUnknown {
			w.push(input.KeyDown{Key: key})
		}
	})
	src.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		if key := mapKey(k); key != input.KeyUnknown {
			w.push(input.KeyUp{Key: key})
		}
	})
	src.OnMouseMove(func(x, y float64) {
		w.mu.Lock()
		var dx, dy float64
		if w.seen {
			dx, dy = x-w.lastX, y-w.lastY
		}
		w.lastX, w.lastY, w.seen = x, y, true
		w.events = append(w.events, input.MouseMove{
			X: float32(x), Y: float32(y),
			DX: float32(dx), DY: float32(dy),
		})
		w.mu.Unlock()
	})
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		if btn, ok := mapButton(b); ok {
			w.push(input.MouseButton{Button: btn, Down: true, X: float32(x), Y: float32(y)})
		}
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		if btn, ok := mapButton(b); ok {
			w.push(input.MouseButton{Button: btn, Down: false, X: float32(x), Y: float32(y)})
		}
	})
	src.OnScroll(func(dx, dy float64) {
		w.push(input.MouseWheel{DX: float32(dx), DY: float32(dy)})
	})
	src.OnResize(func(width, height int) {
		w.setSize(width, height)
	})
}

func mapButton(b gpucontext.MouseButton) (input.Button, bool) {
	switch b {
	case gpucontext.MouseButtonLeft:
		return input.ButtonLeft, true
	case gpucontext.MouseButtonMiddle:
		return input.ButtonMiddle, true
	case gpucontext.MouseButtonRight:
		return input.ButtonRight, true
	}
	return 0, false
}

func mapKey(k gpucontext.Key) input.Key {
	switch {
	case k >= gpucontext.KeyA && k <= gpucontext.KeyZ:
		return input.Key('a' + rune(k-gpucontext.KeyA))
	case k >= gpucontext.Key0 && k <= gpucontext.Key9:
		return input.Key('0' + rune(k-gpucontext.Key0))
	}
	switch k {
	case gpucontext.KeyEscape:
		return input.KeyEscape
	case gpucontext.KeySpace:
		return input.KeySpace
	case gpucontext.KeyEnter:
		return input.KeyEnter
	case gpucontext.KeyUp:
		return input.KeyArrowUp
	case gpucontext.KeyDown:
		return input.KeyArrowDown
	case gpucontext.KeyLeft:
		return input.KeyArrowLeft
	case gpucontext.KeyRight:
		return input.KeyArrowRight
	case gpucontext.KeyPageUp:
		return input.KeyPageUp
	case gpucontext.KeyPageDown:
		return input.KeyPageDown
	case gpucontext.KeyHome:
		return input.KeyHome
	case gpucontext.KeyEnd:
		return input.KeyEnd
	}
	return input.KeyUnknown
}

var errNoCreator = errors.New("quadgpu: host has no texture creator")

// blitter presents offscreen pixels through the host's texture drawer when
// the swapchain view is not reachable.
type blitter struct {
	tex    gpucontext.Texture
	width  int
	height int
}

func (b *blitter) draw(dc gpucontext.TextureDrawer, img *image.RGBA) error {
	if dc == nil || img == nil {
		return nil
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if up, ok := b.tex.(gpucontext.TextureUpdater); ok && b.width == w && b.height == h {
		if err := up.UpdateData(img.Pix); err != nil {
			return err
		}
		return dc.DrawTexture(b.tex, 0, 0)
	}
	creator := dc.TextureCreator()
	if creator == nil {
		return errNoCreator
	}
	tex, err := creator.NewTextureFromRGBA(w, h, img.Pix)
	if err != nil {
		return err
	}
	b.tex, b.width, b.height = tex, w, h
	return dc.DrawTexture(tex, 0, 0)
}
