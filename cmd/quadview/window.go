package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/batch/input"
)

// window adapts ebiten's polled input state to batch.Window. collect runs
// once per tick and turns state changes into events.
type window struct {
	width, height int
	events        []input.Event
	keys          []ebiten.Key
	lastX, lastY  int
	seen          bool
}

func (w *window) PollEvents() []input.Event {
	ev := w.events
	w.events = nil
	return ev
}

func (w *window) DrawableSize() (int, int) { return w.width, w.height }

func (w *window) collect() {
	if ebiten.IsWindowBeingClosed() {
		w.events = append(w.events, input.Quit{})
	}

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		if key := mapKey(k); key != input.KeyUnknown {
			w.events = append(w.events, input.KeyDown{Key: key})
		}
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, k := range w.keys {
		if key := mapKey(k); key != input.KeyUnknown {
			w.events = append(w.events, input.KeyUp{Key: key})
		}
	}

	x, y := ebiten.CursorPosition()
	if w.seen && (x != w.lastX || y != w.lastY) {
		w.events = append(w.events, input.MouseMove{
			X: float32(x), Y: float32(y),
			DX: float32(x - w.lastX), DY: float32(y - w.lastY),
		})
	}
	w.lastX, w.lastY, w.seen = x, y, true

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		w.events = append(w.events, input.MouseWheel{DX: float32(dx), DY: float32(dy)})
	}

	for _, b := range []struct {
		eb ebiten.MouseButton
		in input.Button
	}{
		{ebiten.MouseButtonLeft, input.ButtonLeft},
		{ebiten.MouseButtonMiddle, input.ButtonMiddle},
		{ebiten.MouseButtonRight, input.ButtonRight},
	} {
		switch {
		case inpututil.IsMouseButtonJustPressed(b.eb):
			w.events = append(w.events, input.MouseButton{Button: b.in, Down: true, X: float32(x), Y: float32(y)})
		case inpututil.IsMouseButtonJustReleased(b.eb):
			w.events = append(w.events, input.MouseButton{Button: b.in, Down: false, X: float32(x), Y: float32(y)})
		}
	}
}

func mapKey(k ebiten.Key) input.Key {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return input.Key('a' + rune(k-ebiten.KeyA))
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return input.Key('0' + rune(k-ebiten.KeyDigit0))
	}
	switch k {
	case ebiten.KeyEscape:
		return input.KeyEscape
	case ebiten.KeySpace:
		return input.KeySpace
	case ebiten.KeyEnter:
		return input.KeyEnter
	case ebiten.KeyArrowUp:
		return input.KeyArrowUp
	case ebiten.KeyArrowDown:
		return input.KeyArrowDown
	case ebiten.KeyArrowLeft:
		return input.KeyArrowLeft
	case ebiten.KeyArrowRight:
		return input.KeyArrowRight
	case ebiten.KeyPageUp:
		return input.KeyPageUp
	case ebiten.KeyPageDown:
		return input.KeyPageDown
	case ebiten.KeyHome:
		return input.KeyHome
	case ebiten.KeyEnd:
		return input.KeyEnd
	}
	return input.KeyUnknown
}
