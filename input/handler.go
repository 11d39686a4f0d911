// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package input

// Handler receives dispatched events, one method per variant.
type Handler interface {
	Quit()
	KeyDown(e KeyDown)
	KeyUp(e KeyUp)
	MouseMove(e MouseMove)
	MouseWheel(e MouseWheel)
	MouseButton(e MouseButton)
}

// Quitter is implemented by handlers that can ask the frame loop to stop.
type Quitter interface {
	QuitRequested() bool
}

// Dispatch calls the Handler method matching e's variant.
// A nil handler or event is ignored.
func Dispatch(h Handler, e Event) {
	if h == nil || e == nil {
		return
	}
	switch ev := e.(type) {
	case Quit:
		h.Quit()
	case KeyDown:
		h.KeyDown(ev)
	case KeyUp:
		h.KeyUp(ev)
	case MouseMove:
		h.MouseMove(ev)
	case MouseWheel:
		h.MouseWheel(ev)
	case MouseButton:
		h.MouseButton(ev)
	}
}

// DispatchAll dispatches events in order.
func DispatchAll(h Handler, events []Event) {
	for _, e := range events {
		Dispatch(h, e)
	}
}

// Funcs adapts optional closures to Handler. Nil fields ignore the event.
type Funcs struct {
	OnQuit        func()
	OnKeyDown     func(KeyDown)
	OnKeyUp       func(KeyUp)
	OnMouseMove   func(MouseMove)
	OnMouseWheel  func(MouseWheel)
	OnMouseButton func(MouseButton)
}

var _ Handler = Funcs{}

func (f Funcs) Quit() {
	if f.OnQuit != nil {
		f.OnQuit()
	}
}

func (f Funcs) KeyDown(e KeyDown) {
	if f.OnKeyDown != nil {
		f.OnKeyDown(e)
	}
}

func (f Funcs) KeyUp(e KeyUp) {
	if f.OnKeyUp != nil {
		f.OnKeyUp(e)
	}
}

func (f Funcs) MouseMove(e MouseMove) {
	if f.OnMouseMove != nil {
		f.OnMouseMove(e)
	}
}

func (f Funcs) MouseWheel(e MouseWheel) {
	if f.OnMouseWheel != nil {
		f.OnMouseWheel(e)
	}
}

func (f Funcs) MouseButton(e MouseButton) {
	if f.OnMouseButton != nil {
		f.OnMouseButton(e)
	}
}

// Multi fans events out to several handlers in order.
type Multi []Handler

var _ Handler = Multi(nil)

func (m Multi) Quit() {
	for _, h := range m {
		h.Quit()
	}
}

func (m Multi) KeyDown(e KeyDown) {
	for _, h := range m {
		h.KeyDown(e)
	}
}

func (m Multi) KeyUp(e KeyUp) {
	for _, h := range m {
		h.KeyUp(e)
	}
}

func (m Multi) MouseMove(e MouseMove) {
	for _, h := range m {
		h.MouseMove(e)
	}
}

func (m Multi) MouseWheel(e MouseWheel) {
	for _, h := range m {
		h.MouseWheel(e)
	}
}

func (m Multi) MouseButton(e MouseButton) {
	for _, h := range m {
		h.MouseButton(e)
	}
}

// QuitRequested reports whether any member handler asked to quit.
func (m Multi) QuitRequested() bool {
	for _, h := range m {
		if q, ok := h.(Quitter); ok && q.QuitRequested() {
			return true
		}
	}
	return false
}
