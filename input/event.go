// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package input defines the window events a batch host delivers each frame
// and routes them to handlers.
//
// Event is a closed set of variants. Hosts translate their native events
// (ebiten, gogpu, or a test script) into these values and Dispatch calls the
// matching Handler method.
package input

import (
	"fmt"
	"unicode/utf8"
)

// Key identifies a keyboard key. Printable keys use their lowercase rune.
type Key rune

// Named keys outside the printable range.
const (
	KeyUnknown Key = 0
	KeyEscape  Key = 0x1b
	KeySpace   Key = ' '
	KeyEnter   Key = '\r'
	KeyArrowUp Key = 0x110000 + iota
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

// String returns a readable key name.
func (k Key) String() string {
	switch k {
	case KeyUnknown:
		return "unknown"
	case KeyEscape:
		return "escape"
	case KeySpace:
		return "space"
	case KeyEnter:
		return "enter"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	case KeyPageUp:
		return "pageup"
	case KeyPageDown:
		return "pagedown"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	}
	if !utf8.ValidRune(rune(k)) {
		return fmt.Sprintf("key(%d)", k)
	}
	return string(rune(k))
}

// Button identifies a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// Event is one window event. The concrete type is one of Quit, KeyDown,
// KeyUp, MouseMove, MouseWheel or MouseButton.
type Event interface {
	fmt.Stringer
	event()
}

// Quit asks the application to stop.
type Quit struct{}

// KeyDown reports a key press.
type KeyDown struct {
	Key Key
}

// KeyUp reports a key release.
type KeyUp struct {
	Key Key
}

// MouseMove reports pointer motion. DX and DY are relative to the previous
// position.
type MouseMove struct {
	X, Y   float32
	DX, DY float32
}

// MouseWheel reports wheel motion in notches. Positive DY scrolls up.
type MouseWheel struct {
	DX, DY float32
}

// MouseButton reports a button press (Down) or release.
type MouseButton struct {
	Button Button
	Down   bool
	X, Y   float32
}

func (Quit) event()        {}
func (KeyDown) event()     {}
func (KeyUp) event()       {}
func (MouseMove) event()   {}
func (MouseWheel) event()  {}
func (MouseButton) event() {}

func (Quit) String() string { return "quit" }

func (e KeyDown) String() string { return "keydown(" + e.Key.String() + ")" }

func (e KeyUp) String() string { return "keyup(" + e.Key.String() + ")" }

func (e MouseMove) String() string {
	return fmt.Sprintf("mousemove(%g,%g d=%g,%g)", e.X, e.Y, e.DX, e.DY)
}

func (e MouseWheel) String() string { return fmt.Sprintf("wheel(%g,%g)", e.DX, e.DY) }

func (e MouseButton) String() string {
	state := "up"
	if e.Down {
		state = "down"
	}
	return fmt.Sprintf("button(%d %s at %g,%g)", e.Button, state, e.X, e.Y)
}
