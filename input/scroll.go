package input

// WheelStep is the scroll distance in pixels for one wheel notch.
const WheelStep = 20

// Scroller tracks a vertical scroll offset driven by the wheel and by
// dragging with the left button held. Q and Escape request quit, as does a
// Quit event.
//
// The zero value is ready to use.
type Scroller struct {
	// Offset is the accumulated scroll distance in pixels.
	Offset float32

	// Min and Max bound Offset when Max > Min.
	Min, Max float32

	dragging bool
	quit     bool
}

var (
	_ Handler = (*Scroller)(nil)
	_ Quitter = (*Scroller)(nil)
)

func (s *Scroller) Quit() { s.quit = true }

func (s *Scroller) KeyDown(e KeyDown) {
	switch e.Key {
	case 'q', KeyEscape:
		s.quit = true
	case KeyArrowUp:
		s.scroll(WheelStep)
	case KeyArrowDown:
		s.scroll(-WheelStep)
	case KeyHome:
		s.Offset = 0
		s.scroll(0)
	}
}

func (s *Scroller) KeyUp(KeyUp) {}

func (s *Scroller) MouseMove(e MouseMove) {
	if s.dragging {
		s.scroll(e.DY)
	}
}

func (s *Scroller) MouseWheel(e MouseWheel) {
	s.scroll(e.DY * WheelStep)
}

func (s *Scroller) MouseButton(e MouseButton) {
	if e.Button == ButtonLeft {
		s.dragging = e.Down
	}
}

// Dragging reports whether the left button is held.
func (s *Scroller) Dragging() bool { return s.dragging }

// QuitRequested reports whether a quit key or Quit event was seen.
func (s *Scroller) QuitRequested() bool { return s.quit }

func (s *Scroller) scroll(d float32) {
	s.Offset += d
	if s.Max > s.Min {
		s.Offset = min(max(s.Offset, s.Min), s.Max)
	}
}
