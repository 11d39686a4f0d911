package input

import "testing"

type recorder struct {
	got []string
}

func (r *recorder) Quit()                     { r.got = append(r.got, "quit") }
func (r *recorder) KeyDown(e KeyDown)         { r.got = append(r.got, e.String()) }
func (r *recorder) KeyUp(e KeyUp)             { r.got = append(r.got, e.String()) }
func (r *recorder) MouseMove(e MouseMove)     { r.got = append(r.got, "move") }
func (r *recorder) MouseWheel(e MouseWheel)   { r.got = append(r.got, "wheel") }
func (r *recorder) MouseButton(e MouseButton) { r.got = append(r.got, "button") }

func TestDispatchRoutesEveryVariant(t *testing.T) {
	r := &recorder{}
	DispatchAll(r, []Event{
		Quit{},
		KeyDown{Key: 'a'},
		KeyUp{Key: KeySpace},
		MouseMove{X: 1, Y: 2},
		MouseWheel{DY: 1},
		MouseButton{Button: ButtonLeft, Down: true},
	})

	want := []string{"quit", "keydown(a)", "keyup(space)", "move", "wheel", "button"}
	if len(r.got) != len(want) {
		t.Fatalf("dispatched %d events, want %d: %v", len(r.got), len(want), r.got)
	}
	for i := range want {
		if r.got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, r.got[i], want[i])
		}
	}
}

func TestDispatchNil(t *testing.T) {
	Dispatch(nil, Quit{})
	r := &recorder{}
	Dispatch(r, nil)
	if len(r.got) != 0 {
		t.Errorf("nil event dispatched: %v", r.got)
	}
}

func TestFuncsIgnoresNilFields(t *testing.T) {
	var wheel float32
	f := Funcs{OnMouseWheel: func(e MouseWheel) { wheel = e.DY }}
	DispatchAll(f, []Event{Quit{}, KeyDown{Key: 'x'}, MouseWheel{DY: 3}})
	if wheel != 3 {
		t.Errorf("wheel = %v, want 3", wheel)
	}
}

func TestScrollerWheel(t *testing.T) {
	var s Scroller
	Dispatch(&s, MouseWheel{DY: 2})
	Dispatch(&s, MouseWheel{DY: -0.5})
	if want := float32(1.5 * WheelStep); s.Offset != want {
		t.Errorf("Offset = %v, want %v", s.Offset, want)
	}
}

func TestScrollerDrag(t *testing.T) {
	var s Scroller

	// Motion without a held button does not scroll.
	Dispatch(&s, MouseMove{DY: 15})
	if s.Offset != 0 {
		t.Fatalf("Offset = %v before drag, want 0", s.Offset)
	}

	DispatchAll(&s, []Event{
		MouseButton{Button: ButtonLeft, Down: true},
		MouseMove{DY: 10},
		MouseMove{DY: -4},
	})
	if !s.Dragging() {
		t.Error("Dragging() = false while button held")
	}
	if s.Offset != 6 {
		t.Errorf("Offset = %v, want 6", s.Offset)
	}

	DispatchAll(&s, []Event{
		MouseButton{Button: ButtonLeft, Down: false},
		MouseMove{DY: 100},
	})
	if s.Offset != 6 {
		t.Errorf("Offset = %v after release, want 6", s.Offset)
	}
}

func TestScrollerRightButtonDoesNotDrag(t *testing.T) {
	var s Scroller
	DispatchAll(&s, []Event{
		MouseButton{Button: ButtonRight, Down: true},
		MouseMove{DY: 10},
	})
	if s.Offset != 0 {
		t.Errorf("Offset = %v, want 0", s.Offset)
	}
}

func TestScrollerBounds(t *testing.T) {
	s := Scroller{Min: -50, Max: 0}
	Dispatch(&s, MouseWheel{DY: 5})
	if s.Offset != 0 {
		t.Errorf("Offset = %v, want clamped to 0", s.Offset)
	}
	Dispatch(&s, MouseWheel{DY: -10})
	if s.Offset != -50 {
		t.Errorf("Offset = %v, want clamped to -50", s.Offset)
	}
}

func TestScrollerQuit(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"q key", KeyDown{Key: 'q'}, true},
		{"escape", KeyDown{Key: KeyEscape}, true},
		{"quit event", Quit{}, true},
		{"other key", KeyDown{Key: 'w'}, false},
		{"q release", KeyUp{Key: 'q'}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scroller
			Dispatch(&s, tt.ev)
			if got := s.QuitRequested(); got != tt.want {
				t.Errorf("QuitRequested() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiQuitRequested(t *testing.T) {
	s := &Scroller{}
	m := Multi{&recorder{}, s}
	if m.QuitRequested() {
		t.Fatal("QuitRequested() = true before any event")
	}
	Dispatch(m, KeyDown{Key: 'q'})
	if !m.QuitRequested() {
		t.Error("QuitRequested() = false after q")
	}
}

func TestKeyString(t *testing.T) {
	if got := KeyArrowUp.String(); got != "up" {
		t.Errorf("KeyArrowUp.String() = %q", got)
	}
	if got := Key('z').String(); got != "z" {
		t.Errorf("Key('z').String() = %q", got)
	}
	if got := Key(0x110000).String(); got != "key(1114112)" {
		t.Errorf("Key(0x110000).String() = %q, want key(1114112)", got)
	}
}
