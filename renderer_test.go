package batch

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// recordingDevice is an in-memory Device that logs every call.
type recordingDevice struct {
	calls    []string
	transfer []byte
	storage  []byte

	resizeErr error
	mapErr    error
	unmapErr  error
	uploadErr error
	drawErr   error

	draws []uint32
}

func (d *recordingDevice) BeginFrame(Color) error {
	d.calls = append(d.calls, "begin")
	return nil
}

func (d *recordingDevice) ResizeBuffers(size uint64) error {
	d.calls = append(d.calls, fmt.Sprintf("resize(%d)", size))
	if d.resizeErr != nil {
		return d.resizeErr
	}
	d.transfer = make([]byte, size)
	d.storage = make([]byte, size)
	return nil
}

func (d *recordingDevice) MapTransfer() ([]byte, error) {
	d.calls = append(d.calls, "map")
	if d.mapErr != nil {
		return nil, d.mapErr
	}
	return d.transfer, nil
}

func (d *recordingDevice) UnmapTransfer() error {
	d.calls = append(d.calls, "unmap")
	return d.unmapErr
}

func (d *recordingDevice) Upload(size uint64) error {
	d.calls = append(d.calls, fmt.Sprintf("upload(%d)", size))
	if d.uploadErr != nil {
		return d.uploadErr
	}
	copy(d.storage[:size], d.transfer[:size])
	return nil
}

func (d *recordingDevice) Draw(n uint32) error {
	d.calls = append(d.calls, fmt.Sprintf("draw(%d)", n))
	if d.drawErr != nil {
		return d.drawErr
	}
	d.draws = append(d.draws, n)
	return nil
}

func (d *recordingDevice) Submit() error {
	d.calls = append(d.calls, "submit")
	return nil
}

func (d *recordingDevice) reset() { d.calls = nil }

func newTestRenderer(t *testing.T) (*Renderer, *recordingDevice) {
	t.Helper()
	dev := &recordingDevice{}
	r, err := NewRenderer(dev)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, dev
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewRendererNilDevice(t *testing.T) {
	if _, err := NewRenderer(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewRenderer(nil) error = %v, want ErrNilDevice", err)
	}
}

func TestFlushNilStore(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.Flush(nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("Flush(nil) error = %v, want ErrNilStore", err)
	}
}

func TestFlushProtocol(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := NewStore(4)
	s.Push(quadAt(1))
	s.Push(quadAt(2))

	if err := r.Flush(s); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := []string{
		fmt.Sprintf("resize(%d)", 4*QuadSize),
		"map", "unmap",
		fmt.Sprintf("upload(%d)", 2*QuadSize),
		"draw(12)",
	}
	if !equalCalls(dev.calls, want) {
		t.Errorf("calls = %v, want %v", dev.calls, want)
	}

	got := DecodeQuads(dev.storage[:2*QuadSize])
	if got[0] != s.At(0) || got[1] != s.At(1) {
		t.Errorf("storage holds %+v, want store contents", got)
	}
}

func TestFlushResizesOnlyWhenCapacityChanges(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := NewStore(2)
	s.Push(quadAt(1))
	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}

	dev.reset()
	s.Clear()
	s.Push(quadAt(1))
	s.Push(quadAt(2))
	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}
	if dev.calls[0] != "map" {
		t.Errorf("unchanged capacity flush began with %q, want map", dev.calls[0])
	}

	dev.reset()
	s.Push(quadAt(3))
	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("resize(%d)", 4*QuadSize); dev.calls[0] != want {
		t.Errorf("grown store flush began with %q, want %q", dev.calls[0], want)
	}
	if st := r.Stats(); st.Resizes != 2 || st.BufferCapacity != 4 {
		t.Errorf("Stats() = %+v, want 2 resizes at capacity 4", st)
	}
}

func TestFlushEmptyStoreIsNoop(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := NewStore(2)
	s.Push(quadAt(1))
	s.Clear()

	if err := r.Flush(s); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(dev.calls) != 0 {
		t.Errorf("empty flush made calls %v, want none", dev.calls)
	}
	if st := r.Stats(); st.Flushes != 0 {
		t.Errorf("Stats().Flushes = %d, want 0", st.Flushes)
	}
}

func TestFlushTwiceIsByteIdentical(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := NewStore(2)
	s.Push(RoundedRect(Rect{X: 1, Y: 2, W: 3, H: 4}, RGBA(0.1, 0.2, 0.3, 0.4), 2).WithBorder(Red, 1))
	s.Push(quadAt(7))
	s.Push(Textured(Rect{W: 8, H: 8}, Rect{X: 0.5, W: 0.25, H: 0.25}, Blue))

	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}
	n := s.Len() * QuadSize
	first := bytes.Clone(dev.transfer[:n])

	// Scribble over the staging area; the next flush must rewrite it.
	for i := range dev.transfer {
		dev.transfer[i] = 0xAA
	}
	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, dev.transfer[:n]) {
		t.Error("second flush produced different staging bytes")
	}
	if len(dev.draws) != 2 || dev.draws[0] != dev.draws[1] {
		t.Errorf("draws = %v, want two identical draws", dev.draws)
	}
}

func TestFlushWrapsDeviceErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*recordingDevice)
		stop  string
	}{
		{"resize", func(d *recordingDevice) { d.resizeErr = boom }, "resize"},
		{"map", func(d *recordingDevice) { d.mapErr = boom }, "map"},
		{"upload", func(d *recordingDevice) { d.uploadErr = boom }, "upload"},
		{"draw", func(d *recordingDevice) { d.drawErr = boom }, "draw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dev := newTestRenderer(t)
			tt.setup(dev)
			s := NewStore(2)
			s.Push(quadAt(1))

			err := r.Flush(s)
			if !errors.Is(err, boom) {
				t.Fatalf("Flush error = %v, want wrapped boom", err)
			}
			last := dev.calls[len(dev.calls)-1]
			if !bytes.HasPrefix([]byte(last), []byte(tt.stop)) {
				t.Errorf("last call = %q, want %s (no retry, nothing after)", last, tt.stop)
			}
		})
	}
}

func TestFlushKeepsEncodeErrorWhenUnmapFails(t *testing.T) {
	r, dev := newTestRenderer(t)
	unmapFail := errors.New("unmap failed")
	dev.unmapErr = unmapFail
	s := NewStore(2)
	s.Push(quadAt(1))
	// Resize once, then shrink the transfer buffer so encoding runs short.
	if err := r.Flush(s); !errors.Is(err, unmapFail) {
		t.Fatalf("Flush error = %v, want unmap failure", err)
	}
	dev.transfer = dev.transfer[:QuadSize-1]

	err := r.Flush(s)
	if !errors.Is(err, unmapFail) {
		t.Errorf("Flush error = %v, want unmap failure", err)
	}
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Flush error = %v, want ErrShortBuffer kept", err)
	}
}

func TestFlushRetriesResizeAfterFailure(t *testing.T) {
	r, dev := newTestRenderer(t)
	dev.resizeErr = errors.New("out of memory")
	s := NewStore(2)
	s.Push(quadAt(1))
	if err := r.Flush(s); err == nil {
		t.Fatal("Flush succeeded with failing resize")
	}

	dev.resizeErr = nil
	dev.reset()
	if err := r.Flush(s); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("resize(%d)", 2*QuadSize); dev.calls[0] != want {
		t.Errorf("calls[0] = %q, want %q", dev.calls[0], want)
	}
}

func TestFlushStats(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := NewStore(8)
	for i := range 5 {
		s.Push(quadAt(float32(i)))
	}
	for range 3 {
		if err := r.Flush(s); err != nil {
			t.Fatal(err)
		}
	}
	st := r.Stats()
	if st.Flushes != 3 || st.Quads != 15 || st.Resizes != 1 {
		t.Errorf("Stats() = %+v, want 3 flushes, 15 quads, 1 resize", st)
	}
}
