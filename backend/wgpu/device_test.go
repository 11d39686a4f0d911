//go:build !nogpu

package wgpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/batch"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestDevice(t *testing.T, w, h int) *Device {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	d, err := NewDevice(device, queue, WithSize(w, h))
	if err != nil {
		cleanup()
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() {
		d.Destroy()
		cleanup()
	})
	return d
}

func TestNewDeviceNil(t *testing.T) {
	if _, err := NewDevice(nil, nil); !errors.Is(err, ErrNilHALDevice) {
		t.Errorf("NewDevice(nil, nil) error = %v, want ErrNilHALDevice", err)
	}
	if _, err := NewDeviceFromProvider(nil); !errors.Is(err, ErrNilHALDevice) {
		t.Errorf("NewDeviceFromProvider(nil) error = %v, want ErrNilHALDevice", err)
	}
}

func TestBeginFrameNoTarget(t *testing.T) {
	d := newTestDevice(t, 0, 0)
	if err := d.BeginFrame(batch.Black); !errors.Is(err, ErrNoTarget) {
		t.Errorf("BeginFrame without size error = %v, want ErrNoTarget", err)
	}
}

func TestRecordingOutsideFrame(t *testing.T) {
	d := newTestDevice(t, 16, 16)
	if err := d.Upload(0); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Upload error = %v, want ErrNoFrame", err)
	}
	if err := d.Draw(6); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Draw error = %v, want ErrNoFrame", err)
	}
	if err := d.Submit(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Submit error = %v, want ErrNoFrame", err)
	}
}

func TestTransferMapping(t *testing.T) {
	d := newTestDevice(t, 16, 16)
	if _, err := d.MapTransfer(); !errors.Is(err, ErrNoBuffers) {
		t.Fatalf("MapTransfer before ResizeBuffers error = %v, want ErrNoBuffers", err)
	}
	if err := d.ResizeBuffers(2 * batch.QuadSize); err != nil {
		t.Fatalf("ResizeBuffers: %v", err)
	}
	mem, err := d.MapTransfer()
	if err != nil {
		t.Fatalf("MapTransfer: %v", err)
	}
	if len(mem) != 2*batch.QuadSize {
		t.Errorf("mapped len = %d, want %d", len(mem), 2*batch.QuadSize)
	}
	if _, err := d.MapTransfer(); !errors.Is(err, ErrMapped) {
		t.Errorf("second MapTransfer error = %v, want ErrMapped", err)
	}
	if err := d.ResizeBuffers(batch.QuadSize); !errors.Is(err, ErrMapped) {
		t.Errorf("ResizeBuffers while mapped error = %v, want ErrMapped", err)
	}
	if err := d.UnmapTransfer(); err != nil {
		t.Fatalf("UnmapTransfer: %v", err)
	}
	if err := d.UnmapTransfer(); !errors.Is(err, ErrNotMapped) {
		t.Errorf("second UnmapTransfer error = %v, want ErrNotMapped", err)
	}
}

func TestUploadTooLarge(t *testing.T) {
	d := newTestDevice(t, 16, 16)
	if err := d.ResizeBuffers(batch.QuadSize); err != nil {
		t.Fatalf("ResizeBuffers: %v", err)
	}
	if err := d.BeginFrame(batch.Black); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := d.Upload(2 * batch.QuadSize); err == nil {
		t.Error("expected error for upload larger than buffer")
	}
}

func TestRendererFlushOnNoop(t *testing.T) {
	d := newTestDevice(t, 64, 48)
	r, err := batch.NewRenderer(d)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	s := batch.NewStore(2)
	s.Push(batch.Solid(batch.Rect{X: 4, Y: 4, W: 20, H: 20}, batch.Red))
	s.Push(batch.RoundedRect(batch.Rect{X: 30, Y: 10, W: 20, H: 20}, batch.Blue, 6))
	s.Push(batch.Solid(batch.Rect{X: 0, Y: 30, W: 64, H: 10}, batch.White))

	for frame := 0; frame < 2; frame++ {
		if err := d.BeginFrame(batch.ClearGreen); err != nil {
			t.Fatalf("frame %d BeginFrame: %v", frame, err)
		}
		if err := r.Flush(s); err != nil {
			t.Fatalf("frame %d Flush: %v", frame, err)
		}
		if err := d.Submit(); err != nil {
			t.Fatalf("frame %d Submit: %v", frame, err)
		}
	}

	if got := d.Frames(); got != 2 {
		t.Errorf("Frames() = %d, want 2", got)
	}
	if got := r.Stats().Resizes; got != 1 {
		t.Errorf("Resizes = %d, want 1", got)
	}
	px := d.Pixels()
	if px == nil {
		t.Fatal("Pixels() = nil after offscreen submit")
	}
	if px.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Errorf("Pixels bounds = %v, want 64x48", px.Bounds())
	}
}

func TestClearOnlyFrame(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if err := d.BeginFrame(batch.ClearGreen); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if d.Pixels() == nil {
		t.Error("Pixels() = nil after clear-only frame")
	}
}

func TestResizeRecreatesTarget(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if err := d.Resize(0, 4); err == nil {
		t.Error("Resize(0, 4) should fail")
	}
	if err := d.Resize(32, 16); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := d.BeginFrame(batch.Black); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := d.Pixels().Bounds().Size(); got != image.Pt(32, 16) {
		t.Errorf("Pixels size = %v, want (32,16)", got)
	}
}

func TestReadbackCopiesMappedBuffer(t *testing.T) {
	d := newTestDevice(t, 2, 1)
	if err := d.target.ensure(d.device, 2, 1); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := d.queue.WriteBuffer(d.target.readback, 0, want); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if err := d.target.read(d.device); err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, b := range want {
		if d.target.pixels.Pix[i] != b {
			t.Fatalf("Pix = % x, want % x", d.target.pixels.Pix, want)
		}
	}
}

// copyRecorder records texture-to-buffer copies and texture transitions.
type copyRecorder struct {
	hal.Device
	copies      []hal.BufferTextureCopy
	transitions []hal.TextureUsageTransition
}

func (r *copyRecorder) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := r.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, rec: r}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	rec *copyRecorder
}

func (e *recordingEncoder) CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, regions []hal.BufferTextureCopy) {
	e.rec.copies = append(e.rec.copies, regions...)
	e.CommandEncoder.CopyTextureToBuffer(src, dst, regions)
}

func (e *recordingEncoder) TransitionTextures(barriers []hal.TextureBarrier) {
	for _, b := range barriers {
		e.rec.transitions = append(e.rec.transitions, b.Usage)
	}
	e.CommandEncoder.TransitionTextures(barriers)
}

func TestReadbackRowPitchAligned(t *testing.T) {
	for _, width := range []int{100, 800, 1024} {
		device, queue, cleanup := createNoopDevice(t)
		rec := &copyRecorder{Device: device}
		d, err := NewDevice(rec, queue, WithSize(width, 3))
		if err != nil {
			cleanup()
			t.Fatalf("NewDevice: %v", err)
		}
		if err := d.BeginFrame(batch.Black); err != nil {
			t.Fatalf("width %d BeginFrame: %v", width, err)
		}
		if err := d.Submit(); err != nil {
			t.Fatalf("width %d Submit: %v", width, err)
		}
		if len(rec.copies) != 1 {
			t.Fatalf("width %d: %d readback copies, want 1", width, len(rec.copies))
		}
		pitch := rec.copies[0].BufferLayout.BytesPerRow
		if pitch%copyPitchAlignment != 0 || pitch < uint32(width)*4 {
			t.Errorf("width %d: BytesPerRow = %d, want a multiple of %d >= %d",
				width, pitch, copyPitchAlignment, width*4)
		}
		n := len(rec.transitions)
		if n < 2 || rec.transitions[n-1].NewUsage != gputypes.TextureUsageRenderAttachment {
			t.Errorf("width %d: target not returned to attachment usage: %v", width, rec.transitions)
		}
		d.Destroy()
		cleanup()
	}
}

func TestReadbackStripsRowPadding(t *testing.T) {
	d := newTestDevice(t, 100, 2)
	if err := d.target.ensure(d.device, 100, 2); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	pitch := alignedRowPitch(100)
	if pitch != 512 {
		t.Fatalf("alignedRowPitch(100) = %d, want 512", pitch)
	}
	row0 := []byte{1, 2, 3, 4}
	row1 := []byte{9, 8, 7, 6}
	if err := d.queue.WriteBuffer(d.target.readback, 0, row0); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if err := d.queue.WriteBuffer(d.target.readback, uint64(pitch), row1); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if err := d.target.read(d.device); err != nil {
		t.Fatalf("read: %v", err)
	}
	px := d.target.pixels
	if got := px.RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("pixel (0,0) = %v, want {1 2 3 4}", got)
	}
	if got := px.RGBAAt(0, 1); got != (color.RGBA{9, 8, 7, 6}) {
		t.Errorf("pixel (0,1) = %v, want {9 8 7 6}", got)
	}
}

func TestSetTexture(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if err := d.ResizeBuffers(batch.QuadSize); err != nil {
		t.Fatalf("ResizeBuffers: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	if err := d.SetTexture(img); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	if d.atlas.width != 4 || d.atlas.height != 2 {
		t.Errorf("texture size = %dx%d, want 4x2", d.atlas.width, d.atlas.height)
	}
	if !d.bindDirty {
		t.Error("bind group should be rebuilt after texture recreation")
	}

	if err := d.BeginFrame(batch.Black); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := d.Draw(0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if d.bindDirty {
		t.Error("bind group still dirty after Draw")
	}

	// Same size reuses the texture and keeps the bind group.
	if err := d.SetTexture(img); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	if d.bindDirty {
		t.Error("same-size texture upload should not dirty the bind group")
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestTightPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	got := tightPixels(sub)
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	// Row 1, column 1 of the parent starts at byte 16+4.
	if got[0] != 20 || got[8] != 36 {
		t.Errorf("tightPixels rows start at %d and %d, want 20 and 36", got[0], got[8])
	}
	if full := tightPixels(img); &full[0] != &img.Pix[0] {
		t.Error("tightPixels should not copy an unpadded image")
	}
}

func TestMakeUniform(t *testing.T) {
	u := makeUniform(800, 600)
	if len(u) != uniformSize {
		t.Fatalf("uniform len = %d, want %d", len(u), uniformSize)
	}
	// 800.0 = 0x44480000
	if u[2] != 0x48 || u[3] != 0x44 {
		t.Errorf("viewport width bytes = % x", u[0:4])
	}
}

func TestDestroyIdempotent(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if err := d.BeginFrame(batch.Black); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	d.Destroy()
	d.Destroy()
	if d.pipe.pipeline != nil || d.target.tex != nil {
		t.Error("resources not released by Destroy")
	}
}
