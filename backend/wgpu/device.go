//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/batch"
)

var (
	// ErrNilHALDevice is returned when NewDevice is given a nil device or queue.
	ErrNilHALDevice = errors.New("wgpu: hal device and queue must not be nil")

	// ErrNoFrame is returned by recording calls made outside BeginFrame/Submit.
	ErrNoFrame = errors.New("wgpu: no frame in progress")

	// ErrNoBuffers is returned by MapTransfer and Upload before ResizeBuffers.
	ErrNoBuffers = errors.New("wgpu: quad buffers not created")

	// ErrMapped is returned when the transfer buffer is mapped twice.
	ErrMapped = errors.New("wgpu: transfer buffer already mapped")

	// ErrNotMapped is returned by UnmapTransfer without a prior MapTransfer.
	ErrNotMapped = errors.New("wgpu: transfer buffer not mapped")

	// ErrNoTarget is returned by BeginFrame when neither a size nor a
	// surface target was provided.
	ErrNoTarget = errors.New("wgpu: no render target")
)

// uniformSize is the byte size of the uniform buffer.
// Layout: viewport (vec2<f32>) + padding (vec2<f32>) = 16 bytes.
const uniformSize = 16

// Option configures a Device.
type Option func(*Device)

// WithSize sets the offscreen render target size.
func WithSize(width, height int) Option {
	return func(d *Device) {
		d.width, d.height = uint32(max(width, 0)), uint32(max(height, 0)) //nolint:gosec // clamped non-negative
	}
}

// WithSurfaceFormat sets the color format used for surface targets.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(d *Device) {
		d.surfaceFormat = f
	}
}

// Device is a batch.Device on the gogpu/wgpu HAL.
//
// Quads live in two GPU buffers: a transfer buffer the CPU writes and a
// storage buffer the shader reads. MapTransfer hands out a CPU shadow of the
// transfer buffer; UnmapTransfer writes it through the queue; Upload records
// a buffer-to-buffer copy into the frame's command encoder; Draw records one
// render pass drawing six vertices per quad.
//
// Frames render either into an offscreen RGBA texture that is read back
// after Submit (see Pixels) or into a caller-supplied surface view
// (see SetSurfaceTarget).
//
// Device is not safe for concurrent use.
type Device struct {
	device hal.Device
	queue  hal.Queue

	// release frees a device this package opened itself.
	release func()

	pipe quadPipeline

	uniform  hal.Buffer
	transfer hal.Buffer
	storage  hal.Buffer
	bufSize  uint64
	shadow   []byte
	mapped   bool

	atlas atlasTexture

	bindGroup hal.BindGroup
	bindDirty bool

	width, height uint32
	surfaceFormat gputypes.TextureFormat
	target        offscreenTarget
	surfaceView   hal.TextureView
	surfaceW      uint32
	surfaceH      uint32

	encoder hal.CommandEncoder
	clear   gputypes.Color
	drawn   bool
	frames  uint64
}

var (
	_ batch.Device        = (*Device)(nil)
	_ batch.TextureBinder = (*Device)(nil)
	_ batch.Resizer       = (*Device)(nil)
)

// NewDevice creates a quad device on an existing HAL device and queue.
// GPU objects are created lazily on first use.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilHALDevice
	}
	d := &Device{
		device:        device,
		queue:         queue,
		surfaceFormat: gputypes.TextureFormatBGRA8Unorm,
		bindDirty:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SetLogger sets the package logger. Called by batch when a renderer is
// created for this device.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Resize changes the offscreen target size. The target is recreated at the
// next BeginFrame.
func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	d.width, d.height = uint32(width), uint32(height) //nolint:gosec // checked positive
	return nil
}

// SetSurfaceTarget makes the next frame render into view instead of the
// offscreen texture. The surface target applies to one frame only; call it
// again for every frame with the view acquired from the swapchain.
func (d *Device) SetSurfaceTarget(view hal.TextureView, width, height int) {
	d.surfaceView = view
	d.surfaceW, d.surfaceH = uint32(max(width, 0)), uint32(max(height, 0)) //nolint:gosec // clamped non-negative
}

// BeginFrame starts recording a frame cleared to c.
func (d *Device) BeginFrame(c batch.Color) error {
	if d.encoder != nil {
		d.encoder.DiscardEncoding()
		d.encoder = nil
	}

	w, h, format := d.frameTarget()
	if w == 0 || h == 0 {
		return ErrNoTarget
	}
	if d.surfaceView == nil {
		if err := d.target.ensure(d.device, w, h); err != nil {
			return err
		}
	}
	if err := d.pipe.ensure(d.device, format); err != nil {
		return err
	}
	if err := d.ensureUniform(); err != nil {
		return err
	}
	if err := d.queue.WriteBuffer(d.uniform, 0, makeUniform(w, h)); err != nil {
		return fmt.Errorf("wgpu: write uniforms: %w", err)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "quad_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("quad_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	d.encoder = encoder
	d.clear = gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
	d.drawn = false
	return nil
}

// ResizeBuffers recreates the transfer and storage buffers with size bytes.
func (d *Device) ResizeBuffers(size uint64) error {
	if d.mapped {
		return ErrMapped
	}
	d.destroyQuadBuffers()

	transfer, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_transfer",
		Size:  size,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create transfer buffer: %w", err)
	}
	storage, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_storage",
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.device.DestroyBuffer(transfer)
		return fmt.Errorf("wgpu: create storage buffer: %w", err)
	}

	d.transfer, d.storage, d.bufSize = transfer, storage, size
	d.shadow = make([]byte, size)
	d.bindDirty = true
	slogger().Debug("wgpu: quad buffers resized", "bytes", size)
	return nil
}

// MapTransfer returns CPU memory backing the transfer buffer.
func (d *Device) MapTransfer() ([]byte, error) {
	if d.transfer == nil {
		return nil, ErrNoBuffers
	}
	if d.mapped {
		return nil, ErrMapped
	}
	d.mapped = true
	return d.shadow, nil
}

// UnmapTransfer writes the shadow contents into the transfer buffer.
func (d *Device) UnmapTransfer() error {
	if !d.mapped {
		return ErrNotMapped
	}
	d.mapped = false
	if err := d.queue.WriteBuffer(d.transfer, 0, d.shadow); err != nil {
		return fmt.Errorf("wgpu: write transfer buffer: %w", err)
	}
	return nil
}

// Upload records a copy of size bytes from the transfer buffer to the
// storage buffer.
func (d *Device) Upload(size uint64) error {
	if d.encoder == nil {
		return ErrNoFrame
	}
	if d.transfer == nil {
		return ErrNoBuffers
	}
	if size > d.bufSize {
		return fmt.Errorf("wgpu: upload of %d bytes exceeds buffer size %d", size, d.bufSize)
	}
	d.encoder.CopyBufferToBuffer(d.transfer, d.storage, []hal.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      size,
	}})
	return nil
}

// Draw records a render pass drawing vertexCount vertices. The first pass
// of a frame clears the target; later passes load it.
func (d *Device) Draw(vertexCount uint32) error {
	if d.encoder == nil {
		return ErrNoFrame
	}
	if d.storage == nil {
		return ErrNoBuffers
	}
	if err := d.ensureBindGroup(); err != nil {
		return err
	}
	d.recordPass(func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(d.pipe.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		rp.Draw(vertexCount, 1, 0, 0)
	})
	return nil
}

// recordPass records one render pass into the current encoder.
func (d *Device) recordPass(body func(rp hal.RenderPassEncoder)) {
	view := d.surfaceView
	if view == nil {
		view = d.target.view
	}
	load := gputypes.LoadOpClear
	if d.drawn {
		load = gputypes.LoadOpLoad
	}
	rp := d.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: d.clear,
		}},
	})
	if body != nil {
		body(rp)
	}
	rp.End()
	d.drawn = true
}

// Submit finishes the frame, submits it and waits for the GPU. Offscreen
// frames are read back and available from Pixels afterwards.
func (d *Device) Submit() error {
	if d.encoder == nil {
		return ErrNoFrame
	}
	// A frame with no draw still has to clear its target.
	if !d.drawn {
		d.recordPass(nil)
	}

	encoder := d.encoder
	d.encoder = nil
	surface := d.surfaceView != nil
	d.surfaceView = nil

	var readback hal.Buffer
	if !surface {
		readback = d.target.recordReadback(encoder)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(d.queue, cmdBuf); err != nil {
		return err
	}
	if readback != nil {
		if err := d.target.read(d.device); err != nil {
			return err
		}
	}
	d.frames++
	return nil
}

// SetTexture uploads img as the texture sampled by textured quads.
func (d *Device) SetTexture(img *image.RGBA) error {
	if img == nil {
		return nil
	}
	recreated, err := d.atlas.upload(d.device, d.queue, img)
	if err != nil {
		return err
	}
	if recreated {
		d.bindDirty = true
	}
	return nil
}

// Pixels returns the last offscreen frame. The image is reused by later
// frames. It is nil before the first offscreen Submit.
func (d *Device) Pixels() *image.RGBA {
	return d.target.pixels
}

// Frames returns the number of submitted frames.
func (d *Device) Frames() uint64 {
	return d.frames
}

// Destroy releases all GPU resources. Safe to call more than once.
func (d *Device) Destroy() {
	if d.encoder != nil {
		d.encoder.DiscardEncoding()
		d.encoder = nil
	}
	if d.bindGroup != nil {
		d.device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
	}
	d.destroyQuadBuffers()
	if d.uniform != nil {
		d.device.DestroyBuffer(d.uniform)
		d.uniform = nil
	}
	d.atlas.destroy(d.device)
	d.target.destroy(d.device)
	d.pipe.destroy(d.device)
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

// frameTarget returns the size and format of the current frame's target.
func (d *Device) frameTarget() (w, h uint32, format gputypes.TextureFormat) {
	if d.surfaceView != nil {
		return d.surfaceW, d.surfaceH, d.surfaceFormat
	}
	return d.width, d.height, offscreenFormat
}

func (d *Device) ensureUniform() error {
	if d.uniform != nil {
		return nil
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	d.uniform = buf
	d.bindDirty = true
	return nil
}

// ensureBindGroup rebuilds the bind group after buffers or the texture
// changed.
func (d *Device) ensureBindGroup() error {
	if !d.bindDirty && d.bindGroup != nil {
		return nil
	}
	if err := d.atlas.ensureDefault(d.device, d.queue); err != nil {
		return err
	}
	if d.bindGroup != nil {
		d.device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "quad_bind",
		Layout: d.pipe.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniform.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: d.storage.NativeHandle(), Offset: 0, Size: d.bufSize,
			}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{
				TextureView: d.atlas.view.NativeHandle(),
			}},
			{Binding: 3, Resource: gputypes.SamplerBinding{
				Sampler: d.pipe.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	d.bindGroup = bg
	d.bindDirty = false
	return nil
}

func (d *Device) destroyQuadBuffers() {
	if d.bindGroup != nil {
		d.device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
	}
	if d.transfer != nil {
		d.device.DestroyBuffer(d.transfer)
		d.transfer = nil
	}
	if d.storage != nil {
		d.device.DestroyBuffer(d.storage)
		d.storage = nil
	}
	d.shadow = nil
	d.bufSize = 0
	d.bindDirty = true
}
