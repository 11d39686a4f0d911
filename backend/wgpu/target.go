//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// offscreenFormat is the format of the offscreen render target. RGBA order
// lets readback land in an image.RGBA without swizzling.
const offscreenFormat = gputypes.TextureFormatRGBA8Unorm

// submitTimeout bounds how long a frame waits for the GPU.
const (
	submitTimeout = 5 * time.Second
	pollInterval  = 100 * time.Microsecond
)

// copyPitchAlignment is the row pitch alignment texture-to-buffer copies
// require (WebGPU, DX12).
const copyPitchAlignment = 256

// alignedRowPitch returns the readback row pitch for a target w pixels wide.
func alignedRowPitch(w uint32) uint32 {
	return (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// offscreenTarget is a render texture with a readback buffer.
type offscreenTarget struct {
	tex      hal.Texture
	view     hal.TextureView
	readback hal.Buffer
	width    uint32
	height   uint32
	pitch    uint32
	pixels   *image.RGBA
}

// ensure (re)creates the target for the given size.
func (t *offscreenTarget) ensure(device hal.Device, w, h uint32) error {
	if t.tex != nil && t.width == w && t.height == h {
		return nil
	}
	t.destroy(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "quad_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        offscreenFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create target texture: %w", err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "quad_target_view",
		Format:        offscreenFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("wgpu: create target view: %w", err)
	}
	t.view = view

	readback, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_readback",
		Size:  uint64(alignedRowPitch(w)) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	t.readback = readback

	t.width, t.height, t.pitch = w, h, alignedRowPitch(w)
	t.pixels = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	slogger().Debug("wgpu: offscreen target created", "width", w, "height", h)
	return nil
}

// recordReadback records the texture-to-buffer copy for the frame.
func (t *offscreenTarget) recordReadback(encoder hal.CommandEncoder) hal.Buffer {
	if t.tex == nil {
		return nil
	}
	// The render pass leaves the texture in attachment layout; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, t.readback, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: t.pitch, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
	// Back to attachment layout so the next frame's pass starts from the
	// state it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	return t.readback
}

// read maps the readback buffer and copies it into pixels, dropping the
// row padding.
func (t *offscreenTarget) read(device hal.Device) error {
	size := uint64(t.pitch) * uint64(t.height)
	m, err := device.MapBuffer(t.readback, 0, size)
	if err != nil {
		return fmt.Errorf("wgpu: map readback: %w", err)
	}
	src := unsafe.Slice((*byte)(m.Ptr), size)
	rowLen := int(t.width) * 4
	if int(t.pitch) == rowLen {
		copy(t.pixels.Pix, src)
	} else {
		for y := 0; y < int(t.height); y++ {
			copy(t.pixels.Pix[y*t.pixels.Stride:y*t.pixels.Stride+rowLen], src[y*int(t.pitch):])
		}
	}
	if err := device.UnmapBuffer(t.readback); err != nil {
		return fmt.Errorf("wgpu: unmap readback: %w", err)
	}
	return nil
}

func (t *offscreenTarget) destroy(device hal.Device) {
	if t.readback != nil {
		device.DestroyBuffer(t.readback)
		t.readback = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
	t.width, t.height, t.pitch = 0, 0, 0
}

// submitAndWait submits one command buffer and blocks until the queue
// reports it complete.
func submitAndWait(queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	idx, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	deadline := time.Now().Add(submitTimeout)
	for queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wgpu: wait for GPU: timed out after %v", submitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}
