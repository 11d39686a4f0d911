//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// atlasTexture is the single texture sampled by textured quads. Until one
// is set a 1x1 white texel is bound so the bind group is always complete.
type atlasTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

var whiteTexel = []byte{0xff, 0xff, 0xff, 0xff}

func (a *atlasTexture) ensureDefault(device hal.Device, queue hal.Queue) error {
	if a.tex != nil {
		return nil
	}
	img := &image.RGBA{Pix: whiteTexel, Stride: 4, Rect: image.Rect(0, 0, 1, 1)}
	_, err := a.upload(device, queue, img)
	return err
}

// upload writes img into the texture, recreating it when the size changed.
// It reports whether the texture view was replaced.
func (a *atlasTexture) upload(device hal.Device, queue hal.Queue, img *image.RGBA) (bool, error) {
	b := img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image bounds are non-negative
	if w == 0 || h == 0 {
		return false, fmt.Errorf("wgpu: empty texture %dx%d", w, h)
	}

	recreated := false
	if a.tex == nil || a.width != w || a.height != h {
		a.destroy(device)
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "quad_texture",
			Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("wgpu: create texture: %w", err)
		}
		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "quad_texture_view",
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			device.DestroyTexture(tex)
			return false, fmt.Errorf("wgpu: create texture view: %w", err)
		}
		a.tex, a.view, a.width, a.height = tex, view, w, h
		recreated = true
		slogger().Debug("wgpu: texture created", "width", w, "height", h)
	}

	err := queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: a.tex, MipLevel: 0},
		tightPixels(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return recreated, fmt.Errorf("wgpu: write texture: %w", err)
	}
	return recreated, nil
}

func (a *atlasTexture) destroy(device hal.Device) {
	if a.view != nil {
		device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.tex != nil {
		device.DestroyTexture(a.tex)
		a.tex = nil
	}
	a.width, a.height = 0, 0
}

// tightPixels returns img's pixels with no row padding.
func tightPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}
	out := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowLen:], img.Pix[off:off+rowLen])
	}
	return out
}
