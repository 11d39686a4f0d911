package software

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/batch"
)

// rasterizeQuad draws q into dst with source-over blending, evaluating the
// same distance field as the GPU fragment shader at each pixel center.
func rasterizeQuad(dst *image.RGBA, tex *image.RGBA, q *batch.Quad) {
	if q.Dst.Empty() || !q.Finite() {
		return
	}

	aa := math32.Max(q.Softness, minEdgeWidth)
	radii := q.ClampedRadii()
	halfW, halfH := q.Dst.W*0.5, q.Dst.H*0.5
	cx, cy := q.Dst.X+halfW, q.Dst.Y+halfH
	thickness := math32.Max(q.Thickness, 0)
	textured := q.Textured() && tex != nil

	b := dst.Bounds()
	x0 := max(int(math32.Floor(q.Dst.X-aa)), b.Min.X)
	y0 := max(int(math32.Floor(q.Dst.Y-aa)), b.Min.Y)
	x1 := min(int(math32.Ceil(q.Dst.X+q.Dst.W+aa)), b.Max.X)
	y1 := min(int(math32.Ceil(q.Dst.Y+q.Dst.H+aa)), b.Max.Y)

	for py := y0; py < y1; py++ {
		fy := float32(py) + 0.5
		dy := fy - cy
		v := clamp01((fy - q.Dst.Y) / q.Dst.H)
		for px := x0; px < x1; px++ {
			fx := float32(px) + 0.5
			dx := fx - cx
			r := cornerRadius(dx, dy, radii)

			dist := sdfRRect(dx, dy, halfW, halfH, r)
			alpha := coverage(dist, aa)
			if alpha <= 0 {
				continue
			}

			u := clamp01((fx - q.Dst.X) / q.Dst.W)
			c := cornerColor(q, u, v)
			if textured {
				c = c.Mul(sampleBilinear(tex, q.Src.X+u*q.Src.W, q.Src.Y+v*q.Src.H))
			}

			if thickness > 0 {
				innerR := math32.Max(r-thickness, 0)
				innerDist := sdfRRect(dx, dy, halfW-thickness, halfH-thickness, innerR)
				border := smoothstep(-aa, aa, innerDist)
				c = c.Lerp(q.BorderColor, border)
			}

			blendOver(dst, px, py, c, alpha)
		}
	}
}

// cornerColor interpolates the four corner colors bilinearly.
func cornerColor(q *batch.Quad, u, v float32) batch.Color {
	top := q.Colors[batch.TopLeft].Lerp(q.Colors[batch.TopRight], u)
	bottom := q.Colors[batch.BottomLeft].Lerp(q.Colors[batch.BottomRight], u)
	return top.Lerp(bottom, v)
}

// sampleBilinear samples tex at normalized coordinates with clamp-to-edge
// addressing and returns a straight-alpha color.
func sampleBilinear(tex *image.RGBA, s, t float32) batch.Color {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return batch.Transparent
	}
	x := s*float32(w) - 0.5
	y := t*float32(h) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	p00 := texel(tex, x0, y0)
	p10 := texel(tex, x0+1, y0)
	p01 := texel(tex, x0, y0+1)
	p11 := texel(tex, x0+1, y0+1)
	top := p00.Lerp(p10, fx)
	bottom := p01.Lerp(p11, fx)
	c := top.Lerp(bottom, fy)

	// Filtering happened in premultiplied space; return straight alpha.
	if c.A <= 0 {
		return batch.Transparent
	}
	return batch.Color{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// texel returns the premultiplied texel at (x, y), clamped to the bounds.
func texel(tex *image.RGBA, x, y int) batch.Color {
	b := tex.Bounds()
	x = min(max(x, 0), b.Dx()-1) + b.Min.X
	y = min(max(y, 0), b.Dy()-1) + b.Min.Y
	i := tex.PixOffset(x, y)
	p := tex.Pix[i : i+4 : i+4]
	return batch.Color{
		R: float32(p[0]) / 255,
		G: float32(p[1]) / 255,
		B: float32(p[2]) / 255,
		A: float32(p[3]) / 255,
	}
}

// blendOver composites straight-alpha color c with extra coverage onto the
// premultiplied pixel at (x, y).
func blendOver(dst *image.RGBA, x, y int, c batch.Color, cov float32) {
	a := clamp01(c.A) * cov
	if a <= 0 {
		return
	}
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	inv := 1 - a
	p[0] = to8(clamp01(c.R)*a + float32(p[0])/255*inv)
	p[1] = to8(clamp01(c.G)*a + float32(p[1])/255*inv)
	p[2] = to8(clamp01(c.B)*a + float32(p[2])/255*inv)
	p[3] = to8(a + float32(p[3])/255*inv)
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}
