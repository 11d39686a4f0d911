// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import "github.com/chewxy/math32"

// Corner indices shared by Quad.Colors and Quad.Radii.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// Rect is an axis-aligned rectangle.
// Destination rects are in pixels; source rects are normalized texture
// coordinates in [0, 1].
type Rect struct {
	X, Y, W, H float32
}

// FullSource covers the whole bound texture.
var FullSource = Rect{X: 0, Y: 0, W: 1, H: 1}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Quad is a single draw primitive: a rounded, optionally bordered,
// optionally textured rectangle with per-corner colors.
//
// A Quad is a plain value. Once pushed into a Store it is never modified.
type Quad struct {
	// Dst is the destination rectangle in pixels.
	Dst Rect

	// Src is the normalized region of the bound texture sampled when
	// UseTexture is 1.
	Src Rect

	// Colors holds the corner colors in TopLeft, TopRight, BottomRight,
	// BottomLeft order. Interior pixels interpolate between them.
	Colors [4]Color

	// BorderColor fills the band of width Thickness along the outline.
	BorderColor Color

	// Radii holds the corner radii in the same order as Colors.
	Radii [4]float32

	// Softness widens the anti-aliased edge, in pixels.
	Softness float32

	// Thickness is the border width in pixels. Zero draws no border.
	Thickness float32

	// UseTexture selects solid fill (0) or texture sampling tinted by the
	// corner colors (1).
	UseTexture float32
}

// Solid returns a square-cornered quad filled with a single color.
func Solid(dst Rect, c Color) Quad {
	return Quad{
		Dst:      dst,
		Src:      FullSource,
		Colors:   [4]Color{c, c, c, c},
		Softness: 1,
	}
}

// RoundedRect returns a single-color quad with the same radius on every
// corner.
func RoundedRect(dst Rect, c Color, radius float32) Quad {
	q := Solid(dst, c)
	q.Radii = [4]float32{radius, radius, radius, radius}
	return q
}

// Textured returns a quad sampling src from the bound texture, tinted by
// tint.
func Textured(dst, src Rect, tint Color) Quad {
	q := Solid(dst, tint)
	q.Src = src
	q.Softness = 0
	q.UseTexture = 1
	return q
}

// WithBorder returns a copy of q with a border of the given color and
// thickness.
func (q Quad) WithBorder(c Color, thickness float32) Quad {
	q.BorderColor = c
	q.Thickness = thickness
	return q
}

// WithGradient returns a copy of q with per-corner colors.
func (q Quad) WithGradient(tl, tr, br, bl Color) Quad {
	q.Colors = [4]Color{tl, tr, br, bl}
	return q
}

// WithRadii returns a copy of q with per-corner radii.
func (q Quad) WithRadii(tl, tr, br, bl float32) Quad {
	q.Radii = [4]float32{tl, tr, br, bl}
	return q
}

// Textured reports whether q samples the bound texture.
func (q Quad) Textured() bool {
	return q.UseTexture >= 0.5
}

// ClampedRadii returns the corner radii limited to [0, min(W, H)/2].
// The stored radii are left as pushed; renderers clamp at shading time.
func (q Quad) ClampedRadii() [4]float32 {
	limit := math32.Max(0, math32.Min(q.Dst.W, q.Dst.H)*0.5)
	var out [4]float32
	for i, r := range q.Radii {
		out[i] = math32.Min(math32.Max(r, 0), limit)
	}
	return out
}

// Finite reports whether every geometric field of q is finite.
func (q Quad) Finite() bool {
	vals := [...]float32{
		q.Dst.X, q.Dst.Y, q.Dst.W, q.Dst.H,
		q.Src.X, q.Src.Y, q.Src.W, q.Src.H,
		q.Radii[0], q.Radii[1], q.Radii[2], q.Radii[3],
		q.Softness, q.Thickness,
	}
	for _, v := range vals {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
