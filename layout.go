// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"encoding/binary"
	"math"
)

// QuadSize is the size of one encoded quad in bytes.
//
// The layout matches the shader's storage-buffer struct. Every field is
// little-endian float32, and vec4 members sit on 16-byte boundaries:
//
//	offset   0  dst          vec4  (x, y, w, h)
//	offset  16  src          vec4  (x, y, w, h)
//	offset  32  border_color vec4
//	offset  48  radii        vec4  (tl, tr, br, bl)
//	offset  64  colors[4]    vec4 x4 (tl, tr, br, bl)
//	offset 128  softness     f32
//	offset 132  thickness    f32
//	offset 136  use_texture  f32
//	offset 140  (padding)    f32
const QuadSize = 144

// VerticesPerQuad is the vertex count drawn for each quad: two triangles
// with no index buffer.
const VerticesPerQuad = 6

// Field offsets within an encoded quad.
const (
	offsetDst        = 0
	offsetSrc        = 16
	offsetBorder     = 32
	offsetRadii      = 48
	offsetColors     = 64
	offsetSoftness   = 128
	offsetThickness  = 132
	offsetUseTexture = 136
)

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func getF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func putVec4(buf []byte, off int, a, b, c, d float32) {
	putF32(buf, off, a)
	putF32(buf, off+4, b)
	putF32(buf, off+8, c)
	putF32(buf, off+12, d)
}

// EncodeQuad writes q into buf in the shader layout. buf must hold at
// least QuadSize bytes. The padding word is zeroed so repeated encodes of
// the same quad are byte-identical.
func EncodeQuad(buf []byte, q *Quad) {
	_ = buf[QuadSize-1]
	putVec4(buf, offsetDst, q.Dst.X, q.Dst.Y, q.Dst.W, q.Dst.H)
	putVec4(buf, offsetSrc, q.Src.X, q.Src.Y, q.Src.W, q.Src.H)
	bc := q.BorderColor
	putVec4(buf, offsetBorder, bc.R, bc.G, bc.B, bc.A)
	putVec4(buf, offsetRadii, q.Radii[0], q.Radii[1], q.Radii[2], q.Radii[3])
	for i, c := range q.Colors {
		putVec4(buf, offsetColors+i*16, c.R, c.G, c.B, c.A)
	}
	putF32(buf, offsetSoftness, q.Softness)
	putF32(buf, offsetThickness, q.Thickness)
	putF32(buf, offsetUseTexture, q.UseTexture)
	putF32(buf, offsetUseTexture+4, 0)
}

// EncodeQuads writes quads back to back into dst and returns the number
// of bytes written. It returns ErrShortBuffer if dst is too small.
func EncodeQuads(dst []byte, quads []Quad) (int, error) {
	n := len(quads) * QuadSize
	if len(dst) < n {
		return 0, ErrShortBuffer
	}
	for i := range quads {
		EncodeQuad(dst[i*QuadSize:], &quads[i])
	}
	return n, nil
}

// DecodeQuad reads one quad from buf. It is the inverse of EncodeQuad.
func DecodeQuad(buf []byte) Quad {
	_ = buf[QuadSize-1]
	var q Quad
	q.Dst = Rect{getF32(buf, 0), getF32(buf, 4), getF32(buf, 8), getF32(buf, 12)}
	q.Src = Rect{getF32(buf, 16), getF32(buf, 20), getF32(buf, 24), getF32(buf, 28)}
	q.BorderColor = Color{getF32(buf, 32), getF32(buf, 36), getF32(buf, 40), getF32(buf, 44)}
	for i := range q.Radii {
		q.Radii[i] = getF32(buf, offsetRadii+i*4)
	}
	for i := range q.Colors {
		off := offsetColors + i*16
		q.Colors[i] = Color{getF32(buf, off), getF32(buf, off+4), getF32(buf, off+8), getF32(buf, off+12)}
	}
	q.Softness = getF32(buf, offsetSoftness)
	q.Thickness = getF32(buf, offsetThickness)
	q.UseTexture = getF32(buf, offsetUseTexture)
	return q
}

// DecodeQuads decodes every complete quad in buf.
func DecodeQuads(buf []byte) []Quad {
	n := len(buf) / QuadSize
	out := make([]Quad, n)
	for i := range out {
		out[i] = DecodeQuad(buf[i*QuadSize:])
	}
	return out
}
