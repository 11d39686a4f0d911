package text

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Default atlas geometry.
const (
	DefaultAtlasSize = 512
	atlasPadding     = 1
)

// Region locates a rasterized glyph in the atlas. Offset is the position of
// the bitmap's top-left corner relative to the pen on the baseline, in
// pixels with Y growing downward. Glyphs without ink (spaces) have an empty
// Rect.
type Region struct {
	Rect   image.Rectangle
	Offset image.Point
}

// Empty reports whether the glyph has no bitmap.
func (r Region) Empty() bool { return r.Rect.Empty() }

type glyphKey struct {
	font *Font
	size float64
	id   GlyphID
}

// Atlas is a shelf-packed texture of rasterized glyphs. Pixels are
// premultiplied white with glyph coverage in alpha, so textured quads
// tinted with a color draw text in that color.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	mu     sync.Mutex
	img    *image.RGBA
	shelf  *shelfAllocator
	glyphs map[glyphKey]Region
	dirty  bool
}

// NewAtlas creates an empty atlas of the given size. Non-positive sizes
// use DefaultAtlasSize.
func NewAtlas(width, height int) *Atlas {
	if width <= 0 {
		width = DefaultAtlasSize
	}
	if height <= 0 {
		height = DefaultAtlasSize
	}
	return &Atlas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		shelf:  newShelfAllocator(width, height, atlasPadding),
		glyphs: make(map[glyphKey]Region),
	}
}

// Glyph returns the region of glyph id of face, rasterizing and packing it
// on first use.
func (a *Atlas) Glyph(face *Face, id GlyphID) (Region, error) {
	key := glyphKey{font: face.Font, size: face.Size, id: id}

	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.glyphs[key]; ok {
		return r, nil
	}

	mask, offset, err := rasterizeGlyph(face, id)
	if err != nil {
		return Region{}, err
	}
	if mask == nil {
		a.glyphs[key] = Region{Offset: offset}
		return a.glyphs[key], nil
	}

	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	x, y, ok := a.shelf.allocate(w, h)
	if !ok {
		return Region{}, fmt.Errorf("%w: glyph %d (%dx%d)", ErrAtlasFull, id, w, h)
	}
	r := Region{Rect: image.Rect(x, y, x+w, y+h), Offset: offset}
	a.blit(mask, r.Rect.Min)
	a.glyphs[key] = r
	a.dirty = true
	return r, nil
}

// Prepare packs the glyphs for runes ahead of time. Runes missing from the
// font are skipped.
func (a *Atlas) Prepare(face *Face, runes []rune) error {
	var buf sfnt.Buffer
	for _, r := range runes {
		idx, err := face.Font.outlines.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}
		if _, err := a.Glyph(face, GlyphID(idx)); err != nil {
			return err
		}
	}
	return nil
}

// ASCII returns the printable ASCII range 32..126.
func ASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	return runes
}

// blit copies a coverage mask into the atlas as premultiplied white.
func (a *Atlas) blit(mask *image.Alpha, at image.Point) {
	b := mask.Rect
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := mask.Pix[y*mask.Stride+x]
			i := a.img.PixOffset(at.X+x, at.Y+y)
			a.img.Pix[i+0] = c
			a.img.Pix[i+1] = c
			a.img.Pix[i+2] = c
			a.img.Pix[i+3] = c
		}
	}
}

// Image returns the atlas pixels. The image is shared with the atlas and
// changes as glyphs are added.
func (a *Atlas) Image() *image.RGBA { return a.img }

// Size returns the atlas dimensions.
func (a *Atlas) Size() (width, height int) {
	b := a.img.Bounds()
	return b.Dx(), b.Dy()
}

// Len returns the number of cached glyphs, including empty ones.
func (a *Atlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.glyphs)
}

// Dirty reports whether glyphs were added since the last MarkClean.
func (a *Atlas) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// MarkClean records that the atlas image was uploaded.
func (a *Atlas) MarkClean() {
	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()
}

// Reset drops all glyphs and clears the image.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.img.Pix)
	a.shelf.reset()
	clear(a.glyphs)
	a.dirty = true
}

// rasterizeGlyph renders glyph id into a coverage mask. A nil mask means the
// glyph has no outline.
func rasterizeGlyph(face *Face, id GlyphID) (*image.Alpha, image.Point, error) {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(face.Size * 64)
	segments, err := face.Font.outlines.LoadGlyph(&buf, sfnt.GlyphIndex(id), ppem, nil)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("text: load glyph %d: %w", id, err)
	}
	if len(segments) == 0 {
		return nil, image.Point{}, nil
	}

	bounds := segments.Bounds()
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, nil
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - ox, float32(p.Y)/64 - oy
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	started := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			started = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if started {
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, image.Pt(minX, minY), nil
}

// Metrics returns the face's vertical metrics.
func (f *Face) Metrics() Metrics {
	var buf sfnt.Buffer
	m, err := f.Font.outlines.Metrics(&buf, fixed.Int26_6(f.Size*64), xfont.HintingNone)
	if err != nil {
		size := float32(f.Size)
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2, LineHeight: size * 1.2}
	}
	return Metrics{
		Ascent:     float32(m.Ascent) / 64,
		Descent:    float32(m.Descent) / 64,
		LineHeight: float32(math.Ceil(float64(m.Height) / 64)),
	}
}
