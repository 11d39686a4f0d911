package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/batch/internal/cache"
)

// GlyphID identifies a glyph within a font.
type GlyphID uint16

// Glyph is one shaped glyph. X and Y are the pen offset from the start of
// the run in pixels, with Y growing downward. Cluster is the index of the
// first rune of the glyph's cluster in the normalized input.
type Glyph struct {
	ID      GlyphID
	Cluster int
	X, Y    float32
	Advance float32
}

// shaperPool pools HarfbuzzShaper instances. HarfbuzzShaper keeps mutable
// buffers and is not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// shapeCacheSize bounds the number of shaped runs kept across all faces.
const shapeCacheSize = 1024

type shapeKey struct {
	font *Font
	size float64
	text string
}

var shapeCache = cache.New[shapeKey, []Glyph](shapeCacheSize)

// Shape converts s into positioned glyphs for a left-to-right run.
// The input is NFC-normalized first so precomposed and decomposed forms
// shape identically.
//
// Results are cached per font, size and string. The returned slice is
// shared and must not be modified.
func (f *Face) Shape(s string) []Glyph {
	if s == "" || f == nil || f.Font == nil {
		return nil
	}
	key := shapeKey{font: f.Font, size: f.Size, text: s}
	if g, ok := shapeCache.Get(key); ok {
		return g
	}
	g := f.shape(s)
	shapeCache.Set(key, g)
	return g
}

func (f *Face) shape(s string) []Glyph {
	runes := []rune(norm.NFC.String(s))

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		// font.Face is not safe for concurrent use; NewFace is cheap.
		Face:     font.NewFace(f.Font.shaping),
		Size:     fixed.Int26_6(f.Size * 64),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	shaperPool.Put(hb)

	glyphs := make([]Glyph, len(out.Glyphs))
	var x float32
	for i, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		glyphs[i] = Glyph{
			ID:      GlyphID(g.GlyphID), //nolint:gosec // sfnt glyph indices are 16-bit
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		}
		x += adv
	}
	return glyphs
}

// Advance returns the total advance of s in pixels.
func (f *Face) Advance(s string) float32 {
	var w float32
	for _, g := range f.Shape(s) {
		w += g.Advance
	}
	return w
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
