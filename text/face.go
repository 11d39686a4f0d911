package text

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed TrueType or OpenType font.
//
// The same bytes are parsed twice: by golang.org/x/image/font/sfnt for
// outlines and metrics, and by go-text/typesetting for shaping. Both index
// glyphs the same way, so shaped glyph IDs can be rasterized directly.
//
// Font is safe for concurrent use.
type Font struct {
	outlines *sfnt.Font
	shaping  *font.Font
	name     string
}

// LoadFont parses font data (TTF or OTF). The data must not be modified
// after this call.
func LoadFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFont
	}
	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}
	name, _ := outlines.Name(nil, sfnt.NameIDFamily)
	return &Font{outlines: outlines, shaping: face.Font, name: name}, nil
}

// LoadFontFile reads and parses a font file.
func LoadFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file %q: %w", path, err)
	}
	return LoadFont(data)
}

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string { return f.name }

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int { return f.outlines.NumGlyphs() }

// Face is a font at a specific pixel size.
type Face struct {
	Font *Font
	Size float64
}

// NewFace returns a face of f at size pixels per em.
func NewFace(f *Font, size float64) *Face {
	return &Face{Font: f, Size: size}
}

// Metrics holds vertical metrics in pixels. Ascent and Descent are positive
// distances from the baseline.
type Metrics struct {
	Ascent     float32
	Descent    float32
	LineHeight float32
}
