// Package demo builds the scene shared by the quad commands: a grid of
// rounded rectangles, gradient and bordered panels, and a block of text,
// all scrolled by an input.Scroller.
package demo

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/batch"
	"github.com/gogpu/batch/config"
	"github.com/gogpu/batch/input"
	"github.com/gogpu/batch/text"
)

// Grid geometry.
const (
	cellPitch = 80
	cellSize  = 60
	cellInset = 10
	gridRows  = 12

	textTop     = 20
	lineSpacing = 20
)

// Scene draws the demo content into a store.
type Scene struct {
	Scroll input.Scroller

	face  *text.Face
	atlas *text.Atlas
	lines []string
	phase float32
}

// New loads the configured font (or the embedded Go font) and pre-packs
// printable ASCII into the glyph atlas.
func New(cfg config.Config) (*Scene, error) {
	var (
		f   *text.Font
		err error
	)
	if cfg.FontPath != "" {
		f, err = text.LoadFontFile(cfg.FontPath)
	} else {
		f, err = text.LoadFont(goregular.TTF)
	}
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	face := text.NewFace(f, cfg.FontSize)
	atlas := text.NewAtlas(text.DefaultAtlasSize, text.DefaultAtlasSize)
	if err := atlas.Prepare(face, text.ASCII()); err != nil {
		return nil, fmt.Errorf("demo: prepare atlas: %w", err)
	}

	s := &Scene{face: face, atlas: atlas, lines: cfg.Lines}
	s.Scroll.Min = -float32(gridRows*cellPitch) + cellPitch
	s.Scroll.Max = 0
	return s, nil
}

// Atlas returns the glyph atlas.
func (s *Scene) Atlas() *text.Atlas { return s.atlas }

// Advance moves the animation forward by dt seconds.
func (s *Scene) Advance(dt float32) {
	s.phase = math32.Mod(s.phase+dt, 2*math32.Pi)
}

// Draw pushes the scene for a width x height target.
func (s *Scene) Draw(store *batch.Store, width, height int) error {
	dy := s.Scroll.Offset
	cols := max(width/cellPitch, 1)

	for row := 0; row < gridRows; row++ {
		y := float32(row*cellPitch+cellInset) + dy
		if y > float32(height) || y+cellSize < 0 {
			continue
		}
		for col := 0; col < cols; col++ {
			x := float32(col*cellPitch + cellInset)
			t := float32(col) / float32(cols)
			c := batch.RGB(0.2+0.8*t, 0.4, 1-0.8*t)
			pulse := 0.5 + 0.5*math32.Sin(s.phase+float32(row+col)*0.4)
			q := batch.RoundedRect(batch.Rect{X: x, Y: y, W: cellSize, H: cellSize}, c, 4+8*pulse)
			store.Push(q)
		}
	}

	// Two overlapping panels with four-corner gradients and borders.
	corners := [4]batch.Color{
		batch.RGB(1, 1, 0),
		batch.RGB(1, 1, 1),
		batch.RGB(1, 0, 0),
		batch.RGB(0, 1, 0),
	}
	for i, at := range []batch.Rect{
		{X: 10, Y: 20, W: 100, H: 200},
		{X: 30, Y: 40, W: 100, H: 200},
	} {
		at.X += float32(width) - 160
		at.Y += dy
		q := batch.RoundedRect(at, batch.White, 5).
			WithGradient(corners[0], corners[1], corners[2], corners[3]).
			WithBorder(batch.Black, 2)
		if i == 1 {
			q = q.WithRadii(20, 5, 20, 5)
		}
		store.Push(q)
	}

	// Text over a translucent backing panel.
	if len(s.lines) > 0 {
		m := s.face.Metrics()
		top := float32(textTop) + dy - m.Ascent - 4
		h := float32(len(s.lines)-1)*lineSpacing + m.Ascent + m.Descent + 8
		store.Push(batch.RoundedRect(batch.Rect{X: 4, Y: top, W: float32(width) / 2, H: h}, batch.RGBA(0, 0, 0, 0.6), 6))

		lines := text.Stack(s.lines, 10, textTop+dy, lineSpacing, batch.White)
		if err := text.Lines(context.Background(), store, s.atlas, s.face, lines); err != nil {
			return fmt.Errorf("demo: text: %w", err)
		}
	}
	return nil
}

// SyncTexture uploads the atlas to dev when glyphs were added since the
// last upload.
func (s *Scene) SyncTexture(dev batch.TextureBinder) error {
	if !s.atlas.Dirty() {
		return nil
	}
	if err := dev.SetTexture(s.atlas.Image()); err != nil {
		return fmt.Errorf("demo: upload atlas: %w", err)
	}
	s.atlas.MarkClean()
	return nil
}
