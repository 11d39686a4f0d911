package text

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/batch"
)

// DrawString shapes s and pushes one textured quad per visible glyph into
// store. The baseline is at y. It returns the total advance.
//
// The atlas must be bound as the device texture (batch.TextureBinder)
// before the store is flushed, and re-bound whenever Atlas.Dirty reports
// new glyphs.
func DrawString(store *batch.Store, atlas *Atlas, face *Face, s string, x, y float32, c batch.Color) (float32, error) {
	if store == nil {
		return 0, batch.ErrNilStore
	}
	if atlas == nil || face == nil || face.Font == nil {
		return 0, ErrNilAtlas
	}

	aw, ah := atlas.Size()
	invW, invH := 1/float32(aw), 1/float32(ah)

	var advance float32
	for _, g := range face.Shape(s) {
		advance = g.X + g.Advance
		r, err := atlas.Glyph(face, g.ID)
		if err != nil {
			return advance, err
		}
		if r.Empty() {
			continue
		}
		w, h := float32(r.Rect.Dx()), float32(r.Rect.Dy())
		dst := batch.Rect{
			X: x + g.X + float32(r.Offset.X),
			Y: y + g.Y + float32(r.Offset.Y),
			W: w,
			H: h,
		}
		src := batch.Rect{
			X: float32(r.Rect.Min.X) * invW,
			Y: float32(r.Rect.Min.Y) * invH,
			W: w * invW,
			H: h * invH,
		}
		store.Push(batch.Textured(dst, src, c))
	}
	return advance, nil
}

// Line is one line of text for Lines.
type Line struct {
	Text  string
	X, Y  float32
	Color batch.Color
}

// Lines lays out lines concurrently. Each line is drawn into its own store;
// the stores are then appended to dst in line order, so the result is the
// same as drawing the lines one after another.
func Lines(ctx context.Context, dst *batch.Store, atlas *Atlas, face *Face, lines []Line) error {
	if dst == nil {
		return batch.ErrNilStore
	}
	if len(lines) == 0 {
		return nil
	}

	local := make([]*batch.Store, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	for i, ln := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := batch.NewStore(len(ln.Text))
			if _, err := DrawString(s, atlas, face, ln.Text, ln.X, ln.Y, ln.Color); err != nil {
				return err
			}
			local[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, s := range local {
		dst.AppendStore(s)
	}
	slogger().Debug("text: lines laid out", "lines", len(lines), "quads", dst.Len())
	return nil
}

// Stack returns lines at x stacked downward from baseline y with the given
// spacing, all in color c.
func Stack(texts []string, x, y, spacing float32, c batch.Color) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Text: t, X: x, Y: y + float32(i)*spacing, Color: c}
	}
	return lines
}
