// Package text turns strings into textured quads for a batch.Store.
//
// A Font is parsed once and used at any size through a Face. Face.Shape
// runs HarfBuzz shaping (go-text/typesetting) so kerning and ligatures are
// applied. Glyphs are rasterized from their outlines and packed on demand
// into an Atlas, a single RGBA texture shared by all faces.
//
//	f, err := text.LoadFont(goregular.TTF)
//	face := text.NewFace(f, 16)
//	atlas := text.NewAtlas(0, 0)
//	atlas.Prepare(face, text.ASCII())
//	text.DrawString(store, atlas, face, "Hello", 10, 20, batch.White)
//	dev.SetTexture(atlas.Image())
//
// Lines lays out several lines in parallel with one store per line and a
// single ordered AppendStore at the end.
package text
