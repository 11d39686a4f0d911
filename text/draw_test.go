package text

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/batch"
)

func TestDrawString(t *testing.T) {
	face := loadTestFace(t, 16)
	atlas := NewAtlas(256, 256)
	store := batch.NewStore(4)

	adv, err := DrawString(store, atlas, face, "A b", 10, 20, batch.Red)
	if err != nil {
		t.Fatalf("DrawString: %v", err)
	}
	// The space has no bitmap and emits no quad.
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if want := face.Advance("A b"); adv != want {
		t.Errorf("advance = %v, want %v", adv, want)
	}

	aw, _ := atlas.Size()
	store.ForEach(func(i int, q batch.Quad) {
		if !q.Textured() {
			t.Errorf("quad %d not textured", i)
		}
		if q.Colors[batch.TopLeft] != batch.Red {
			t.Errorf("quad %d tint = %v, want red", i, q.Colors[batch.TopLeft])
		}
		if q.Dst.Y >= 20 || q.Dst.Y+q.Dst.H < 19 {
			t.Errorf("quad %d dst %v does not sit on baseline 20", i, q.Dst)
		}
		if q.Src.X < 0 || q.Src.Y < 0 || q.Src.X+q.Src.W > 1 || q.Src.Y+q.Src.H > 1 {
			t.Errorf("quad %d src %v outside [0,1]", i, q.Src)
		}
		if got := q.Src.W * float32(aw); got != q.Dst.W {
			t.Errorf("quad %d src width %v px, dst width %v", i, got, q.Dst.W)
		}
	})
	if first, second := store.At(0), store.At(1); second.Dst.X <= first.Dst.X {
		t.Errorf("glyph quads not advancing: %v then %v", first.Dst.X, second.Dst.X)
	}
}

func TestDrawStringErrors(t *testing.T) {
	face := loadTestFace(t, 16)
	atlas := NewAtlas(64, 64)
	if _, err := DrawString(nil, atlas, face, "x", 0, 0, batch.White); !errors.Is(err, batch.ErrNilStore) {
		t.Errorf("nil store error = %v", err)
	}
	if _, err := DrawString(batch.NewStore(1), nil, face, "x", 0, 0, batch.White); !errors.Is(err, ErrNilAtlas) {
		t.Errorf("nil atlas error = %v", err)
	}
	tiny := NewAtlas(4, 4)
	if _, err := DrawString(batch.NewStore(1), tiny, face, "W", 0, 0, batch.White); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("tiny atlas error = %v, want ErrAtlasFull", err)
	}
}

func TestLinesMatchesSequential(t *testing.T) {
	face := loadTestFace(t, 14)
	atlas := NewAtlas(0, 0)
	texts := []string{"first line", "second", "", "fourth: 0123456789"}
	lines := Stack(texts, 10, 20, 20, batch.White)

	got := batch.NewStore(1)
	got.Push(batch.Solid(batch.Rect{W: 1, H: 1}, batch.Black))
	if err := Lines(context.Background(), got, atlas, face, lines); err != nil {
		t.Fatalf("Lines: %v", err)
	}

	want := batch.NewStore(1)
	want.Push(batch.Solid(batch.Rect{W: 1, H: 1}, batch.Black))
	for _, ln := range lines {
		if _, err := DrawString(want, atlas, face, ln.Text, ln.X, ln.Y, ln.Color); err != nil {
			t.Fatal(err)
		}
	}

	if got.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		if got.At(i) != want.At(i) {
			t.Fatalf("quad %d differs:\n got %+v\nwant %+v", i, got.At(i), want.At(i))
		}
	}
}

func TestStack(t *testing.T) {
	lines := Stack([]string{"a", "b", "c"}, 5, 20, 20, batch.Green)
	for i, ln := range lines {
		if want := 20 + float32(i)*20; ln.Y != want {
			t.Errorf("line %d Y = %v, want %v", i, ln.Y, want)
		}
		if ln.X != 5 || ln.Color != batch.Green {
			t.Errorf("line %d = %+v", i, ln)
		}
	}
}

func TestLinesErrors(t *testing.T) {
	face := loadTestFace(t, 14)
	if err := Lines(context.Background(), nil, NewAtlas(0, 0), face, nil); !errors.Is(err, batch.ErrNilStore) {
		t.Errorf("nil store error = %v", err)
	}
	dst := batch.NewStore(1)
	err := Lines(context.Background(), dst, NewAtlas(4, 4), face, Stack([]string{"WWW"}, 0, 10, 10, batch.White))
	if !errors.Is(err, ErrAtlasFull) {
		t.Errorf("tiny atlas error = %v, want ErrAtlasFull", err)
	}
	if dst.Len() != 0 {
		t.Errorf("failed Lines appended %d quads", dst.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Lines(ctx, dst, NewAtlas(0, 0), face, Stack([]string{"x"}, 0, 10, 10, batch.White)); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled Lines error = %v, want context.Canceled", err)
	}
}

func BenchmarkDrawString(b *testing.B) {
	face := loadTestFace(b, 16)
	atlas := NewAtlas(0, 0)
	if err := atlas.Prepare(face, ASCII()); err != nil {
		b.Fatal(err)
	}
	store := batch.NewStore(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Clear()
		_, _ = DrawString(store, atlas, face, "The quick brown fox jumps over the lazy dog", 0, 20, batch.White)
	}
}
