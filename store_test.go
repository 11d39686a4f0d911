package batch

import "testing"

func quadAt(x float32) Quad {
	return Solid(Rect{X: x, Y: 0, W: 10, H: 10}, White)
}

func TestNewStoreDefaultCapacity(t *testing.T) {
	for _, n := range []int{0, -5} {
		s := NewStore(n)
		if s.Cap() != DefaultCapacity {
			t.Errorf("NewStore(%d).Cap() = %d, want %d", n, s.Cap(), DefaultCapacity)
		}
		if s.Len() != 0 {
			t.Errorf("NewStore(%d).Len() = %d, want 0", n, s.Len())
		}
	}
}

func TestStoreGrowthScenario(t *testing.T) {
	s := NewStore(2)
	for _, x := range []float32{10, 30, 50} {
		s.Push(quadAt(x))
	}
	if s.Cap() != 4 {
		t.Errorf("Cap() = %d, want 4", s.Cap())
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.At(2).Dst.X; got != 50 {
		t.Errorf("At(2).Dst.X = %v, want 50", got)
	}
}

func TestStoreCapacityIsPowerOfTwoMultiple(t *testing.T) {
	tests := []struct {
		initial, pushes, wantCap int
	}{
		{1, 0, 1},
		{1, 1, 1},
		{1, 2, 2},
		{1, 5, 8},
		{3, 3, 3},
		{3, 4, 6},
		{3, 13, 24},
		{1024, 1025, 2048},
	}
	for _, tt := range tests {
		s := NewStore(tt.initial)
		for i := range tt.pushes {
			s.Push(quadAt(float32(i)))
		}
		if s.Len() != tt.pushes {
			t.Errorf("initial=%d pushes=%d: Len() = %d", tt.initial, tt.pushes, s.Len())
		}
		if s.Cap() != tt.wantCap {
			t.Errorf("initial=%d pushes=%d: Cap() = %d, want %d", tt.initial, tt.pushes, s.Cap(), tt.wantCap)
		}
	}
}

func TestStoreClearKeepsCapacity(t *testing.T) {
	s := NewStore(2)
	for i := range 9 {
		s.Push(quadAt(float32(i)))
	}
	capBefore := s.Cap()
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	if s.Cap() != capBefore {
		t.Errorf("Cap() after Clear = %d, want %d", s.Cap(), capBefore)
	}

	// Refilling up to the old capacity must not grow.
	for i := range capBefore {
		s.Push(quadAt(float32(i)))
	}
	if s.Cap() != capBefore {
		t.Errorf("Cap() after refill = %d, want %d", s.Cap(), capBefore)
	}
}

func TestStorePreservesOrderAcrossGrowth(t *testing.T) {
	s := NewStore(1)
	const n = 100
	for i := range n {
		s.Push(quadAt(float32(i)))
	}
	for i := range n {
		if got := s.At(i).Dst.X; got != float32(i) {
			t.Fatalf("At(%d).Dst.X = %v, want %d", i, got, i)
		}
	}

	var seen []float32
	s.ForEach(func(i int, q Quad) {
		if float32(i) != q.Dst.X {
			t.Errorf("ForEach index %d carries quad %v", i, q.Dst.X)
		}
		seen = append(seen, q.Dst.X)
	})
	if len(seen) != n {
		t.Errorf("ForEach visited %d quads, want %d", len(seen), n)
	}
}

func TestStorePushIsCopy(t *testing.T) {
	s := NewStore(4)
	q := quadAt(1)
	s.Push(q)
	q.Dst.X = 99
	if got := s.At(0).Dst.X; got != 1 {
		t.Errorf("stored quad changed to %v after caller mutation", got)
	}
}

func TestStoreAppendStore(t *testing.T) {
	a := NewStore(2)
	a.Push(quadAt(1))
	b := NewStore(2)
	for _, x := range []float32{2, 3, 4} {
		b.Push(quadAt(x))
	}

	a.AppendStore(b)
	if a.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", a.Len())
	}
	if a.Cap() != 4 {
		t.Errorf("Cap() = %d, want 4", a.Cap())
	}
	for i, want := range []float32{1, 2, 3, 4} {
		if got := a.At(i).Dst.X; got != want {
			t.Errorf("At(%d).Dst.X = %v, want %v", i, got, want)
		}
	}
	if b.Len() != 3 {
		t.Errorf("source Len() = %d, want 3", b.Len())
	}

	a.AppendStore(nil)
	a.AppendStore(NewStore(1))
	if a.Len() != 4 {
		t.Errorf("Len() after empty appends = %d, want 4", a.Len())
	}
}

func TestStoreAtOutOfRangePanics(t *testing.T) {
	s := NewStore(4)
	s.Push(quadAt(0))
	defer func() {
		if recover() == nil {
			t.Error("At(1) on a one-quad store did not panic")
		}
	}()
	_ = s.At(1)
}

func BenchmarkStorePush(b *testing.B) {
	s := NewStore(DefaultCapacity)
	q := quadAt(1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if s.Len() == DefaultCapacity {
			s.Clear()
		}
		s.Push(q)
	}
}
