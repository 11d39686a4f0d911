package text

// shelfAllocator packs rectangles into horizontal shelves. Each shelf is as
// tall as the tallest item placed on it; items go left to right until the
// shelf is full, then a new shelf starts below.
type shelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf
}

type shelf struct {
	y      int // top
	height int // tallest item so far
	x      int // next free slot
}

func newShelfAllocator(width, height, padding int) *shelfAllocator {
	return &shelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w x h rectangle. It returns false when the
// atlas has no room left.
func (a *shelfAllocator) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + a.padding
	paddedH := h + a.padding

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+paddedW > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only into free space below.
			if i != len(a.shelves)-1 || s.y+paddedH > a.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		return x, y, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+paddedH > a.height || paddedW > a.width {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	return 0, newY, true
}

func (a *shelfAllocator) reset() {
	a.shelves = a.shelves[:0]
}
