package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFont is returned when font data is empty.
	ErrEmptyFont = errors.New("text: empty font data")

	// ErrAtlasFull is returned when a glyph does not fit in the atlas.
	ErrAtlasFull = errors.New("text: glyph atlas is full")

	// ErrNilAtlas is returned by draw functions given a nil atlas or face.
	ErrNilAtlas = errors.New("text: atlas and face must not be nil")
)
