package batch

import "github.com/gogpu/batch/input"

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := batch.NewContext(dev, win,
//	    batch.WithInitialCapacity(4096),
//	    batch.WithClearColor(batch.Black),
//	    batch.WithHandler(&scroller),
//	)
type ContextOption func(*contextOptions)

type contextOptions struct {
	capacity int
	store    *Store
	clear    Color
	handler  input.Handler
	width    int
	height   int
}

func defaultOptions() contextOptions {
	return contextOptions{
		capacity: DefaultCapacity,
		clear:    ClearGreen,
	}
}

// WithInitialCapacity sets the capacity of the store the context creates.
// Ignored when WithStore is also given.
func WithInitialCapacity(n int) ContextOption {
	return func(o *contextOptions) {
		o.capacity = n
	}
}

// WithStore makes the context draw into an existing store.
func WithStore(s *Store) ContextOption {
	return func(o *contextOptions) {
		o.store = s
	}
}

// WithClearColor sets the color each frame starts from.
func WithClearColor(c Color) ContextOption {
	return func(o *contextOptions) {
		o.clear = c
	}
}

// WithHandler routes window events to h. If h implements input.Quitter
// the frame loop stops once it reports a quit request.
func WithHandler(h input.Handler) ContextOption {
	return func(o *contextOptions) {
		o.handler = h
	}
}

// WithSize sets the drawable size used when the context has no window.
func WithSize(width, height int) ContextOption {
	return func(o *contextOptions) {
		o.width = width
		o.height = height
	}
}
