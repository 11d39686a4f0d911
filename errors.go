package batch

import "errors"

var (
	// ErrNilDevice is returned when a renderer or context is created
	// without a device.
	ErrNilDevice = errors.New("batch: device must not be nil")

	// ErrNilStore is returned when Flush is called with a nil store.
	ErrNilStore = errors.New("batch: store must not be nil")

	// ErrShortBuffer is returned when a destination buffer cannot hold the
	// encoded quads.
	ErrShortBuffer = errors.New("batch: buffer too small for quads")
)
