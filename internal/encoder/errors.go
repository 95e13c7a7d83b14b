package encoder

import "errors"

var (
	// ErrUnavailable means no usable encoder exists: either ffmpeg is missing
	// from PATH or it lists none of the supported H.264 encoders. Probe fails
	// with this before any simulation work starts.
	ErrUnavailable = errors.New("encoder: unavailable")

	// ErrWriteFailed wraps a broken pipe to the encoder process.
	ErrWriteFailed = errors.New("encoder: frame write failed")

	// ErrSinkClosed is returned by Push after Close.
	ErrSinkClosed = errors.New("encoder: sink closed")
)
