package frame

import (
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/loader"
)

// FrameBuilderOption is a functional option used to configure a Frame during construction.
type FrameBuilderOption func(*frame)

// WithRequestBuffer reuses buf's backing array for the frame's requests.
// The frame loop passes the previous frame's slice to avoid regrowing it every frame.
//
// Parameters:
//   - buf: a request slice whose contents may be overwritten
//
// Returns:
//   - FrameBuilderOption: a function that sets the request buffer
func WithRequestBuffer(buf []batch.DrawRequest) FrameBuilderOption {
	return func(f *frame) {
		f.requests = buf[:0]
	}
}

// WithLoader shares a model loader, and its cache, between frames.
//
// Parameters:
//   - l: the loader AddModel reads through
//
// Returns:
//   - FrameBuilderOption: a function that sets the loader
func WithLoader(l loader.Loader) FrameBuilderOption {
	return func(f *frame) {
		f.loader = l
	}
}
