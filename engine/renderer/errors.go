package renderer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAdapterNotFound is returned by NewRenderer when no compatible GPU adapter exists.
	ErrAdapterNotFound = errors.New("no compatible GPU adapter")

	// ErrDeviceInit is returned by NewRenderer when the device or surface cannot be created.
	ErrDeviceInit = errors.New("GPU device initialization failed")

	// ErrSurfaceUnavailable matches every *SurfaceError via errors.Is.
	ErrSurfaceUnavailable = errors.New("surface texture unavailable")

	// ErrFrameInProgress is returned by BeginFrame when a target is already acquired.
	ErrFrameInProgress = errors.New("frame already in progress")

	// ErrNotConfigured is returned when the surface has never been configured.
	ErrNotConfigured = errors.New("surface not configured")

	// ErrNoFrame is returned by Render when BeginFrame has not succeeded first.
	ErrNoFrame = errors.New("no frame in progress")
)

// SurfaceErrorKind classifies why the next presentable image could not be acquired.
type SurfaceErrorKind int

const (
	SurfaceOther SurfaceErrorKind = iota
	SurfaceTimeout
	SurfaceOutdated
	SurfaceLost
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceTimeout:
		return "timeout"
	case SurfaceOutdated:
		return "outdated"
	case SurfaceLost:
		return "lost"
	default:
		return "other"
	}
}

// SurfaceError is returned by BeginFrame when the surface cannot provide a texture.
// The frame is skipped; NeedsReconfigure tells the caller whether to resize before the next one.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("surface %s", e.Kind)
	}
	return fmt.Sprintf("surface %s: %v", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSurfaceUnavailable) hold for every SurfaceError.
func (e *SurfaceError) Is(target error) bool {
	return target == ErrSurfaceUnavailable
}

// NeedsReconfigure reports whether the surface must be reconfigured before the next frame.
// A timeout is transient; every other kind reconfigures.
func (e *SurfaceError) NeedsReconfigure() bool {
	return e.Kind != SurfaceTimeout
}

// classifySurfaceError wraps a texture acquisition failure into a *SurfaceError.
// wgpu-native reports the status only in the message text.
func classifySurfaceError(err error) *SurfaceError {
	var se *SurfaceError
	if errors.As(err, &se) {
		return se
	}

	msg := strings.ToLower(err.Error())
	kind := SurfaceOther
	switch {
	case strings.Contains(msg, "timeout"):
		kind = SurfaceTimeout
	case strings.Contains(msg, "outdated"):
		kind = SurfaceOutdated
	case strings.Contains(msg, "lost"):
		kind = SurfaceLost
	}
	return &SurfaceError{Kind: kind, Err: err}
}
