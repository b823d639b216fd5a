package scene

import (
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithInit sets the resource registration callback.
//
// Parameters:
//   - fn: called once by the engine before the first frame
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInit(fn func(f frame.Frame) error) SceneBuilderOption {
	return func(s *scene) {
		s.init = fn
	}
}

// WithRender sets the per-frame draw callback.
//
// Parameters:
//   - fn: called every frame with a fresh frame scope
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRender(fn func(f frame.Frame, dt float32)) SceneBuilderOption {
	return func(s *scene) {
		s.render = fn
	}
}

// WithKeyHandlers sets the key press and release callbacks. Either may be nil.
//
// Parameters:
//   - down: called on key press
//   - up: called on key release
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithKeyHandlers(down, up func(key uint32)) SceneBuilderOption {
	return func(s *scene) {
		s.keyDown = down
		s.keyUp = up
	}
}

// WithCameraUpdate sets the callback that moves the camera before each frame.
//
// Parameters:
//   - fn: called every frame before Render
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameraUpdate(fn func(cam camera.Camera, dt float32)) SceneBuilderOption {
	return func(s *scene) {
		s.updateCamera = fn
	}
}
