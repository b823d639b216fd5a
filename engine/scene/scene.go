package scene

import (
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
)

// Scene is the application content driven by the engine. Init runs once with a frame that can
// register meshes and textures. Render runs every frame and submits draw requests.
type Scene interface {
	// Init registers the scene's resources.
	//
	// Parameters:
	//   - f: a frame scope bound to the renderer's registry
	//
	// Returns:
	//   - error: an error aborts engine start-up
	Init(f frame.Frame) error

	// Render submits the draw requests for one frame.
	//
	// Parameters:
	//   - f: the frame scope collecting draw requests
	//   - dt: seconds since the previous frame
	Render(f frame.Frame, dt float32)
}

// InputHandler is implemented by scenes that react to keys. Key codes follow common.Key*.
type InputHandler interface {
	KeyDown(key uint32)
	KeyUp(key uint32)
}

// CameraUpdater is implemented by scenes that move the camera before each frame.
type CameraUpdater interface {
	UpdateCamera(cam camera.Camera, dt float32)
}

// scene composes a Scene from callbacks.
type scene struct {
	name string

	init         func(f frame.Frame) error
	render       func(f frame.Frame, dt float32)
	keyDown      func(key uint32)
	keyUp        func(key uint32)
	updateCamera func(cam camera.Camera, dt float32)
}

var (
	_ Scene         = &scene{}
	_ InputHandler  = &scene{}
	_ CameraUpdater = &scene{}
)

// NewScene builds a Scene from callbacks. Missing callbacks do nothing.
//
// Parameters:
//   - name: a name used in log output
//   - options: callbacks configuring the scene
//
// Returns:
//   - Scene: the scene, which also satisfies InputHandler and CameraUpdater
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{name: name}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) String() string {
	return s.name
}

func (s *scene) Init(f frame.Frame) error {
	if s.init == nil {
		return nil
	}
	return s.init(f)
}

func (s *scene) Render(f frame.Frame, dt float32) {
	if s.render != nil {
		s.render(f, dt)
	}
}

func (s *scene) KeyDown(key uint32) {
	if s.keyDown != nil {
		s.keyDown(key)
	}
}

func (s *scene) KeyUp(key uint32) {
	if s.keyUp != nil {
		s.keyUp(key)
	}
}

func (s *scene) UpdateCamera(cam camera.Camera, dt float32) {
	if s.updateCamera != nil {
		s.updateCamera(cam, dt)
	}
}
