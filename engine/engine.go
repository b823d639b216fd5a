package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
	"github.com/Carmen-Shannon/oxy-front/engine/loader"
	"github.com/Carmen-Shannon/oxy-front/engine/profiler"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer"
	"github.com/Carmen-Shannon/oxy-front/engine/scene"
	"github.com/Carmen-Shannon/oxy-front/engine/window"
)

// engine implements the Engine interface.
// Owns the window, renderer, camera and scene and drives them from the window's message loop.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	scene    scene.Scene
	batcher  batch.Batcher
	loader   loader.Loader

	rendererOptions []renderer.RendererBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	requests    []batch.DrawRequest
	initialized bool
	lastFrame   time.Time

	quit atomic.Bool
}

// Engine is the main entry point for the engine.
// It runs a single-threaded frame loop on the goroutine that owns the window.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the GPU context.
	Renderer() renderer.Renderer

	// Camera returns the camera used as the frame's transform source.
	Camera() camera.Camera

	// Scene returns the scene driven by the engine.
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers a function called at the start of every Step.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Init runs the scene's Init once with a frame bound to the renderer's registry.
	// Later calls are no-ops.
	//
	// Returns:
	//   - error: the scene's Init error
	Init() error

	// Step advances the camera, collects the scene's draw requests, batches them and renders one frame.
	// A surface error that needs reconfiguration forces a resize to the current extent and skips the frame.
	//
	// Parameters:
	//   - dt: seconds since the previous step
	//
	// Returns:
	//   - renderer.FrameStats: counters for the rendered frame
	//   - error: the BeginFrame or Render error for a skipped frame
	Step(dt float32) (renderer.FrameStats, error)

	// Run initializes the scene, then blocks in the window message loop calling Step every iteration.
	// When the loop ends the renderer is released and the window closed.
	//
	// Returns:
	//   - error: the scene's Init error
	Run() error

	// Quit stops the message loop at the next iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options. A window is required; without a
// renderer option the renderer is created for the window with the collected renderer options.
// The camera defaults to the window's aspect ratio, and the scene to an empty one.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: the renderer creation error
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		profiler: profiler.NewProfiler(),
		batcher:  batch.NewBatcher(),
		loader:   loader.NewLoader(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		panic("engine: a window is required")
	}

	if e.renderer == nil {
		r, err := renderer.NewRenderer(e.window, e.rendererOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
		e.renderer = r
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithAspect(aspect(e.window.Width(), e.window.Height())))
	}
	if e.scene == nil {
		e.scene = scene.NewScene("empty")
	}

	e.window.SetResizeCallback(e.onResize)
	e.window.SetKeyDownCallback(e.onKeyDown)
	e.window.SetKeyUpCallback(e.onKeyUp)
	e.window.SetScrollCallback(e.onScroll)

	return e, nil
}

// aspect returns width/height, or 0 for a degenerate extent so SetAspect ignores it.
func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return float32(width) / float32(height)
}

func (e *engine) onResize(width, height int) {
	e.renderer.Resize(width, height)
	e.camera.SetAspect(aspect(width, height))
}

func (e *engine) onKeyDown(key uint32) {
	if h, ok := e.scene.(scene.InputHandler); ok {
		h.KeyDown(key)
	}
	if c := e.camera.Controller(); c != nil {
		c.KeyDown(key)
	}
}

func (e *engine) onKeyUp(key uint32) {
	if h, ok := e.scene.(scene.InputHandler); ok {
		h.KeyUp(key)
	}
	if c := e.camera.Controller(); c != nil {
		c.KeyUp(key)
	}
}

func (e *engine) onScroll(delta float32) {
	if c := e.camera.Controller(); c != nil {
		c.Zoom(delta)
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) Init() error {
	if e.initialized {
		return nil
	}
	f := frame.New(e.renderer.Registry(), frame.WithLoader(e.loader))
	err := e.scene.Init(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to initialize scene %v: %w", e.scene, err)
	}
	e.initialized = true
	common.Logger().Info("scene initialized",
		"meshes", e.renderer.Registry().MeshCount(),
		"textures", e.renderer.Registry().TextureCount())
	return nil
}

func (e *engine) Step(dt float32) (renderer.FrameStats, error) {
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if u, ok := e.scene.(scene.CameraUpdater); ok {
		u.UpdateCamera(e.camera, dt)
	}
	if c := e.camera.Controller(); c != nil {
		c.Step(dt)
		e.camera.Update()
	}

	f := frame.New(e.renderer.Registry(), frame.WithRequestBuffer(e.requests), frame.WithLoader(e.loader))
	e.scene.Render(f, dt)
	e.requests = f.Close()
	groups := e.batcher.Build(e.requests)

	if err := e.renderer.BeginFrame(); err != nil {
		var surfaceErr *renderer.SurfaceError
		if errors.As(err, &surfaceErr) && surfaceErr.NeedsReconfigure() {
			e.renderer.Resize(e.renderer.Extent())
		}
		common.Logger().Debug("frame skipped", "error", err)
		return renderer.FrameStats{Groups: len(groups)}, err
	}

	stats, err := e.renderer.Render(groups, e.camera)
	if err != nil {
		common.Logger().Warn("frame failed", "error", err)
		return stats, err
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(stats.DrawCalls, stats.Groups, stats.Instances, stats.Skipped)
	}
	return stats, nil
}

func (e *engine) Run() error {
	if err := e.Init(); err != nil {
		return err
	}
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.update)
	e.window.ProcessMessages()

	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("failed to close window", "error", err)
	}
	return nil
}

// update is the window's per-iteration callback.
func (e *engine) update() {
	if e.quit.Load() {
		e.window.RequestClose()
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	_, _ = e.Step(dt)

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		elapsed := time.Since(now)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// Quit signals the message loop to stop.
// Safe to call multiple times and from any goroutine.
func (e *engine) Quit() {
	e.quit.Store(true)
}
