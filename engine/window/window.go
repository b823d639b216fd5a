// Package window owns the GLFW window the renderer presents into and forwards its input and
// resize events to the engine.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the surface target and event source of the frame loop.
// Key codes passed to the key callbacks are GLFW key codes, matching the common.Key* constants.
type Window interface {
	// SetUpdateCallback sets the function run once per loop iteration, after events are polled.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving the new framebuffer size in pixels.
	// Minimizing reports a zero size.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function receiving the vertical wheel offset; positive is away from the user.
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function receiving presses and auto-repeats.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function receiving releases.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor describes the native surface for renderer.NewRenderer.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil once the window is destroyed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the loop should keep iterating.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	// The window stays alive until Close.
	RequestClose()

	// Close destroys the window. Closing twice is a no-op.
	//
	// Returns:
	//   - error: if the window was never created
	Close() error

	// ProcessMessages polls events and runs the update callback until the window stops running.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	// Size limits applied while the user resizes.
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// Framebuffer size, updated on every resize event.
	width  int
	height int

	closeOnEscape bool

	platform *glfwWindow

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Must be called from the main goroutine; the calling
// goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options applied over the defaults (1280x720, Escape closes)
//
// Returns:
//   - Window: the shown window
//   - error: if GLFW could not create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:         "oxy-front",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunning(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for platformPollEvents(w) {
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
