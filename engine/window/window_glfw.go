package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNoWindow = errors.New("window is not initialized")

type glfwWindow struct {
	window    *glfw.Window
	destroyed bool
}

// newPlatformWindow creates the GLFW window without a client API (the renderer brings its own
// WebGPU device) and routes its callbacks into w.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	w.platform = &glfwWindow{window: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if w.closeOnEscape && key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	// The surface is configured in framebuffer pixels, which differ from window units on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	w.width, w.height = win.GetFramebufferSize()

	return nil
}

func platformSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.platform == nil || w.platform.destroyed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.platform.window)
}

func platformIsRunning(w *engineWindow) bool {
	return w.platform != nil && !w.platform.destroyed && !w.platform.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if platformIsRunning(w) {
		w.platform.window.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the window and terminates GLFW once.
func platformCloseWindow(w *engineWindow) error {
	if w.platform == nil {
		return errNoWindow
	}
	if w.platform.destroyed {
		return nil
	}
	w.platform.destroyed = true
	w.platform.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformPollEvents dispatches pending events without blocking and reports whether to keep looping.
func platformPollEvents(w *engineWindow) bool {
	if !platformIsRunning(w) {
		return false
	}
	glfw.PollEvents()
	return platformIsRunning(w)
}
