//go:build !nogpu

package platform

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/shapes"
)

// Default window parameters.
const (
	DefaultTitle  = "Shapes Renderer"
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Window is a GLFW window without a client API, ready for a WebGPU surface.
// All methods must be called from the main thread.
type Window struct {
	glw   *glfw.Window
	queue *Queue
}

// Open initializes GLFW and creates a resizable window. Non-positive sizes
// fall back to the defaults.
func Open(title string, width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("platform: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	glw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("platform: create window: %w", err)
	}

	w := &Window{glw: glw, queue: NewQueue()}
	glw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.Resized(width, height)
	})
	glw.SetCloseCallback(func(_ *glfw.Window) {
		w.queue.CloseRequested()
	})
	shapes.Logger().Debug("platform: window opened", "title", title, "width", width, "height", height)
	return w, nil
}

// GLFW returns the underlying window, for backend.Config.Window.
func (w *Window) GLFW() *glfw.Window {
	return w.glw
}

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.glw.GetFramebufferSize()
}

// Poll processes pending window system events and returns them, always
// ending with a RedrawRequestedEvent.
func (w *Window) Poll() []shapes.Event {
	glfw.PollEvents()
	return w.queue.Drain()
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.glw.Destroy()
	glfw.Terminate()
}
