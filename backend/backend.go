package backend

import (
	"errors"

	"github.com/gogpu/shapes/gpucore"
)

// Backend name constants.
const (
	// NameWebGPU is the windowed backend (cogentcore/webgpu on a GLFW surface).
	NameWebGPU = "webgpu"
	// NameNative is the Pure Go GPU backend (gogpu/wgpu HAL, offscreen).
	NameNative = "native"
	// NameSoftware is the CPU reference backend.
	NameSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or could not be opened.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNeedsWindow is returned by windowed backends opened without a window.
	ErrNeedsWindow = errors.New("backend: window required")
)

// Backend is a device and the surface it renders into.
type Backend interface {
	gpucore.Device
	gpucore.Surface

	// Close releases the device. Resources created on it must already be
	// destroyed.
	Close() error
}

// Config carries the parameters a factory needs to open a backend.
type Config struct {
	Width, Height int

	// Window is the platform window for windowed backends (a *glfw.Window).
	// Offscreen backends ignore it.
	Window any
}

// Context returns the gpucore.Context for b.
func Context(b Backend) gpucore.Context {
	return gpucore.Context{Device: b, Surface: b}
}
