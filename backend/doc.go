// Package backend provides the registry of shape rendering backends.
//
// A backend is a gpucore device and surface pair plus Close. Backends are
// registered from init() functions in their own packages and selected at
// runtime by name:
//
//	import (
//	    "github.com/gogpu/shapes/backend"
//	    _ "github.com/gogpu/shapes/backend/native"
//	    _ "github.com/gogpu/shapes/backend/software"
//	)
//
//	b, err := backend.Open("software", backend.Config{Width: 800, Height: 600})
//
// Open with an empty name tries the registered backends in priority order:
// webgpu, native, software. The software backend is always available.
package backend
