// Package shapes renders a fixed set of 2D shapes (circles and triangles)
// through a GPU pipeline while keeping their proportions under any window
// aspect ratio.
//
// # Overview
//
// A [Renderer] owns one shared vertex/index buffer pair and one render
// pipeline per [Kind], an ordered list of [Shape] instances and a single
// aspect-ratio uniform. Every shape carries a [Transform] (position plus
// uniform scale) that is packed into a 64-byte model matrix and uploaded to a
// uniform buffer owned by that shape.
//
// The renderer is written against the collaborator interfaces in package
// gpucore. Concrete backends live under backend/:
//
//   - backend/webgpu: windowed presentation through WebGPU and GLFW
//   - backend/native: Pure Go HAL (gogpu/wgpu), offscreen targets
//   - backend/software: CPU reference rasterizer producing *image.RGBA
//
// # Quick Start
//
//	dev := software.New(800, 600)
//	r, err := shapes.NewRenderer(gpucore.Context{Device: dev, Surface: dev}, 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	_, _ = r.AddShape(shapes.KindCircle, mgl32.Vec3{-0.5, 0, 0}, 1.3)
//	_, _ = r.AddShape(shapes.KindTriangle, mgl32.Vec3{0.5, 0.5, 0}, 0.2)
//
//	if err := r.Frame(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Frames and resizes
//
// [Renderer.Frame] acquires a target, reconciles the aspect ratio with the
// current viewport, records one draw per shape in insertion order, submits
// and presents. A lost surface is reconfigured and the frame is skipped.
// [Renderer.Resize] reconfigures the surface and uploads the new aspect ratio
// immediately. [Renderer.HandleEvent] maps window events onto these calls.
//
// # Coordinate system
//
// Shapes are positioned in normalized device coordinates: x and y in [-1, 1]
// with +y up. The vertex shader divides x by width/height, so a circle stays
// round in a wide window.
//
// # Concurrency
//
// A Renderer is not safe for concurrent use. It is meant to be driven from
// the goroutine that runs the window event loop.
package shapes
