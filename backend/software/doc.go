// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software is a CPU implementation of the gpucore device and surface
// interfaces.
//
// It executes the shape shader's vertex stage in Go (model matrix, then
// division of x by the aspect ratio), maps clip space to pixels and
// rasterizes with golang.org/x/image/vector: filled triangles as polygons,
// lines and wireframe edges as thin quads. Every frame is rendered into a
// back buffer and copied to the front image on Present.
//
// The backend is useful for headless rendering, for golden-image style tests
// and on machines without a GPU.
//
//	b := software.New(800, 600)
//	r, _ := shapes.NewRenderer(b.Context(), 800, 600)
//	_ = r.Frame()
//	_ = b.SavePNG("frame.png")
package software
