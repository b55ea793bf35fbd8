// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package webgpu renders shapes into a GLFW window through WebGPU
// (cogentcore/webgpu, a binding of wgpu-native).
//
// This is the interactive backend. It requests a high performance adapter
// compatible with the window surface, configures the swapchain with FIFO
// presentation and the first format the surface reports, and maps every
// gpucore ID to the matching wgpu object.
//
// Importing the package registers it under backend.NameWebGPU. The factory
// requires Config.Window to be a *glfw.Window; it returns
// backend.ErrNeedsWindow otherwise.
//
// WebGPU has no polygon mode, so wireframe pipelines fall back to fill.
// All calls must be made from the thread that created the window.
package webgpu
