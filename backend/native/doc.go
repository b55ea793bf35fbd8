// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native renders shapes through the Pure Go gogpu/wgpu HAL.
//
// The backend draws into an offscreen BGRA texture. Every submitted frame is
// copied to a staging buffer, read back and converted to RGBA, so the
// presented frame is available as an [image.RGBA] through [Backend.Image].
// This makes it usable without a window: for headless rendering, CI
// screenshots, or as the device half of an application that already owns a
// gpucontext.DeviceProvider.
//
// Importing the package registers it with the backend registry under
// backend.NameNative. Build with the nogpu tag to leave it out.
//
// The HAL exposes no polygon mode, so [Backend.Capabilities] reports no
// wireframe support and the renderer falls back to filled triangles.
package native
