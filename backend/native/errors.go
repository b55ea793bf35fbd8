// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Errors returned by the native backend.
var (
	// ErrNoGPU is returned when no Vulkan backend or adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrInvalidProvider is returned by NewFromProvider when the provider
	// does not expose HAL device and queue handles.
	ErrInvalidProvider = errors.New("native: provider does not expose HAL types")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("native: unknown resource")

	// ErrStaleTarget is returned when a pass or Present names a target that
	// is not the one currently acquired.
	ErrStaleTarget = errors.New("native: target was not acquired")

	// ErrGPUTimeout is returned when a submitted frame does not complete in
	// time.
	ErrGPUTimeout = errors.New("native: timed out waiting for GPU")
)
