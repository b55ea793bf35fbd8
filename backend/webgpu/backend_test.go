//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/gogpu/shapes/backend"
	"github.com/gogpu/shapes/gpucore"
)

func TestConvertBufferUsage(t *testing.T) {
	tests := []struct {
		in   gpucore.BufferUsage
		want wgpu.BufferUsage
	}{
		{gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst, wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst},
		{gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst, wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst},
		{gpucore.BufferUsageIndex, wgpu.BufferUsageIndex},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convertBufferUsage(tt.in))
	}
}

func TestConvertTopology(t *testing.T) {
	assert.Equal(t, wgpu.PrimitiveTopologyLineStrip, convertTopology(gpucore.TopologyLineStrip))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, convertTopology(gpucore.TopologyTriangleList))
}

func TestFactoryNeedsWindow(t *testing.T) {
	_, err := backend.Open(backend.NameWebGPU, backend.Config{Width: 800, Height: 600})
	assert.ErrorIs(t, err, backend.ErrNeedsWindow)
}
