//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shapes/gpucore"
)

// renderPass forwards draw commands to a HAL render pass encoder, resolving
// IDs as they arrive. Unknown IDs are skipped, matching a WebGPU pass that
// records an error instead of panicking.
type renderPass struct {
	b       *Backend
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	target  *offscreenTarget
	ended   bool
}

func (p *renderPass) SetPipeline(id gpucore.RenderPipelineID) {
	p.b.mu.RLock()
	e, ok := p.b.pipelines[id]
	p.b.mu.RUnlock()
	if ok {
		p.pass.SetPipeline(e.pipeline)
	}
}

func (p *renderPass) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	p.b.mu.RLock()
	group, ok := p.b.bindGroups[id]
	p.b.mu.RUnlock()
	if ok {
		p.pass.SetBindGroup(index, group, nil)
	}
}

func (p *renderPass) SetVertexBuffer(slot uint32, id gpucore.BufferID) {
	p.b.mu.RLock()
	e, ok := p.b.buffers[id]
	p.b.mu.RUnlock()
	if ok {
		p.pass.SetVertexBuffer(slot, e.buf, 0)
	}
}

func (p *renderPass) SetIndexBuffer(id gpucore.BufferID, _ gpucore.IndexFormat) {
	p.b.mu.RLock()
	e, ok := p.b.buffers[id]
	p.b.mu.RUnlock()
	if ok {
		p.pass.SetIndexBuffer(e.buf, gputypes.IndexFormatUint32, 0)
	}
}

func (p *renderPass) Draw(vertexCount uint32) {
	p.pass.Draw(vertexCount, 1, 0, 0)
}

func (p *renderPass) DrawIndexed(indexCount uint32) {
	p.pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

func (p *renderPass) End() error {
	if p.ended {
		return errors.New("native: render pass already ended")
	}
	p.ended = true
	p.pass.End()
	return p.b.finishFrame(p.encoder, p.target)
}
