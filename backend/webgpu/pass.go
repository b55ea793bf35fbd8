//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/shapes/gpucore"
)

// renderPass forwards draw commands to a wgpu render pass encoder.
type renderPass struct {
	b       *Backend
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	ended   bool
}

func (p *renderPass) SetPipeline(id gpucore.RenderPipelineID) {
	if e, ok := p.b.pipelines[id]; ok {
		p.pass.SetPipeline(e.pipeline)
	}
}

func (p *renderPass) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	if g, ok := p.b.bindGroups[id]; ok {
		p.pass.SetBindGroup(index, g, nil)
	}
}

func (p *renderPass) SetVertexBuffer(slot uint32, id gpucore.BufferID) {
	if e, ok := p.b.buffers[id]; ok {
		p.pass.SetVertexBuffer(slot, e.buf, 0, wgpu.WholeSize)
	}
}

func (p *renderPass) SetIndexBuffer(id gpucore.BufferID, _ gpucore.IndexFormat) {
	if e, ok := p.b.buffers[id]; ok {
		p.pass.SetIndexBuffer(e.buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	}
}

func (p *renderPass) Draw(vertexCount uint32) {
	p.pass.Draw(vertexCount, 1, 0, 0)
}

func (p *renderPass) DrawIndexed(indexCount uint32) {
	p.pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

// End finishes the pass and queues its command buffer for Submit.
func (p *renderPass) End() error {
	if p.ended {
		return errors.New("webgpu: render pass already ended")
	}
	p.ended = true
	p.pass.End()
	p.pass.Release()

	cmd, err := p.encoder.Finish(nil)
	p.encoder.Release()
	if err != nil {
		return fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	p.b.pending = append(p.b.pending, cmd)
	return nil
}
