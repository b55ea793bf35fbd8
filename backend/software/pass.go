// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"

	"github.com/gogpu/shapes/gpucore"
)

// drawCommand is the pipeline state captured at one Draw or DrawIndexed.
type drawCommand struct {
	pipeline gpucore.RenderPipelineID
	groups   [2]gpucore.BindGroupID
	vertices gpucore.BufferID
	indices  gpucore.BufferID
	count    uint32
	indexed  bool
}

// renderPass records commands until End hands them to the backend.
type renderPass struct {
	b     *Backend
	clear gpucore.Color
	ended bool

	state drawCommand
	draws []drawCommand
}

func (p *renderPass) SetPipeline(id gpucore.RenderPipelineID) { p.state.pipeline = id }

func (p *renderPass) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	if int(index) < len(p.state.groups) {
		p.state.groups[index] = id
	}
}

func (p *renderPass) SetVertexBuffer(slot uint32, id gpucore.BufferID) {
	if slot == 0 {
		p.state.vertices = id
	}
}

func (p *renderPass) SetIndexBuffer(id gpucore.BufferID, _ gpucore.IndexFormat) {
	p.state.indices = id
}

func (p *renderPass) Draw(vertexCount uint32) {
	cmd := p.state
	cmd.count = vertexCount
	cmd.indexed = false
	p.draws = append(p.draws, cmd)
}

func (p *renderPass) DrawIndexed(indexCount uint32) {
	cmd := p.state
	cmd.count = indexCount
	cmd.indexed = true
	p.draws = append(p.draws, cmd)
}

func (p *renderPass) End() error {
	if p.ended {
		return errors.New("software: render pass already ended")
	}
	p.ended = true
	p.b.pending = append(p.b.pending, p)
	return nil
}
