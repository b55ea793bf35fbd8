//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/shapes/gpucore"
)

// frameTarget is the swapchain texture acquired for one frame.
type frameTarget struct {
	id   gpucore.TargetID
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

func (b *Backend) dropFrame() {
	if b.frame == nil {
		return
	}
	b.frame.view.Release()
	b.frame.tex.Release()
	b.frame = nil
}

// AcquireTarget implements gpucore.Surface. Any failure to obtain the
// current swapchain texture is reported as gpucore.ErrSurfaceLost so the
// caller reconfigures and skips the frame.
func (b *Backend) AcquireTarget() (gpucore.TargetID, error) {
	if b.frame != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: previous frame %d not yet presented", b.frame.id)
	}
	if b.width == 0 || b.height == 0 {
		return gpucore.InvalidID, fmt.Errorf("webgpu: acquire on empty surface: %w", gpucore.ErrSurfaceLost)
	}

	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: %w: %w", gpucore.ErrSurfaceLost, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return gpucore.InvalidID, fmt.Errorf("webgpu: create view: %w", err)
	}
	b.frame = &frameTarget{id: gpucore.TargetID(b.newID()), tex: tex, view: view}
	return b.frame.id, nil
}

// Reconfigure implements gpucore.Surface. A zero size leaves the surface
// unconfigured until the next non-zero size.
func (b *Backend) Reconfigure(width, height uint32) error {
	b.dropFrame()
	b.width, b.height = width, height
	if width == 0 || height == 0 {
		return nil
	}

	caps := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.format,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})
	b.log.Debug("webgpu: surface configured", "width", width, "height", height)
	return nil
}

// Present implements gpucore.Surface.
func (b *Backend) Present(target gpucore.TargetID) error {
	if b.frame == nil || target != b.frame.id {
		return fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}
	b.surface.Present()
	b.dropFrame()
	return nil
}

// ViewportSize implements gpucore.ViewportReporter with the live framebuffer
// size of the window.
func (b *Backend) ViewportSize() (uint32, uint32) {
	w, h := b.window.GetFramebufferSize()
	return uint32(max(w, 0)), uint32(max(h, 0))
}

// BeginRenderPass implements gpucore.Device.
func (b *Backend) BeginRenderPass(target gpucore.TargetID, clear gpucore.Color) (gpucore.RenderPass, error) {
	if b.frame == nil || target != b.frame.id {
		return nil, fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    b.frame.view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: clear.R, G: clear.G, B: clear.B, A: clear.A,
			},
		}},
	})
	return &renderPass{b: b, encoder: encoder, pass: pass}, nil
}

// Submit implements gpucore.Device.
func (b *Backend) Submit() error {
	pending := b.pending
	b.pending = nil
	for _, cmd := range pending {
		b.queue.Submit(cmd)
		cmd.Release()
	}
	return nil
}
