//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shapes/gpucore"
)

// fenceTimeout bounds the wait for one submitted frame.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the row alignment of texture to buffer copies.
const copyPitchAlignment = 256

// offscreenTarget is the texture frames are rendered into.
type offscreenTarget struct {
	tex           hal.Texture
	view          hal.TextureView
	width, height uint32
}

// frameReadback is an encoded frame waiting for Submit.
type frameReadback struct {
	cmdBuf      hal.CommandBuffer
	staging     hal.Buffer
	width       uint32
	height      uint32
	alignedRow  uint32
	stagingSize uint64
}

func (f *frameReadback) release(device hal.Device) {
	if f.cmdBuf != nil {
		device.FreeCommandBuffer(f.cmdBuf)
		f.cmdBuf = nil
	}
	if f.staging != nil {
		device.DestroyBuffer(f.staging)
		f.staging = nil
	}
}

// ensureTarget creates the offscreen texture for the current size.
// Must be called with mu held.
func (b *Backend) ensureTarget() error {
	if b.target != nil && b.target.width == b.width && b.target.height == b.height {
		return nil
	}
	b.destroyTarget()

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: "shapes_target",
		Size: hal.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("native: create target texture: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "shapes_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("native: create target view: %w", err)
	}
	b.target = &offscreenTarget{tex: tex, view: view, width: b.width, height: b.height}
	return nil
}

// destroyTarget must be called with mu held.
func (b *Backend) destroyTarget() {
	if b.target == nil {
		return
	}
	b.device.DestroyTextureView(b.target.view)
	b.device.DestroyTexture(b.target.tex)
	b.target = nil
}

// AcquireTarget implements gpucore.Surface.
func (b *Backend) AcquireTarget() (gpucore.TargetID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.width == 0 || b.height == 0 {
		return gpucore.InvalidID, fmt.Errorf("native: acquire on empty surface: %w", gpucore.ErrSurfaceLost)
	}
	if err := b.ensureTarget(); err != nil {
		return gpucore.InvalidID, err
	}
	b.acquired = gpucore.TargetID(b.newID())
	return b.acquired, nil
}

// Reconfigure implements gpucore.Surface. The texture is recreated lazily
// on the next AcquireTarget.
func (b *Backend) Reconfigure(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, f := range b.pending {
		f.release(b.device)
	}
	b.pending = nil
	b.width, b.height = width, height
	b.acquired = gpucore.InvalidID
	b.back = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	b.log.Debug("native: surface reconfigured", "width", width, "height", height)
	return nil
}

// Present implements gpucore.Surface.
func (b *Backend) Present(target gpucore.TargetID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if target == gpucore.InvalidID || target != b.acquired {
		return fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}
	b.front, b.back = b.back, image.NewRGBA(b.back.Rect)
	b.acquired = gpucore.InvalidID
	b.frames++
	return nil
}

// BeginRenderPass implements gpucore.Device.
func (b *Backend) BeginRenderPass(target gpucore.TargetID, clear gpucore.Color) (gpucore.RenderPass, error) {
	b.mu.RLock()
	acquired, tgt := b.acquired, b.target
	b.mu.RUnlock()
	if target == gpucore.InvalidID || target != acquired || tgt == nil {
		return nil, fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "shapes_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("shapes_frame"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "shapes_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    tgt.view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: clear.R, G: clear.G, B: clear.B, A: clear.A,
			},
		}},
	})
	return &renderPass{b: b, encoder: encoder, pass: rp, target: tgt}, nil
}

// finishFrame copies the rendered target into a staging buffer and ends
// encoding. The frame is read back by Submit.
func (b *Backend) finishFrame(encoder hal.CommandEncoder, tgt *offscreenTarget) error {
	w, h := tgt.width, tgt.height
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tgt.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	alignedRow := (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedRow) * uint64(h)
	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "shapes_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: create staging buffer: %w", err)
	}

	encoder.CopyTextureToBuffer(tgt.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tgt.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Back to RenderAttachment so the next pass starts from a known layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tgt.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		b.device.DestroyBuffer(staging)
		return fmt.Errorf("native: end encoding: %w", err)
	}

	b.mu.Lock()
	b.pending = append(b.pending, &frameReadback{
		cmdBuf:      cmdBuf,
		staging:     staging,
		width:       w,
		height:      h,
		alignedRow:  alignedRow,
		stagingSize: size,
	})
	b.mu.Unlock()
	return nil
}

// Submit implements gpucore.Device. Each ended pass is submitted, waited
// for and read back into the frame that the next Present shows.
func (b *Backend) Submit() error {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	var firstErr error
	for _, f := range pending {
		if firstErr == nil {
			firstErr = b.submitFrame(f)
		}
		f.release(b.device)
	}
	return firstErr
}

func (b *Backend) submitFrame(f *frameReadback) error {
	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{f.cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for GPU: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}

	readback := make([]byte, f.stagingSize)
	if err := b.queue.ReadBuffer(f.staging, 0, readback); err != nil {
		return fmt.Errorf("native: readback: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.back.Rect.Dx() != int(f.width) || b.back.Rect.Dy() != int(f.height) {
		// Surface was reconfigured after the pass was recorded.
		return nil
	}
	copyBGRAToRGBA(b.back, readback, f.alignedRow)
	return nil
}

// copyBGRAToRGBA strips row padding from BGRA src and stores it into dst.
func copyBGRAToRGBA(dst *image.RGBA, src []byte, srcStride uint32) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		srow := src[y*int(srcStride) : y*int(srcStride)+w*4]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			drow[x+0] = srow[x+2]
			drow[x+1] = srow[x+1]
			drow[x+2] = srow[x+0]
			drow[x+3] = srow[x+3]
		}
	}
}
