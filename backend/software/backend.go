// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/backend"
	"github.com/gogpu/shapes/gpucore"
)

// Errors returned by the software backend.
var (
	ErrUnknownResource = errors.New("software: unknown resource")
	ErrOutOfBounds     = errors.New("software: write out of bounds")
	ErrStaleTarget     = errors.New("software: target was not acquired")
)

// DefaultLineWidth is the stroke width in pixels of lines and wireframe edges.
const DefaultLineWidth = 2

func init() {
	backend.Register(backend.NameSoftware, func(cfg backend.Config) (backend.Backend, error) {
		return New(cfg.Width, cfg.Height), nil
	})
}

// Backend implements gpucore.Device, gpucore.Surface and
// gpucore.ViewportReporter on the CPU.
//
// Backend is not safe for concurrent use.
type Backend struct {
	// LineWidth is the stroke width used for line topologies and wireframe
	// polygons.
	LineWidth float32
	// Foreground is the color every fragment is shaded with.
	Foreground color.RGBA

	width, height int
	back, front   *image.RGBA

	nextID     atomic.Uint64
	buffers    map[gpucore.BufferID][]byte
	layouts    map[gpucore.BindGroupLayoutID]string
	bindGroups map[gpucore.BindGroupID]gpucore.BindGroupDesc
	pipelines  map[gpucore.RenderPipelineID]gpucore.RenderPipelineDesc

	acquired gpucore.TargetID
	pending  []*renderPass
	lose     int
	frames   uint64

	log *slog.Logger
}

// New creates a backend with a width x height surface.
func New(width, height int) *Backend {
	b := &Backend{
		LineWidth:  DefaultLineWidth,
		Foreground: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		buffers:    make(map[gpucore.BufferID][]byte),
		layouts:    make(map[gpucore.BindGroupLayoutID]string),
		bindGroups: make(map[gpucore.BindGroupID]gpucore.BindGroupDesc),
		pipelines:  make(map[gpucore.RenderPipelineID]gpucore.RenderPipelineDesc),
		log:        shapes.Logger(),
	}
	b.resize(width, height)
	return b
}

// Context returns a gpucore.Context with b as device and surface.
func (b *Backend) Context() gpucore.Context {
	return gpucore.Context{Device: b, Surface: b}
}

func (b *Backend) resize(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	b.back = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.front = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
}

func (b *Backend) newID() uint64 {
	return b.nextID.Add(1)
}

// Image returns the most recently presented frame. The image is replaced,
// not modified, by the next Present.
func (b *Backend) Image() *image.RGBA {
	return b.front
}

// Frames returns the number of presented frames.
func (b *Backend) Frames() uint64 {
	return b.frames
}

// LoseSurface makes the next n AcquireTarget calls fail with
// gpucore.ErrSurfaceLost, as a real swapchain does after a display change.
func (b *Backend) LoseSurface(n int) {
	b.lose = n
}

// SavePNG writes the presented frame to path.
func (b *Backend) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("software: save png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("software: save png: %w", cerr)
		}
	}()
	if err := png.Encode(f, b.front); err != nil {
		return fmt.Errorf("software: save png: %w", err)
	}
	return nil
}

// Close drops all resources. The backend can still be reconfigured and
// reused afterwards.
func (b *Backend) Close() error {
	clear(b.buffers)
	clear(b.layouts)
	clear(b.bindGroups)
	clear(b.pipelines)
	b.pending = nil
	b.acquired = gpucore.InvalidID
	return nil
}

// Capabilities implements gpucore.Device.
func (b *Backend) Capabilities() gpucore.Capabilities {
	return gpucore.Capabilities{PolygonModeLine: true, Name: backend.NameSoftware}
}

// CreateBuffer implements gpucore.Device.
func (b *Backend) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	id := gpucore.BufferID(b.newID())
	b.buffers[id] = make([]byte, desc.Size)
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	buf, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("%w: %d bytes at offset %d into buffer of %d", ErrOutOfBounds, len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	delete(b.buffers, id)
}

// CreateUniformLayout implements gpucore.Device.
func (b *Backend) CreateUniformLayout(label string) (gpucore.BindGroupLayoutID, error) {
	id := gpucore.BindGroupLayoutID(b.newID())
	b.layouts[id] = label
	return id, nil
}

// DestroyBindGroupLayout implements gpucore.Device.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	delete(b.layouts, id)
}

// CreateBindGroup implements gpucore.Device.
func (b *Backend) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	if _, ok := b.layouts[desc.Layout]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: layout %d", ErrUnknownResource, desc.Layout)
	}
	if _, ok := b.buffers[desc.Buffer]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %d", ErrUnknownResource, desc.Buffer)
	}
	id := gpucore.BindGroupID(b.newID())
	b.bindGroups[id] = *desc
	return id, nil
}

// DestroyBindGroup implements gpucore.Device.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	delete(b.bindGroups, id)
}

// CreateRenderPipeline implements gpucore.Device.
func (b *Backend) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if desc.VertexStride != 12 {
		return gpucore.InvalidID, fmt.Errorf("software: unsupported vertex stride %d", desc.VertexStride)
	}
	id := gpucore.RenderPipelineID(b.newID())
	b.pipelines[id] = *desc
	return id, nil
}

// DestroyRenderPipeline implements gpucore.Device.
func (b *Backend) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	delete(b.pipelines, id)
}

// BeginRenderPass implements gpucore.Device.
func (b *Backend) BeginRenderPass(target gpucore.TargetID, clear gpucore.Color) (gpucore.RenderPass, error) {
	if target == gpucore.InvalidID || target != b.acquired {
		return nil, fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}
	return &renderPass{b: b, clear: clear}, nil
}

// Submit implements gpucore.Device. It executes all ended passes into the
// back buffer.
func (b *Backend) Submit() error {
	pending := b.pending
	b.pending = nil
	for _, p := range pending {
		if err := b.execute(p); err != nil {
			return err
		}
	}
	return nil
}

// AcquireTarget implements gpucore.Surface.
func (b *Backend) AcquireTarget() (gpucore.TargetID, error) {
	if b.lose > 0 {
		b.lose--
		return gpucore.InvalidID, fmt.Errorf("software: acquire: %w", gpucore.ErrSurfaceLost)
	}
	if b.width == 0 || b.height == 0 {
		return gpucore.InvalidID, fmt.Errorf("software: acquire on empty surface: %w", gpucore.ErrSurfaceLost)
	}
	b.acquired = gpucore.TargetID(b.newID())
	return b.acquired, nil
}

// Reconfigure implements gpucore.Surface.
func (b *Backend) Reconfigure(width, height uint32) error {
	b.resize(int(width), int(height))
	b.acquired = gpucore.InvalidID
	b.log.Debug("software: surface reconfigured", "width", width, "height", height)
	return nil
}

// Present implements gpucore.Surface.
func (b *Backend) Present(target gpucore.TargetID) error {
	if target == gpucore.InvalidID || target != b.acquired {
		return fmt.Errorf("%w: %d", ErrStaleTarget, target)
	}
	b.front, b.back = b.back, image.NewRGBA(b.back.Rect)
	b.acquired = gpucore.InvalidID
	b.frames++
	return nil
}

// ViewportSize implements gpucore.ViewportReporter.
func (b *Backend) ViewportSize() (uint32, uint32) {
	return uint32(b.width), uint32(b.height)
}
