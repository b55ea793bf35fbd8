//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/backend"
	"github.com/gogpu/shapes/gpucore"
	"github.com/gogpu/shapes/internal/shaders"
)

// Errors returned by the webgpu backend.
var (
	ErrUnknownResource = errors.New("webgpu: unknown resource")
	ErrStaleTarget     = errors.New("webgpu: target was not acquired")
)

func init() {
	backend.Register(backend.NameWebGPU, func(cfg backend.Config) (backend.Backend, error) {
		window, ok := cfg.Window.(*glfw.Window)
		if !ok || window == nil {
			return nil, backend.ErrNeedsWindow
		}
		return New(window)
	})
}

type bufferEntry struct {
	buf  *wgpu.Buffer
	size uint64
}

type pipelineEntry struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
}

// Backend implements gpucore.Device, gpucore.Surface and
// gpucore.ViewportReporter for a GLFW window.
type Backend struct {
	window *glfw.Window

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	format   wgpu.TextureFormat

	nextID     atomic.Uint64
	buffers    map[gpucore.BufferID]bufferEntry
	layouts    map[gpucore.BindGroupLayoutID]*wgpu.BindGroupLayout
	bindGroups map[gpucore.BindGroupID]*wgpu.BindGroup
	pipelines  map[gpucore.RenderPipelineID]pipelineEntry
	shader     *wgpu.ShaderModule

	width, height uint32
	frame         *frameTarget
	pending       []*wgpu.CommandBuffer

	log *slog.Logger
}

// New creates the instance, surface, adapter and device for window and
// configures the surface to the window's framebuffer size.
func New(window *glfw.Window) (*Backend, error) {
	b := &Backend{
		window:     window,
		buffers:    make(map[gpucore.BufferID]bufferEntry),
		layouts:    make(map[gpucore.BindGroupLayoutID]*wgpu.BindGroupLayout),
		bindGroups: make(map[gpucore.BindGroupID]*wgpu.BindGroup),
		pipelines:  make(map[gpucore.RenderPipelineID]pipelineEntry),
		log:        shapes.Logger(),
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("webgpu: request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "shapes_device"})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("webgpu: request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		b.Close()
		return nil, errors.New("webgpu: surface reports no formats")
	}
	b.format = caps.Formats[0]

	w, h := window.GetFramebufferSize()
	if err := b.Reconfigure(uint32(max(w, 0)), uint32(max(h, 0))); err != nil {
		b.Close()
		return nil, err
	}
	b.log.Info("webgpu: device ready", "format", b.format, "width", b.width, "height", b.height)
	return b, nil
}

func (b *Backend) newID() uint64 {
	return b.nextID.Add(1)
}

// Context returns a gpucore.Context with b as device and surface.
func (b *Backend) Context() gpucore.Context {
	return gpucore.Context{Device: b, Surface: b}
}

// Close releases every wgpu object the backend still holds. The window is
// left to its owner.
func (b *Backend) Close() error {
	b.dropFrame()
	for _, cmd := range b.pending {
		cmd.Release()
	}
	b.pending = nil
	for id, p := range b.pipelines {
		p.pipeline.Release()
		p.layout.Release()
		delete(b.pipelines, id)
	}
	for id, g := range b.bindGroups {
		g.Release()
		delete(b.bindGroups, id)
	}
	for id, l := range b.layouts {
		l.Release()
		delete(b.layouts, id)
	}
	for id, e := range b.buffers {
		e.buf.Release()
		delete(b.buffers, id)
	}
	if b.shader != nil {
		b.shader.Release()
		b.shader = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	return nil
}

// Capabilities implements gpucore.Device.
func (b *Backend) Capabilities() gpucore.Capabilities {
	return gpucore.Capabilities{PolygonModeLine: false, Name: backend.NameWebGPU}
}

// CreateBuffer implements gpucore.Device.
func (b *Backend) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create buffer %q: %w", desc.Label, err)
	}
	id := gpucore.BufferID(b.newID())
	b.buffers[id] = bufferEntry{buf: buf, size: desc.Size}
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	e, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > e.size {
		return fmt.Errorf("webgpu: write of %d bytes at offset %d exceeds buffer %d of %d bytes",
			len(data), offset, id, e.size)
	}
	if err := b.queue.WriteBuffer(e.buf, offset, data); err != nil {
		return fmt.Errorf("webgpu: write buffer %d: %w", id, err)
	}
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	if e, ok := b.buffers[id]; ok {
		e.buf.Release()
		delete(b.buffers, id)
	}
}

// CreateUniformLayout implements gpucore.Device.
func (b *Backend) CreateUniformLayout(label string) (gpucore.BindGroupLayoutID, error) {
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create bind group layout %q: %w", label, err)
	}
	id := gpucore.BindGroupLayoutID(b.newID())
	b.layouts[id] = layout
	return id, nil
}

// DestroyBindGroupLayout implements gpucore.Device.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	if l, ok := b.layouts[id]; ok {
		l.Release()
		delete(b.layouts, id)
	}
}

// CreateBindGroup implements gpucore.Device.
func (b *Backend) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	layout, ok := b.layouts[desc.Layout]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: layout %d", ErrUnknownResource, desc.Layout)
	}
	e, ok := b.buffers[desc.Buffer]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %d", ErrUnknownResource, desc.Buffer)
	}
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  e.buf,
			Offset:  0,
			Size:    desc.Size,
		}},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create bind group %q: %w", desc.Label, err)
	}
	id := gpucore.BindGroupID(b.newID())
	b.bindGroups[id] = group
	return id, nil
}

// DestroyBindGroup implements gpucore.Device.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	if g, ok := b.bindGroups[id]; ok {
		g.Release()
		delete(b.bindGroups, id)
	}
}

func (b *Backend) shaderModule() (*wgpu.ShaderModule, error) {
	if b.shader != nil {
		return b.shader, nil
	}
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "shapes_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ShapesWGSL()},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create shader module: %w", err)
	}
	b.shader = module
	return module, nil
}

// CreateRenderPipeline implements gpucore.Device.
func (b *Backend) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if desc.PolygonMode != gpucore.PolygonModeFill {
		return gpucore.InvalidID, fmt.Errorf("webgpu: pipeline %q: polygon mode %s not supported", desc.Label, desc.PolygonMode)
	}

	layouts := make([]*wgpu.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for _, lid := range desc.BindGroupLayouts {
		l, ok := b.layouts[lid]
		if !ok {
			return gpucore.InvalidID, fmt.Errorf("%w: layout %d", ErrUnknownResource, lid)
		}
		layouts = append(layouts, l)
	}

	shader, err := b.shaderModule()
	if err != nil {
		return gpucore.InvalidID, err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create pipeline layout %q: %w", desc.Label, err)
	}

	primitive := wgpu.PrimitiveState{
		Topology:  convertTopology(desc.Topology),
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
	if desc.StripIndexFormat == gpucore.IndexFormatUint32 {
		primitive.StripIndexFormat = wgpu.IndexFormatUint32
	}

	pipeline, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: shaders.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: desc.VertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    b.format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: primitive,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pipelineLayout.Release()
		return gpucore.InvalidID, fmt.Errorf("webgpu: create render pipeline %q: %w", desc.Label, err)
	}

	id := gpucore.RenderPipelineID(b.newID())
	b.pipelines[id] = pipelineEntry{pipeline: pipeline, layout: pipelineLayout}
	return id, nil
}

// DestroyRenderPipeline implements gpucore.Device.
func (b *Backend) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	if p, ok := b.pipelines[id]; ok {
		p.pipeline.Release()
		p.layout.Release()
		delete(b.pipelines, id)
	}
}

func convertBufferUsage(u gpucore.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u.Has(gpucore.BufferUsageCopyDst) {
		out |= wgpu.BufferUsageCopyDst
	}
	if u.Has(gpucore.BufferUsageIndex) {
		out |= wgpu.BufferUsageIndex
	}
	if u.Has(gpucore.BufferUsageVertex) {
		out |= wgpu.BufferUsageVertex
	}
	if u.Has(gpucore.BufferUsageUniform) {
		out |= wgpu.BufferUsageUniform
	}
	return out
}

func convertTopology(t gpucore.Topology) wgpu.PrimitiveTopology {
	if t == gpucore.TopologyLineStrip {
		return wgpu.PrimitiveTopologyLineStrip
	}
	return wgpu.PrimitiveTopologyTriangleList
}
