//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/backend"
	"github.com/gogpu/shapes/gpucore"
	"github.com/gogpu/shapes/internal/shaders"
)

// targetFormat is the color format of the offscreen target.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

func init() {
	backend.Register(backend.NameNative, func(cfg backend.Config) (backend.Backend, error) {
		return New(cfg.Width, cfg.Height)
	})
}

type bufferEntry struct {
	buf  hal.Buffer
	size uint64
}

type pipelineEntry struct {
	pipeline hal.RenderPipeline
	layout   hal.PipelineLayout
}

// Backend implements gpucore.Device, gpucore.Surface and
// gpucore.ViewportReporter on a gogpu/wgpu HAL device.
//
// Resource maps are guarded by a mutex; frame recording is expected to run
// on a single goroutine.
type Backend struct {
	mu sync.RWMutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	// external is set when the device belongs to someone else and must not
	// be destroyed by Close.
	external bool
	name     string

	nextID     atomic.Uint64
	buffers    map[gpucore.BufferID]bufferEntry
	layouts    map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	bindGroups map[gpucore.BindGroupID]hal.BindGroup
	pipelines  map[gpucore.RenderPipelineID]pipelineEntry
	shader     hal.ShaderModule

	target   *offscreenTarget
	width    uint32
	height   uint32
	acquired gpucore.TargetID
	pending  []*frameReadback

	back, front *image.RGBA
	frames      uint64

	log *slog.Logger
}

// New opens a standalone Vulkan device, preferring a discrete or integrated
// GPU, and creates a width x height offscreen surface.
func New(width, height int) (*Backend, error) {
	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrNoGPU)
	}
	instance, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	b := newBackend(openDev.Device, openDev.Queue, selected.Info.Name, width, height)
	b.instance = instance
	b.log.Info("native: GPU initialized", "adapter", selected.Info.Name)
	return b, nil
}

// NewWithDevice wraps an already opened HAL device and queue. The caller
// keeps ownership of the device; Close releases only the backend's own
// resources.
func NewWithDevice(device hal.Device, queue hal.Queue, width, height int) *Backend {
	b := newBackend(device, queue, backend.NameNative, width, height)
	b.external = true
	return b
}

// NewFromProvider shares the device of a gpucontext.DeviceProvider, such as
// a gogpu application. The provider must also expose HalDevice and HalQueue
// returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider, width, height int) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrInvalidProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrInvalidProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrInvalidProvider)
	}
	if format := provider.SurfaceFormat(); format != targetFormat {
		shapes.Logger().Debug("native: provider surface format differs, rendering offscreen in BGRA8",
			"format", format)
	}
	return NewWithDevice(device, queue, width, height), nil
}

func newBackend(device hal.Device, queue hal.Queue, name string, width, height int) *Backend {
	b := &Backend{
		device:     device,
		queue:      queue,
		name:       name,
		buffers:    make(map[gpucore.BufferID]bufferEntry),
		layouts:    make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		bindGroups: make(map[gpucore.BindGroupID]hal.BindGroup),
		pipelines:  make(map[gpucore.RenderPipelineID]pipelineEntry),
		log:        shapes.Logger(),
	}
	b.width, b.height = uint32(max(width, 0)), uint32(max(height, 0))
	b.back = image.NewRGBA(image.Rect(0, 0, int(b.width), int(b.height)))
	b.front = image.NewRGBA(image.Rect(0, 0, int(b.width), int(b.height)))
	return b
}

func (b *Backend) newID() uint64 {
	return b.nextID.Add(1)
}

// Context returns a gpucore.Context with b as device and surface.
func (b *Backend) Context() gpucore.Context {
	return gpucore.Context{Device: b, Surface: b}
}

// Image returns the most recently presented frame.
func (b *Backend) Image() *image.RGBA {
	return b.front
}

// Frames returns the number of presented frames.
func (b *Backend) Frames() uint64 {
	return b.frames
}

// Close destroys every resource still held by the backend and, unless the
// device was supplied by the caller, the device and instance. Close is
// idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil
	}
	for _, f := range b.pending {
		f.release(b.device)
	}
	b.pending = nil
	b.destroyTarget()

	for id, p := range b.pipelines {
		b.device.DestroyRenderPipeline(p.pipeline)
		b.device.DestroyPipelineLayout(p.layout)
		delete(b.pipelines, id)
	}
	for id, g := range b.bindGroups {
		b.device.DestroyBindGroup(g)
		delete(b.bindGroups, id)
	}
	for id, l := range b.layouts {
		b.device.DestroyBindGroupLayout(l)
		delete(b.layouts, id)
	}
	for id, e := range b.buffers {
		b.device.DestroyBuffer(e.buf)
		delete(b.buffers, id)
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}

	if !b.external {
		b.device.Destroy()
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device, b.queue, b.instance = nil, nil, nil
	return nil
}

// Capabilities implements gpucore.Device.
func (b *Backend) Capabilities() gpucore.Capabilities {
	return gpucore.Capabilities{PolygonModeLine: false, Name: b.name}
}

// CreateBuffer implements gpucore.Device.
func (b *Backend) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}

	id := gpucore.BufferID(b.newID())
	b.mu.Lock()
	b.buffers[id] = bufferEntry{buf: buf, size: desc.Size}
	b.mu.Unlock()
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	b.mu.RLock()
	e, ok := b.buffers[id]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > e.size {
		return fmt.Errorf("native: write of %d bytes at offset %d exceeds buffer %d of %d bytes",
			len(data), offset, id, e.size)
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(e.buf, offset, data)
	}
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	b.mu.Lock()
	e, ok := b.buffers[id]
	delete(b.buffers, id)
	b.mu.Unlock()

	if ok {
		b.device.DestroyBuffer(e.buf)
	}
}

// CreateUniformLayout implements gpucore.Device.
func (b *Backend) CreateUniformLayout(label string) (gpucore.BindGroupLayoutID, error) {
	layout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group layout %q: %w", label, err)
	}

	id := gpucore.BindGroupLayoutID(b.newID())
	b.mu.Lock()
	b.layouts[id] = layout
	b.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout implements gpucore.Device.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	b.mu.Lock()
	layout, ok := b.layouts[id]
	delete(b.layouts, id)
	b.mu.Unlock()

	if ok {
		b.device.DestroyBindGroupLayout(layout)
	}
}

// CreateBindGroup implements gpucore.Device.
func (b *Backend) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	b.mu.RLock()
	layout, okLayout := b.layouts[desc.Layout]
	e, okBuf := b.buffers[desc.Buffer]
	b.mu.RUnlock()
	if !okLayout {
		return gpucore.InvalidID, fmt.Errorf("%w: layout %d", ErrUnknownResource, desc.Layout)
	}
	if !okBuf {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %d", ErrUnknownResource, desc.Buffer)
	}

	group, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: e.buf.NativeHandle(), Offset: 0, Size: desc.Size,
			}},
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group %q: %w", desc.Label, err)
	}

	id := gpucore.BindGroupID(b.newID())
	b.mu.Lock()
	b.bindGroups[id] = group
	b.mu.Unlock()
	return id, nil
}

// DestroyBindGroup implements gpucore.Device.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	b.mu.Lock()
	group, ok := b.bindGroups[id]
	delete(b.bindGroups, id)
	b.mu.Unlock()

	if ok {
		b.device.DestroyBindGroup(group)
	}
}

// shaderModule returns the shape shader module, compiling it on first use.
// Must be called with mu held.
func (b *Backend) shaderModule() (hal.ShaderModule, error) {
	if b.shader != nil {
		return b.shader, nil
	}
	spirv, err := shaders.ShapesSPIRV()
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "shapes_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create shader module: %w", err)
	}
	b.shader = module
	return module, nil
}

// CreateRenderPipeline implements gpucore.Device. PolygonModeLine is not
// supported and is rejected; callers check Capabilities first.
func (b *Backend) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if desc.PolygonMode != gpucore.PolygonModeFill {
		return gpucore.InvalidID, fmt.Errorf("native: pipeline %q: polygon mode %s not supported", desc.Label, desc.PolygonMode)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	layouts := make([]hal.BindGroupLayout, 0, len(desc.BindGroupLayouts))
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

	pipelineLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create pipeline layout %q: %w", desc.Label, err)
	}

	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: shaders.VertexEntry,
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: desc.VertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Primitive: primitiveState(desc),
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: shaders.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    targetFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		b.device.DestroyPipelineLayout(pipelineLayout)
		return gpucore.InvalidID, fmt.Errorf("native: create render pipeline %q: %w", desc.Label, err)
	}

	id := gpucore.RenderPipelineID(b.newID())
	b.pipelines[id] = pipelineEntry{pipeline: pipeline, layout: pipelineLayout}
	return id, nil
}

// DestroyRenderPipeline implements gpucore.Device.
func (b *Backend) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	b.mu.Lock()
	p, ok := b.pipelines[id]
	delete(b.pipelines, id)
	b.mu.Unlock()

	if ok {
		b.device.DestroyRenderPipeline(p.pipeline)
		b.device.DestroyPipelineLayout(p.layout)
	}
}

// ViewportSize implements gpucore.ViewportReporter.
func (b *Backend) ViewportSize() (uint32, uint32) {
	return b.width, b.height
}

func convertBufferUsage(u gpucore.BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if u.Has(gpucore.BufferUsageCopyDst) {
		out |= gputypes.BufferUsageCopyDst
	}
	if u.Has(gpucore.BufferUsageIndex) {
		out |= gputypes.BufferUsageIndex
	}
	if u.Has(gpucore.BufferUsageVertex) {
		out |= gputypes.BufferUsageVertex
	}
	if u.Has(gpucore.BufferUsageUniform) {
		out |= gputypes.BufferUsageUniform
	}
	return out
}

// primitiveState sets a uint32 strip index format for indexed strips so a
// line strip can be drawn through an index buffer.
func primitiveState(desc *gpucore.RenderPipelineDesc) gputypes.PrimitiveState {
	ps := gputypes.PrimitiveState{
		Topology: convertTopology(desc.Topology),
		CullMode: gputypes.CullModeNone,
	}
	if desc.StripIndexFormat == gpucore.IndexFormatUint32 {
		format := gputypes.IndexFormatUint32
		ps.StripIndexFormat = &format
	}
	return ps
}

func convertTopology(t gpucore.Topology) gputypes.PrimitiveTopology {
	if t == gpucore.TopologyLineStrip {
		return gputypes.PrimitiveTopologyLineStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}
