package shapes

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shapes/gpucore"
)

// kindResources holds the shared, read-only GPU state of one kind.
type kindResources struct {
	geometry     Geometry
	vertexBuffer gpucore.BufferID
	indexBuffer  gpucore.BufferID
	pipeline     gpucore.RenderPipelineID
	fill         gpucore.PolygonMode
}

// Renderer draws an ordered list of shapes with aspect-ratio correction.
//
// It owns the bind group layouts, the aspect uniform, one geometry buffer
// set and pipeline per Kind, and every Shape created through AddShape.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	dev     gpucore.Device
	surface gpucore.Surface
	opts    options
	log     *slog.Logger

	aspectLayout   gpucore.BindGroupLayoutID
	instanceLayout gpucore.BindGroupLayoutID
	aspect         aspectUniform
	kinds          [kindCount]kindResources
	shapes         []*Shape

	width, height uint32
	closed        bool
	stats         FrameStats
}

// NewRenderer creates the shared resources for all kinds on ctx.Device and
// sizes the aspect uniform for a width x height viewport.
//
// If any resource cannot be created, everything created so far is released
// and the error wraps ErrResourceAllocation. Invalid options or a negative
// size return ErrDomain.
func NewRenderer(ctx gpucore.Context, width, height int, opts ...Option) (*Renderer, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: viewport %dx%d", ErrDomain, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	r := &Renderer{
		dev:     ctx.Device,
		surface: ctx.Surface,
		opts:    o,
		log:     log,
		width:   uint32(width),
		height:  uint32(height),
	}
	if err := r.init(); err != nil {
		r.release()
		return nil, err
	}

	caps := r.dev.Capabilities()
	r.log.Info("shapes: renderer created",
		"backend", caps.Name,
		"width", width,
		"height", height,
		"circle_segments", o.circleSegments,
		"triangle_fill", r.kinds[KindTriangle].fill)
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	if r.aspectLayout, err = r.dev.CreateUniformLayout("aspect"); err != nil {
		return fmt.Errorf("%w: aspect layout: %w", ErrResourceAllocation, err)
	}
	if r.instanceLayout, err = r.dev.CreateUniformLayout("instance"); err != nil {
		return fmt.Errorf("%w: instance layout: %w", ErrResourceAllocation, err)
	}

	if err := r.initAspect(); err != nil {
		return err
	}

	caps := r.dev.Capabilities()
	for _, k := range Kinds() {
		if err := r.initKind(k, caps); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) initAspect() error {
	buf, err := r.dev.CreateBuffer(&gpucore.BufferDesc{
		Label: "aspect",
		Size:  aspectBufferSize,
		Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: aspect buffer: %w", ErrResourceAllocation, err)
	}
	r.aspect.buffer = buf

	bg, err := r.dev.CreateBindGroup(&gpucore.BindGroupDesc{
		Label:  "aspect",
		Layout: r.aspectLayout,
		Buffer: buf,
		Size:   aspectBufferSize,
	})
	if err != nil {
		return fmt.Errorf("%w: aspect bind group: %w", ErrResourceAllocation, err)
	}
	r.aspect.binding = bg

	if r.width == 0 || r.height == 0 {
		return nil
	}
	if err := r.aspect.set(r.dev, AspectRatio(r.width, r.height)); err != nil {
		return fmt.Errorf("%w: %w", ErrResourceAllocation, err)
	}
	return nil
}

func (r *Renderer) initKind(k Kind, caps gpucore.Capabilities) error {
	kr := &r.kinds[k]

	var err error
	switch k {
	case KindCircle:
		kr.geometry, err = circleGeometry(r.opts.circleRadius, r.opts.circleSegments)
	case KindTriangle:
		kr.geometry = Geometry{Vertices: TriangleVertices()}
	}
	if err != nil {
		return err
	}

	vertices := VertexBytes(kr.geometry.Vertices)
	if kr.vertexBuffer, err = r.createFilledBuffer(k.String()+" vertices", gpucore.BufferUsageVertex, vertices); err != nil {
		return err
	}
	if k.Indexed() {
		indices := IndexBytes(kr.geometry.Indices)
		if kr.indexBuffer, err = r.createFilledBuffer(k.String()+" indices", gpucore.BufferUsageIndex, indices); err != nil {
			return err
		}
	}

	kr.fill = r.opts.fill[k]
	if kr.fill == gpucore.PolygonModeLine && !caps.PolygonModeLine {
		r.log.Warn("shapes: wireframe not supported, falling back to fill", "kind", k)
		kr.fill = gpucore.PolygonModeFill
	}

	desc := &gpucore.RenderPipelineDesc{
		Label:            k.String(),
		BindGroupLayouts: []gpucore.BindGroupLayoutID{r.aspectLayout, r.instanceLayout},
		Topology:         k.Topology(),
		PolygonMode:      kr.fill,
		VertexStride:     vertexStride,
	}
	if k.Indexed() && k.Topology() == gpucore.TopologyLineStrip {
		desc.StripIndexFormat = gpucore.IndexFormatUint32
	}
	if kr.pipeline, err = r.dev.CreateRenderPipeline(desc); err != nil {
		return fmt.Errorf("%w: %s pipeline: %w", ErrResourceAllocation, k, err)
	}
	return nil
}

// createFilledBuffer creates a buffer sized for data and uploads it once.
func (r *Renderer) createFilledBuffer(label string, usage gpucore.BufferUsage, data []byte) (gpucore.BufferID, error) {
	id, err := r.dev.CreateBuffer(&gpucore.BufferDesc{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %s: %w", ErrResourceAllocation, label, err)
	}
	if err := r.dev.WriteBuffer(id, 0, data); err != nil {
		r.dev.DestroyBuffer(id)
		return gpucore.InvalidID, fmt.Errorf("%w: %s upload: %w", ErrResourceAllocation, label, err)
	}
	return id, nil
}

// AddShape creates a shape and appends it to the draw list. Shapes are
// drawn in the order they were added.
func (r *Renderer) AddShape(kind Kind, position mgl32.Vec3, scale float32) (*Shape, error) {
	if r.closed {
		return nil, ErrClosed
	}
	s, err := NewShape(r.dev, r.instanceLayout, kind, position, scale)
	if err != nil {
		return nil, err
	}
	r.shapes = append(r.shapes, s)
	return s, nil
}

// Shapes returns the shapes in draw order.
func (r *Renderer) Shapes() []*Shape {
	return slices.Clone(r.shapes)
}

// Geometry returns the shared geometry of a kind.
func (r *Renderer) Geometry(k Kind) Geometry {
	if !k.valid() {
		return Geometry{}
	}
	return r.kinds[k].geometry
}

// FillMode returns the polygon mode the kind's pipeline was built with,
// after any wireframe fallback. Unknown kinds report PolygonModeFill.
func (r *Renderer) FillMode(k Kind) gpucore.PolygonMode {
	if !k.valid() {
		return gpucore.PolygonModeFill
	}
	return r.kinds[k].fill
}

// Viewport returns the last known drawable size.
func (r *Renderer) Viewport() (width, height uint32) {
	return r.width, r.height
}

// AspectRatio returns the ratio currently held by the aspect uniform.
func (r *Renderer) AspectRatio() float32 {
	return r.aspect.ratio
}

// Stats returns activity counters.
func (r *Renderer) Stats() FrameStats {
	s := r.stats
	s.AspectUploads = r.aspect.uploads
	return s
}

// Frame renders one frame:
//
//  1. acquire the next target (on surface loss: reconfigure, skip the frame)
//  2. upload the aspect ratio if it no longer matches the viewport
//  3. clear the target and draw every shape in insertion order
//  4. submit and present
//
// A viewport with a zero dimension, as reported while a window is
// minimized, skips the frame without touching the surface.
func (r *Renderer) Frame() error {
	if r.closed {
		return ErrClosed
	}
	r.syncViewport()
	if r.width == 0 || r.height == 0 {
		r.stats.SkippedFrames++
		return nil
	}

	target, err := r.surface.AcquireTarget()
	if err != nil {
		if !errors.Is(err, gpucore.ErrSurfaceLost) {
			return fmt.Errorf("shapes: acquire target: %w", err)
		}
		r.log.Warn("shapes: surface lost, reconfiguring", "width", r.width, "height", r.height, "err", err)
		r.stats.SurfaceLosses++
		r.stats.SkippedFrames++
		if err := r.surface.Reconfigure(r.width, r.height); err != nil {
			r.log.Warn("shapes: reconfigure after surface loss failed", "err", err)
		}
		return nil
	}

	uploaded, err := r.aspect.reconcile(r.dev, r.width, r.height)
	if err != nil {
		return r.abandon(target, err)
	}
	if uploaded {
		r.log.Debug("shapes: aspect ratio updated", "ratio", r.aspect.ratio)
	}

	pass, err := r.dev.BeginRenderPass(target, r.opts.clearColor)
	if err != nil {
		return r.abandon(target, fmt.Errorf("shapes: begin render pass: %w", err))
	}
	for _, s := range r.shapes {
		r.drawShape(pass, s)
	}
	if err := pass.End(); err != nil {
		return r.abandon(target, fmt.Errorf("shapes: end render pass: %w", err))
	}
	if err := r.dev.Submit(); err != nil {
		return r.abandon(target, fmt.Errorf("shapes: submit: %w", err))
	}
	if err := r.surface.Present(target); err != nil {
		return fmt.Errorf("shapes: present: %w", err)
	}

	r.stats.Frames++
	r.stats.DrawCalls = len(r.shapes)
	return nil
}

// abandon drops an acquired target that will not be presented. Surfaces
// discard their current frame on Reconfigure, so the next AcquireTarget
// starts clean. It returns cause.
func (r *Renderer) abandon(target gpucore.TargetID, cause error) error {
	r.stats.SkippedFrames++
	if err := r.surface.Reconfigure(r.width, r.height); err != nil {
		r.log.Warn("shapes: dropping unpresented target failed", "target", target, "err", err)
	}
	return cause
}

// drawShape binds the aspect uniform at group 0 and the shape's instance
// data at group 1, then issues exactly one draw.
func (r *Renderer) drawShape(pass gpucore.RenderPass, s *Shape) {
	kr := &r.kinds[s.kind]
	pass.SetPipeline(kr.pipeline)
	pass.SetBindGroup(0, r.aspect.binding)
	pass.SetBindGroup(1, s.binding)
	pass.SetVertexBuffer(0, kr.vertexBuffer)
	if kr.indexBuffer != gpucore.InvalidID {
		pass.SetIndexBuffer(kr.indexBuffer, gpucore.IndexFormatUint32)
		pass.DrawIndexed(uint32(len(kr.geometry.Indices)))
		return
	}
	pass.Draw(uint32(len(kr.geometry.Vertices)))
}

// syncViewport picks up size changes the event source did not report.
func (r *Renderer) syncViewport() {
	vr, ok := r.surface.(gpucore.ViewportReporter)
	if !ok {
		return
	}
	if w, h := vr.ViewportSize(); w != r.width || h != r.height {
		r.width, r.height = w, h
	}
}

// Resize records the new drawable size, reconfigures the surface and uploads
// the matching aspect ratio before the next frame. A zero dimension leaves
// the surface unconfigured and keeps the aspect ratio; frames are skipped
// until the next non-zero resize.
func (r *Renderer) Resize(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrDomain, width, height)
	}
	r.width, r.height = uint32(width), uint32(height)
	if err := r.surface.Reconfigure(r.width, r.height); err != nil {
		return fmt.Errorf("shapes: reconfigure: %w", err)
	}
	if width == 0 || height == 0 {
		r.log.Debug("shapes: viewport collapsed, drawing paused", "width", width, "height", height)
		return nil
	}

	if err := r.aspect.set(r.dev, AspectRatio(r.width, r.height)); err != nil {
		return err
	}
	r.log.Debug("shapes: resized", "width", width, "height", height, "ratio", r.aspect.ratio)
	return nil
}

// HandleEvent dispatches a window event. It reports stop once the renderer
// has been closed and the event loop should exit.
func (r *Renderer) HandleEvent(ev Event) (stop bool, err error) {
	switch e := ev.(type) {
	case ResizedEvent:
		if r.closed {
			return true, nil
		}
		return false, r.Resize(e.Width, e.Height)
	case RedrawRequestedEvent:
		if r.closed {
			return true, nil
		}
		return false, r.Frame()
	case CloseRequestedEvent:
		return true, r.Close()
	}
	return r.closed, nil
}

// Close releases every GPU resource: shapes in reverse insertion order, then
// pipelines, geometry buffers, the aspect uniform and the layouts. Later
// frames return ErrClosed. Close is idempotent and always returns nil.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.release()
	r.log.Debug("shapes: renderer closed", "stats", r.stats.String())
	return nil
}

// release destroys whatever has been created. It is also the cleanup path
// of a failed NewRenderer, so every ID may still be invalid.
func (r *Renderer) release() {
	for i := len(r.shapes) - 1; i >= 0; i-- {
		r.shapes[i].release()
	}
	r.shapes = nil

	for k := int(kindCount) - 1; k >= 0; k-- {
		kr := &r.kinds[k]
		if kr.pipeline != gpucore.InvalidID {
			r.dev.DestroyRenderPipeline(kr.pipeline)
			kr.pipeline = gpucore.InvalidID
		}
	}
	for k := int(kindCount) - 1; k >= 0; k-- {
		kr := &r.kinds[k]
		if kr.indexBuffer != gpucore.InvalidID {
			r.dev.DestroyBuffer(kr.indexBuffer)
			kr.indexBuffer = gpucore.InvalidID
		}
		if kr.vertexBuffer != gpucore.InvalidID {
			r.dev.DestroyBuffer(kr.vertexBuffer)
			kr.vertexBuffer = gpucore.InvalidID
		}
	}

	if r.aspect.binding != gpucore.InvalidID {
		r.dev.DestroyBindGroup(r.aspect.binding)
		r.aspect.binding = gpucore.InvalidID
	}
	if r.aspect.buffer != gpucore.InvalidID {
		r.dev.DestroyBuffer(r.aspect.buffer)
		r.aspect.buffer = gpucore.InvalidID
	}

	if r.instanceLayout != gpucore.InvalidID {
		r.dev.DestroyBindGroupLayout(r.instanceLayout)
		r.instanceLayout = gpucore.InvalidID
	}
	if r.aspectLayout != gpucore.InvalidID {
		r.dev.DestroyBindGroupLayout(r.aspectLayout)
		r.aspectLayout = gpucore.InvalidID
	}
}
