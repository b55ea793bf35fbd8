package gpucore

import "errors"

// ErrSurfaceLost is returned by Surface.AcquireTarget when the presentation
// surface is outdated or lost. The caller reconfigures the surface and skips
// the frame.
var ErrSurfaceLost = errors.New("gpucore: surface lost")

// Device allocates GPU resources and submits recorded work.
//
// Implementations are driven from a single goroutine; they need not be safe
// for concurrent use.
type Device interface {
	// Capabilities reports optional features of the device.
	Capabilities() Capabilities

	// CreateBuffer allocates a buffer. Contents are zero.
	CreateBuffer(desc *BufferDesc) (BufferID, error)

	// WriteBuffer uploads data into the buffer at offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer.
	DestroyBuffer(id BufferID)

	// CreateUniformLayout creates a bind group layout with one uniform buffer
	// at binding 0, visible to the vertex stage.
	CreateUniformLayout(label string) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreateBindGroup binds a uniform buffer against a layout.
	CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)

	// CreateRenderPipeline builds a pipeline from the shape shader.
	CreateRenderPipeline(desc *RenderPipelineDesc) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID)

	// BeginRenderPass starts recording a pass that clears target to clear.
	BeginRenderPass(target TargetID, clear Color) (RenderPass, error)

	// Submit submits all passes recorded since the last Submit.
	Submit() error
}

// RenderPass records draw commands for one frame target.
type RenderPass interface {
	SetPipeline(id RenderPipelineID)
	SetBindGroup(index uint32, id BindGroupID)
	SetVertexBuffer(slot uint32, id BufferID)
	SetIndexBuffer(id BufferID, format IndexFormat)
	Draw(vertexCount uint32)
	DrawIndexed(indexCount uint32)

	// End finishes the pass. The pass cannot be used afterwards.
	End() error
}

// Surface is the presentation target a renderer draws into.
type Surface interface {
	// AcquireTarget returns the next frame target.
	// It returns ErrSurfaceLost (possibly wrapped) when the surface must be
	// reconfigured before rendering can continue.
	AcquireTarget() (TargetID, error)

	// Reconfigure resizes the surface to width x height.
	Reconfigure(width, height uint32) error

	// Present shows the target acquired by AcquireTarget.
	Present(target TargetID) error
}

// ViewportReporter is an optional Surface extension reporting the live
// drawable size, so that size changes missed by the event source are still
// caught by the per-frame aspect check.
type ViewportReporter interface {
	ViewportSize() (width, height uint32)
}

// Context bundles the collaborators a renderer needs. It is passed
// explicitly to constructors; there is no global device.
type Context struct {
	Device  Device
	Surface Surface
}

// Validate reports whether both collaborators are present.
func (c Context) Validate() error {
	if c.Device == nil {
		return errors.New("gpucore: context has no device")
	}
	if c.Surface == nil {
		return errors.New("gpucore: context has no surface")
	}
	return nil
}
