package shapes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/shapes/gpucore"
)

// Shape is one drawable instance: a kind, a transform, and the uniform
// buffer and bind group holding its packed model matrix.
//
// The shape exclusively owns its buffer and bind group. Shared geometry and
// pipelines belong to the Renderer.
type Shape struct {
	kind      Kind
	transform Transform

	dev     gpucore.Device
	buffer  gpucore.BufferID
	binding gpucore.BindGroupID
}

// NewShape allocates the instance buffer for a shape, uploads its initial
// model matrix and binds the buffer against layout (bind group 1 of every
// shape pipeline).
//
// On failure nothing is left allocated and the returned error wraps
// ErrResourceAllocation.
func NewShape(dev gpucore.Device, layout gpucore.BindGroupLayoutID, kind Kind, position mgl32.Vec3, scale float32) (*Shape, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("shapes: new shape: %w: %d", ErrUnknownKind, uint8(kind))
	}
	s := &Shape{
		kind:      kind,
		transform: Transform{Position: position, Scale: scale},
		dev:       dev,
	}

	buf, err := dev.CreateBuffer(&gpucore.BufferDesc{
		Label: kind.String() + " instance",
		Size:  InstanceSize,
		Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s instance buffer: %w", ErrResourceAllocation, kind, err)
	}
	s.buffer = buf

	if err := s.upload(); err != nil {
		dev.DestroyBuffer(buf)
		return nil, fmt.Errorf("%w: %s instance upload: %w", ErrResourceAllocation, kind, err)
	}

	bg, err := dev.CreateBindGroup(&gpucore.BindGroupDesc{
		Label:  kind.String() + " instance",
		Layout: layout,
		Buffer: buf,
		Size:   InstanceSize,
	})
	if err != nil {
		dev.DestroyBuffer(buf)
		return nil, fmt.Errorf("%w: %s instance bind group: %w", ErrResourceAllocation, kind, err)
	}
	s.binding = bg

	return s, nil
}

// Kind returns the shape kind. It never changes.
func (s *Shape) Kind() Kind { return s.kind }

// Transform returns the current transform.
func (s *Shape) Transform() Transform { return s.transform }

// Binding returns the bind group holding the instance data.
func (s *Shape) Binding() gpucore.BindGroupID { return s.binding }

// InstanceData returns the packed model matrix currently expected on the GPU.
func (s *Shape) InstanceData() InstanceData {
	return Pack(Derive(s.transform))
}

// SetTransform replaces the transform and uploads the new model matrix.
// It is the only way instance data changes after construction.
func (s *Shape) SetTransform(t Transform) error {
	if s.buffer == gpucore.InvalidID {
		return ErrClosed
	}
	s.transform = t
	if err := s.upload(); err != nil {
		return fmt.Errorf("shapes: %s set transform: %w", s.kind, err)
	}
	return nil
}

func (s *Shape) upload() error {
	data := s.InstanceData()
	return s.dev.WriteBuffer(s.buffer, 0, data[:])
}

// release destroys the bind group before the buffer it references.
func (s *Shape) release() {
	if s.binding != gpucore.InvalidID {
		s.dev.DestroyBindGroup(s.binding)
		s.binding = gpucore.InvalidID
	}
	if s.buffer != gpucore.InvalidID {
		s.dev.DestroyBuffer(s.buffer)
		s.buffer = gpucore.InvalidID
	}
}
