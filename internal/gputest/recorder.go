// Package gputest provides a recording gpucore.Device and gpucore.Surface
// for tests. Every call is appended to a log as a short string, so tests can
// assert the exact command sequence a renderer produced.
package gputest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/shapes/gpucore"
)

// ErrInjected is returned by operations listed in Recorder.Fail.
var ErrInjected = errors.New("gputest: injected failure")

// Recorder implements gpucore.Device, gpucore.Surface and
// gpucore.ViewportReporter.
type Recorder struct {
	// Fail maps an operation name (for example "CreateBindGroup") to the
	// 1-based call number that should fail. Zero disables injection.
	Fail map[string]int

	// LoseSurface is the number of upcoming AcquireTarget calls that return
	// gpucore.ErrSurfaceLost.
	LoseSurface int

	// Caps is returned by Capabilities.
	Caps gpucore.Capabilities

	// Width and Height are the configured surface size.
	Width, Height uint32

	calls   []string
	counts  map[string]int
	nextID  uint64
	buffers map[gpucore.BufferID][]byte
	live    map[uint64]string
}

// New returns a recorder whose surface is width x height and which supports
// wireframe rendering.
func New(width, height uint32) *Recorder {
	return &Recorder{
		Caps:    gpucore.Capabilities{PolygonModeLine: true, Name: "recorder"},
		Width:   width,
		Height:  height,
		counts:  make(map[string]int),
		buffers: make(map[gpucore.BufferID][]byte),
		live:    make(map[uint64]string),
	}
}

// Context returns a gpucore.Context using r as both device and surface.
func (r *Recorder) Context() gpucore.Context {
	return gpucore.Context{Device: r, Surface: r}
}

// Calls returns the recorded call log.
func (r *Recorder) Calls() []string { return slices.Clone(r.calls) }

// CallsWithPrefix returns the recorded calls starting with prefix.
func (r *Recorder) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the call log but keeps resources.
func (r *Recorder) Reset() { r.calls = nil }

// Count returns how many times op was invoked since New.
func (r *Recorder) Count(op string) int { return r.counts[op] }

// Buffer returns the current contents of a buffer.
func (r *Recorder) Buffer(id gpucore.BufferID) []byte {
	return slices.Clone(r.buffers[id])
}

// Live returns the number of resources created and not yet destroyed.
func (r *Recorder) Live() int { return len(r.live) }

func (r *Recorder) record(op string, format string, args ...any) error {
	r.counts[op]++
	r.calls = append(r.calls, op+"("+fmt.Sprintf(format, args...)+")")
	if n := r.Fail[op]; n != 0 && n == r.counts[op] {
		return fmt.Errorf("%w: %s", ErrInjected, op)
	}
	return nil
}

func (r *Recorder) alloc(kind string) uint64 {
	r.nextID++
	r.live[r.nextID] = kind
	return r.nextID
}

func (r *Recorder) free(id uint64) {
	delete(r.live, id)
}

// Capabilities implements gpucore.Device.
func (r *Recorder) Capabilities() gpucore.Capabilities { return r.Caps }

// CreateBuffer implements gpucore.Device.
func (r *Recorder) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	if err := r.record("CreateBuffer", "%s, %d", desc.Label, desc.Size); err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.BufferID(r.alloc("buffer"))
	r.buffers[id] = make([]byte, desc.Size)
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (r *Recorder) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	if err := r.record("WriteBuffer", "%d, %d, %d", id, offset, len(data)); err != nil {
		return err
	}
	buf, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("gputest: write to unknown buffer %d", id)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("gputest: write of %d bytes at %d overflows buffer %d of %d bytes", len(data), offset, id, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (r *Recorder) DestroyBuffer(id gpucore.BufferID) {
	_ = r.record("DestroyBuffer", "%d", id)
	delete(r.buffers, id)
	r.free(uint64(id))
}

// CreateUniformLayout implements gpucore.Device.
func (r *Recorder) CreateUniformLayout(label string) (gpucore.BindGroupLayoutID, error) {
	if err := r.record("CreateUniformLayout", "%s", label); err != nil {
		return gpucore.InvalidID, err
	}
	return gpucore.BindGroupLayoutID(r.alloc("layout")), nil
}

// DestroyBindGroupLayout implements gpucore.Device.
func (r *Recorder) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	_ = r.record("DestroyBindGroupLayout", "%d", id)
	r.free(uint64(id))
}

// CreateBindGroup implements gpucore.Device.
func (r *Recorder) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	if err := r.record("CreateBindGroup", "%s, %d", desc.Label, desc.Buffer); err != nil {
		return gpucore.InvalidID, err
	}
	return gpucore.BindGroupID(r.alloc("bindgroup")), nil
}

// DestroyBindGroup implements gpucore.Device.
func (r *Recorder) DestroyBindGroup(id gpucore.BindGroupID) {
	_ = r.record("DestroyBindGroup", "%d", id)
	r.free(uint64(id))
}

// CreateRenderPipeline implements gpucore.Device.
func (r *Recorder) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if err := r.record("CreateRenderPipeline", "%s, %s, %s", desc.Label, desc.Topology, desc.PolygonMode); err != nil {
		return gpucore.InvalidID, err
	}
	return gpucore.RenderPipelineID(r.alloc("pipeline")), nil
}

// DestroyRenderPipeline implements gpucore.Device.
func (r *Recorder) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	_ = r.record("DestroyRenderPipeline", "%d", id)
	r.free(uint64(id))
}

// BeginRenderPass implements gpucore.Device.
func (r *Recorder) BeginRenderPass(target gpucore.TargetID, clear gpucore.Color) (gpucore.RenderPass, error) {
	if err := r.record("BeginRenderPass", "%d, %g %g %g %g", target, clear.R, clear.G, clear.B, clear.A); err != nil {
		return nil, err
	}
	return &pass{r: r}, nil
}

// Submit implements gpucore.Device.
func (r *Recorder) Submit() error { return r.record("Submit", "") }

// AcquireTarget implements gpucore.Surface.
func (r *Recorder) AcquireTarget() (gpucore.TargetID, error) {
	if r.LoseSurface > 0 {
		r.LoseSurface--
		_ = r.record("AcquireTarget", "lost")
		return gpucore.InvalidID, fmt.Errorf("gputest: acquire: %w", gpucore.ErrSurfaceLost)
	}
	if err := r.record("AcquireTarget", ""); err != nil {
		return gpucore.InvalidID, err
	}
	r.nextID++
	return gpucore.TargetID(r.nextID), nil
}

// Reconfigure implements gpucore.Surface.
func (r *Recorder) Reconfigure(width, height uint32) error {
	if err := r.record("Reconfigure", "%d, %d", width, height); err != nil {
		return err
	}
	r.Width, r.Height = width, height
	return nil
}

// Present implements gpucore.Surface.
func (r *Recorder) Present(target gpucore.TargetID) error {
	return r.record("Present", "%d", target)
}

// ViewportSize implements gpucore.ViewportReporter.
func (r *Recorder) ViewportSize() (uint32, uint32) { return r.Width, r.Height }

type pass struct {
	r     *Recorder
	ended bool
}

func (p *pass) SetPipeline(id gpucore.RenderPipelineID) {
	_ = p.r.record("SetPipeline", "%d", id)
}

func (p *pass) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	_ = p.r.record("SetBindGroup", "%d, %d", index, id)
}

func (p *pass) SetVertexBuffer(slot uint32, id gpucore.BufferID) {
	_ = p.r.record("SetVertexBuffer", "%d, %d", slot, id)
}

func (p *pass) SetIndexBuffer(id gpucore.BufferID, _ gpucore.IndexFormat) {
	_ = p.r.record("SetIndexBuffer", "%d", id)
}

func (p *pass) Draw(vertexCount uint32) {
	_ = p.r.record("Draw", "%d", vertexCount)
}

func (p *pass) DrawIndexed(indexCount uint32) {
	_ = p.r.record("DrawIndexed", "%d", indexCount)
}

func (p *pass) End() error {
	if p.ended {
		return errors.New("gputest: pass ended twice")
	}
	p.ended = true
	return p.r.record("End", "")
}
