package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend maintains a mapping
// between IDs and actual backend resources.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// TargetID is an opaque handle to an acquired frame target.
// It is valid from Surface.AcquireTarget until the matching Present.
type TargetID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopyDst indicates the buffer can be written by the queue.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 4

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6
)

// Has reports whether all bits of flag are set in u.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// Topology is the primitive topology of a render pipeline.
type Topology uint8

const (
	// TopologyTriangleList draws every three vertices as one triangle.
	TopologyTriangleList Topology = iota
	// TopologyLineStrip draws a connected polyline through all vertices.
	TopologyLineStrip
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangleList:
		return "triangle-list"
	case TopologyLineStrip:
		return "line-strip"
	default:
		return "unknown"
	}
}

// PolygonMode selects how triangles are rasterized.
type PolygonMode uint8

const (
	// PolygonModeFill rasterizes the interior of triangles.
	PolygonModeFill PolygonMode = iota
	// PolygonModeLine rasterizes only triangle edges (wireframe).
	PolygonModeLine
)

// String returns the polygon mode name.
func (m PolygonMode) String() string {
	switch m {
	case PolygonModeFill:
		return "fill"
	case PolygonModeLine:
		return "line"
	default:
		return "unknown"
	}
}

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

const (
	// IndexFormatNone means the pipeline is not indexed.
	IndexFormatNone IndexFormat = iota
	// IndexFormatUint32 means 32-bit unsigned indices.
	IndexFormatUint32
)

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// BufferDesc describes a GPU buffer.
type BufferDesc struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// BindGroupDesc describes a bind group with a single uniform buffer at
// binding 0, which is the only shape the renderer needs.
type BindGroupDesc struct {
	Label  string
	Layout BindGroupLayoutID
	Buffer BufferID
	Size   uint64
}

// RenderPipelineDesc describes a render pipeline for one shape kind.
//
// All pipelines consume a single vertex buffer with a float32x3 position at
// location 0 and the two bind group layouts in BindGroupLayouts order.
type RenderPipelineDesc struct {
	Label            string
	BindGroupLayouts []BindGroupLayoutID
	Topology         Topology
	PolygonMode      PolygonMode
	// StripIndexFormat is set for indexed strip topologies.
	StripIndexFormat IndexFormat
	VertexStride     uint64
}

// Capabilities describes optional backend features.
type Capabilities struct {
	// PolygonModeLine reports whether wireframe rasterization is supported.
	PolygonModeLine bool
	// Name is a human readable backend or adapter name.
	Name string
}
