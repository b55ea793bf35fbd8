package shapes

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry defaults for the circle kind.
const (
	DefaultCircleRadius   float32 = 0.5
	DefaultCircleSegments         = 64
)

// vertexStride is the size of one position vertex: three float32.
const vertexStride = 3 * 4

// Geometry is the vertex and optional index data shared by all shapes of one
// kind. It is uploaded once and never modified.
type Geometry struct {
	Vertices []mgl32.Vec3
	// Indices is nil for non-indexed kinds.
	Indices []uint32
}

// GenerateCircleVertices returns segments points evenly spaced on a circle of
// the given radius centred on the origin, in the z = 0 plane. Point i lies at
// angle i*2π/segments, so the first point is (radius, 0, 0) and the winding
// is counter-clockwise.
func GenerateCircleVertices(radius float32, segments int) ([]mgl32.Vec3, error) {
	if segments < 1 {
		return nil, fmt.Errorf("%w: circle needs at least one segment, got %d", ErrDomain, segments)
	}
	step := 2 * math32.Pi / float32(segments)
	vertices := make([]mgl32.Vec3, segments)
	for i := range vertices {
		theta := float32(i) * step
		vertices[i] = mgl32.Vec3{radius * math32.Cos(theta), radius * math32.Sin(theta), 0}
	}
	return vertices, nil
}

// GenerateCircleIndices returns 0, 1, ..., segments-1, 0. The trailing zero
// closes the loop when drawn as a line strip.
func GenerateCircleIndices(segments int) ([]uint32, error) {
	if segments < 1 {
		return nil, fmt.Errorf("%w: circle needs at least one segment, got %d", ErrDomain, segments)
	}
	indices := make([]uint32, segments+1)
	for i := range segments {
		indices[i] = uint32(i)
	}
	indices[segments] = 0
	return indices, nil
}

// TriangleVertices returns the fixed triangle: apex at (0, 0.5) and base
// corners at (-0.5, -0.5) and (0.5, -0.5).
func TriangleVertices() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{0.0, 0.5, 0.0},
		{-0.5, -0.5, 0.0},
		{0.5, -0.5, 0.0},
	}
}

// circleGeometry builds the shared circle geometry.
func circleGeometry(radius float32, segments int) (Geometry, error) {
	vertices, err := GenerateCircleVertices(radius, segments)
	if err != nil {
		return Geometry{}, err
	}
	indices, err := GenerateCircleIndices(segments)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{Vertices: vertices, Indices: indices}, nil
}

// VertexBytes packs positions as tightly packed little-endian float32 triples.
func VertexBytes(vertices []mgl32.Vec3) []byte {
	buf := make([]byte, 0, len(vertices)*vertexStride)
	for _, v := range vertices {
		for _, c := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c))
		}
	}
	return buf
}

// IndexBytes packs indices as little-endian uint32.
func IndexBytes(indices []uint32) []byte {
	buf := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}
