package shapes

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceSize is the size in bytes of packed per-shape instance data.
const InstanceSize = 64

// Transform places a shape: a translation and a uniform scale factor.
// There is no rotation.
type Transform struct {
	Position mgl32.Vec3
	Scale    float32
}

// InstanceData is a 4x4 float32 model matrix in column-major order,
// little-endian, with no padding. It is the exact layout the vertex shader
// reads from bind group 1.
type InstanceData [InstanceSize]byte

// Derive returns the model matrix Translation(position) · Scale(s, s, s).
// A vertex v is therefore scaled first and translated second.
func Derive(t Transform) mgl32.Mat4 {
	p := t.Position
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Pack serializes m column by column. mgl32 already stores matrices
// column-major, so element i of m is float i of the output.
func Pack(m mgl32.Mat4) InstanceData {
	var d InstanceData
	for i, f := range m {
		binary.LittleEndian.PutUint32(d[i*4:], math.Float32bits(f))
	}
	return d
}

// Unpack is the inverse of Pack.
func Unpack(d InstanceData) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(d[i*4:]))
	}
	return m
}
