package shapes

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCircleVertices(t *testing.T) {
	const (
		radius   = float32(0.5)
		segments = 64
	)
	vertices, err := GenerateCircleVertices(radius, segments)
	require.NoError(t, err)
	require.Len(t, vertices, segments)

	assert.InDelta(t, 0.5, vertices[0].X(), 1e-6)
	assert.InDelta(t, 0.0, vertices[0].Y(), 1e-6)

	step := 2 * math.Pi / segments
	for i, v := range vertices {
		assert.InDelta(t, radius, v.Vec2().Len(), 1e-5, "vertex %d radius", i)
		assert.Zero(t, v.Z(), "vertex %d z", i)

		angle := math.Atan2(float64(v.Y()), float64(v.X()))
		if angle < 0 {
			angle += 2 * math.Pi
		}
		assert.InDelta(t, float64(i)*step, angle, 1e-4, "vertex %d angle", i)
	}
}

func TestGenerateCircleVerticesQuarterPoints(t *testing.T) {
	vertices, err := GenerateCircleVertices(2, 4)
	require.NoError(t, err)

	want := []mgl32.Vec3{{2, 0, 0}, {0, 2, 0}, {-2, 0, 0}, {0, -2, 0}}
	for i := range want {
		assert.True(t, vertices[i].ApproxEqualThreshold(want[i], 1e-5), "vertex %d = %v, want %v", i, vertices[i], want[i])
	}
}

func TestGenerateCircleIndices(t *testing.T) {
	indices, err := GenerateCircleIndices(64)
	require.NoError(t, err)
	require.Len(t, indices, 65)

	for i := 0; i < 64; i++ {
		assert.Equal(t, uint32(i), indices[i])
	}
	assert.Equal(t, indices[0], indices[64], "strip must close the loop")

	one, err := GenerateCircleIndices(1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0}, one)
}

func TestGenerateCircleRejectsNoSegments(t *testing.T) {
	for _, segments := range []int{0, -3} {
		_, err := GenerateCircleVertices(0.5, segments)
		assert.ErrorIs(t, err, ErrDomain)

		_, err = GenerateCircleIndices(segments)
		assert.ErrorIs(t, err, ErrDomain)
	}
}

func TestTriangleVertices(t *testing.T) {
	v := TriangleVertices()
	require.Len(t, v, 3)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, v[0])
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, 0}, v[1])
	assert.Equal(t, mgl32.Vec3{0.5, -0.5, 0}, v[2])
}

func TestVertexAndIndexBytes(t *testing.T) {
	b := VertexBytes([]mgl32.Vec3{{1, 2, 3}, {-1, 0.5, 0}})
	require.Len(t, b, 2*vertexStride)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[8:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(b[16:])))

	ib := IndexBytes([]uint32{0, 1, 0x01020304})
	require.Len(t, ib, 12)
	assert.Equal(t, []byte{4, 3, 2, 1}, ib[8:])
}
