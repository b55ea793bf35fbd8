package shapes

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDeriveScalesThenTranslates(t *testing.T) {
	m := Derive(Transform{Position: mgl32.Vec3{2, 3, 0}, Scale: 4})

	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{6, 3, 0, 1}, got, "T·S must map (1,0,0) to (s+px, py, 0)")

	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{2, 3, 0, 1}, origin)
}

func TestDeriveIdentity(t *testing.T) {
	m := Derive(Transform{Scale: 1})
	assert.Equal(t, mgl32.Ident4(), m)
}

func TestPackColumnMajor(t *testing.T) {
	d := Pack(Derive(Transform{Position: mgl32.Vec3{-0.5, 0.25, 0}, Scale: 1.3}))

	float := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(d[i*4:]))
	}
	// Column 0 holds the x scale, column 3 the translation.
	assert.Equal(t, float32(1.3), float(0))
	assert.Equal(t, float32(1.3), float(5))
	assert.Equal(t, float32(1.3), float(10))
	assert.Equal(t, float32(-0.5), float(12))
	assert.Equal(t, float32(0.25), float(13))
	assert.Equal(t, float32(1), float(15))
	assert.Equal(t, float32(0), float(3))
}

func TestPackUnpackRoundTrip(t *testing.T) {
	m := Derive(Transform{Position: mgl32.Vec3{0.2, 0.2, 0}, Scale: 0.4})
	assert.Equal(t, m, Unpack(Pack(m)))
}
