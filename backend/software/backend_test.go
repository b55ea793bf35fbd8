// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/gpucore"
)

// clearGrey is DefaultClearColor quantized to 8 bits.
const clearGrey = 26

func newScene(t *testing.T, b *Backend, opts ...shapes.Option) *shapes.Renderer {
	t.Helper()
	w, h := b.ViewportSize()
	r, err := shapes.NewRenderer(b.Context(), int(w), int(h), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = r.AddShape(shapes.KindCircle, mgl32.Vec3{-0.5, 0, 0}, 1.3)
	require.NoError(t, err)
	_, err = r.AddShape(shapes.KindTriangle, mgl32.Vec3{0.5, 0.5, 0}, 0.2)
	require.NoError(t, err)
	_, err = r.AddShape(shapes.KindTriangle, mgl32.Vec3{0.2, 0.2, 0}, 0.4)
	require.NoError(t, err)
	return r
}

func isForeground(b *Backend, x, y int) bool {
	return b.Image().RGBAAt(x, y).R > 200
}

func isClear(b *Backend, x, y int) bool {
	c := b.Image().RGBAAt(x, y)
	return c.R == clearGrey && c.G == clearGrey && c.B == clearGrey && c.A == 0xff
}

func TestRenderDefaultScene(t *testing.T) {
	b := New(800, 600)
	r := newScene(t, b)

	require.NoError(t, r.Frame())
	assert.Equal(t, uint64(1), b.Frames())

	// The circle has world radius 0.65 around x = -0.5. At 4:3 its centre
	// lands on pixel x = 250 and its rightmost point on x = 445.
	assert.True(t, isForeground(b, 444, 300), "circle outline at its rightmost point")
	assert.True(t, isClear(b, 250, 300), "circle interior is not filled")

	// The second triangle is a wireframe; its centroid stays clear.
	assert.True(t, isClear(b, 460, 260), "triangle centroid")
	assert.True(t, isClear(b, 5, 5), "background")
}

func TestRenderFilledTriangles(t *testing.T) {
	b := New(800, 600)
	r := newScene(t, b, shapes.WithFillMode(shapes.KindTriangle, gpucore.PolygonModeFill))

	require.NoError(t, r.Frame())
	assert.True(t, isForeground(b, 460, 260), "filled triangle centroid")
}

func TestRenderKeepsCircleRoundAfterResize(t *testing.T) {
	b := New(800, 600)
	r := newScene(t, b)

	require.NoError(t, r.Resize(600, 600))
	require.NoError(t, r.Frame())

	assert.Equal(t, 600, b.Image().Bounds().Dx())
	// With a square viewport the circle centre is at x = 150 and its
	// rightmost point at x = 345.
	assert.True(t, isForeground(b, 344, 300))
	assert.True(t, isClear(b, 150, 300))
}

func TestSurfaceLossSkipsPresent(t *testing.T) {
	b := New(320, 240)
	r := newScene(t, b)

	b.LoseSurface(1)
	require.NoError(t, r.Frame())
	assert.Equal(t, uint64(0), b.Frames())
	assert.Equal(t, uint64(1), r.Stats().SurfaceLosses)

	require.NoError(t, r.Frame())
	assert.Equal(t, uint64(1), b.Frames())
}

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	b := New(800, 600)
	r := newScene(t, b)

	require.NoError(t, r.Resize(0, 0))
	require.NoError(t, r.Frame())
	assert.Equal(t, uint64(0), b.Frames())
	assert.Equal(t, uint64(1), r.Stats().SkippedFrames)
	w, h := b.ViewportSize()
	assert.Zero(t, w)
	assert.Zero(t, h)

	require.NoError(t, r.Resize(800, 600))
	require.NoError(t, r.Frame())
	assert.Equal(t, uint64(1), b.Frames())
}

func TestPresentRequiresAcquiredTarget(t *testing.T) {
	b := New(16, 16)
	assert.ErrorIs(t, b.Present(7), ErrStaleTarget)

	_, err := b.BeginRenderPass(7, gpucore.Color{})
	assert.ErrorIs(t, err, ErrStaleTarget)
}

func TestWriteBufferBounds(t *testing.T) {
	b := New(16, 16)
	id, err := b.CreateBuffer(&gpucore.BufferDesc{Size: 4})
	require.NoError(t, err)

	assert.NoError(t, b.WriteBuffer(id, 0, []byte{1, 2, 3, 4}))
	assert.ErrorIs(t, b.WriteBuffer(id, 2, []byte{1, 2, 3}), ErrOutOfBounds)
	assert.ErrorIs(t, b.WriteBuffer(99, 0, nil), ErrUnknownResource)
}

func TestCreateBindGroupValidates(t *testing.T) {
	b := New(16, 16)
	_, err := b.CreateBindGroup(&gpucore.BindGroupDesc{Layout: 1, Buffer: 2})
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestSavePNG(t *testing.T) {
	b := New(64, 48)
	r := newScene(t, b)
	require.NoError(t, r.Frame())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, b.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}
