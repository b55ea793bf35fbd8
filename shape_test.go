package shapes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes/gpucore"
	"github.com/gogpu/shapes/internal/gputest"
)

func newTestLayout(t *testing.T, rec *gputest.Recorder) gpucore.BindGroupLayoutID {
	t.Helper()
	layout, err := rec.CreateUniformLayout("instance")
	require.NoError(t, err)
	return layout
}

func TestNewShapeUploadsInstanceData(t *testing.T) {
	rec := gputest.New(800, 600)
	layout := newTestLayout(t, rec)

	s, err := NewShape(rec, layout, KindCircle, mgl32.Vec3{-0.5, 0, 0}, 1.3)
	require.NoError(t, err)

	assert.Equal(t, KindCircle, s.Kind())
	assert.Equal(t, Transform{Position: mgl32.Vec3{-0.5, 0, 0}, Scale: 1.3}, s.Transform())
	assert.NotEqual(t, gpucore.BindGroupID(gpucore.InvalidID), s.Binding())

	want := Pack(Derive(s.Transform()))
	assert.Equal(t, want[:], rec.Buffer(s.buffer))
	assert.Equal(t, 1, rec.Count("CreateBuffer"))
	assert.Equal(t, 1, rec.Count("CreateBindGroup"))
}

func TestShapeSetTransform(t *testing.T) {
	rec := gputest.New(800, 600)
	s, err := NewShape(rec, newTestLayout(t, rec), KindTriangle, mgl32.Vec3{0.5, 0.5, 0}, 0.2)
	require.NoError(t, err)

	next := Transform{Position: mgl32.Vec3{0.1, -0.2, 0}, Scale: 2}
	require.NoError(t, s.SetTransform(next))

	assert.Equal(t, next, s.Transform())
	want := Pack(Derive(next))
	assert.Equal(t, want[:], rec.Buffer(s.buffer))
	assert.Equal(t, 2, rec.Count("WriteBuffer"))
}

func TestNewShapeReleasesBufferOnBindGroupFailure(t *testing.T) {
	rec := gputest.New(800, 600)
	layout := newTestLayout(t, rec)
	rec.Fail = map[string]int{"CreateBindGroup": 1}

	s, err := NewShape(rec, layout, KindCircle, mgl32.Vec3{}, 1)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrResourceAllocation)
	assert.ErrorIs(t, err, gputest.ErrInjected)

	// Only the layout created by the test is left.
	assert.Equal(t, 1, rec.Live())
}

func TestNewShapeBufferFailure(t *testing.T) {
	rec := gputest.New(800, 600)
	layout := newTestLayout(t, rec)
	rec.Fail = map[string]int{"CreateBuffer": 1}

	_, err := NewShape(rec, layout, KindTriangle, mgl32.Vec3{}, 1)
	assert.ErrorIs(t, err, ErrResourceAllocation)
	assert.Equal(t, 0, rec.Count("CreateBindGroup"))
}

func TestNewShapeUnknownKind(t *testing.T) {
	rec := gputest.New(800, 600)
	_, err := NewShape(rec, newTestLayout(t, rec), Kind(9), mgl32.Vec3{}, 1)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestShapeReleaseThenSetTransform(t *testing.T) {
	rec := gputest.New(800, 600)
	s, err := NewShape(rec, newTestLayout(t, rec), KindCircle, mgl32.Vec3{}, 1)
	require.NoError(t, err)

	s.release()
	assert.Equal(t, []string{"DestroyBindGroup(3)", "DestroyBuffer(2)"}, rec.Calls()[len(rec.Calls())-2:])
	assert.ErrorIs(t, s.SetTransform(Transform{Scale: 1}), ErrClosed)
}
