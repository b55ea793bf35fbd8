package shapes

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes/gpucore"
	"github.com/gogpu/shapes/internal/gputest"
)

func newTestAspect(t *testing.T, rec *gputest.Recorder) *aspectUniform {
	t.Helper()
	buf, err := rec.CreateBuffer(&gpucore.BufferDesc{Label: "aspect", Size: aspectBufferSize})
	require.NoError(t, err)
	return &aspectUniform{buffer: buf}
}

func storedRatio(rec *gputest.Recorder, a *aspectUniform) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(rec.Buffer(a.buffer)))
}

func TestAspectReconcileIdempotent(t *testing.T) {
	rec := gputest.New(800, 600)
	a := newTestAspect(t, rec)

	uploaded, err := a.reconcile(rec, 800, 600)
	require.NoError(t, err)
	assert.True(t, uploaded)

	for range 5 {
		uploaded, err = a.reconcile(rec, 800, 600)
		require.NoError(t, err)
		assert.False(t, uploaded)
	}
	assert.Equal(t, uint64(1), a.uploads)
	assert.Equal(t, 1, rec.Count("WriteBuffer"))
	assert.Equal(t, float32(800)/float32(600), storedRatio(rec, a))
}

func TestAspectReconcileDetectsChange(t *testing.T) {
	rec := gputest.New(800, 600)
	a := newTestAspect(t, rec)

	_, err := a.reconcile(rec, 800, 600)
	require.NoError(t, err)
	uploaded, err := a.reconcile(rec, 600, 600)
	require.NoError(t, err)

	assert.True(t, uploaded)
	assert.Equal(t, float32(1), a.ratio)
	assert.Equal(t, float32(1), storedRatio(rec, a))
}

func TestAspectSetAlwaysUploads(t *testing.T) {
	rec := gputest.New(400, 300)
	a := newTestAspect(t, rec)

	ratio := AspectRatio(400, 300)
	require.NoError(t, a.set(rec, ratio))
	require.NoError(t, a.set(rec, ratio))

	assert.Equal(t, uint64(2), a.uploads)
	assert.Equal(t, float32(400)/float32(300), a.ratio)
}

func TestAspectUploadFailureKeepsRatio(t *testing.T) {
	rec := gputest.New(800, 600)
	a := newTestAspect(t, rec)
	rec.Fail = map[string]int{"WriteBuffer": 1}

	_, err := a.reconcile(rec, 800, 600)
	assert.ErrorIs(t, err, gputest.ErrInjected)
	assert.Zero(t, a.ratio)
	assert.Zero(t, a.uploads)
}
