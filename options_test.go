package shapes

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/shapes/gpucore"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	assert.Equal(t, DefaultClearColor, o.clearColor)
	assert.Equal(t, DefaultCircleRadius, o.circleRadius)
	assert.Equal(t, DefaultCircleSegments, o.circleSegments)
	assert.Equal(t, gpucore.PolygonModeFill, o.fill[KindCircle])
	assert.Equal(t, gpucore.PolygonModeLine, o.fill[KindTriangle])
	assert.Nil(t, o.logger)
	assert.NoError(t, o.validate())
}

func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	l := slog.Default()
	for _, opt := range []Option{
		WithClearColor(gpucore.Color{R: 1, A: 1}),
		WithFillMode(KindCircle, gpucore.PolygonModeLine),
		WithFillMode(Kind(42), gpucore.PolygonModeLine),
		WithCircleGeometry(0.75, 12),
		WithLogger(l),
	} {
		opt(&o)
	}

	assert.Equal(t, gpucore.Color{R: 1, A: 1}, o.clearColor)
	assert.Equal(t, gpucore.PolygonModeLine, o.fill[KindCircle])
	assert.Equal(t, float32(0.75), o.circleRadius)
	assert.Equal(t, 12, o.circleSegments)
	assert.Same(t, l, o.logger)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		radius   float32
		segments int
		ok       bool
	}{
		{"default", 0.5, 64, true},
		{"single segment", 0.5, 1, true},
		{"no segments", 0.5, 0, false},
		{"zero radius", 0, 64, false},
		{"negative radius", -0.5, 64, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			WithCircleGeometry(tt.radius, tt.segments)(&o)
			err := o.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrDomain)
			}
		})
	}
}
