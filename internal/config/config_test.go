package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/gpucore"
	"github.com/gogpu/shapes/internal/gputest"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Window{Title: "Shapes Renderer", Width: 800, Height: 600}, cfg.Window)
	assert.Equal(t, [4]float64{0.1, 0.1, 0.1, 1}, cfg.ClearColor)
	assert.Equal(t, Circle{Radius: 0.5, Segments: 64}, cfg.Circle)
	require.Len(t, cfg.Shapes, 3)
	assert.Equal(t, Shape{Kind: "circle", Position: [3]float32{-0.5, 0, 0}, Scale: 1.3}, cfg.Shapes[0])
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  width: 400
  height: 300
circle:
  segments: 8
fill:
  triangle: fill
shapes:
  - kind: triangle
    position: [0, 0, 0]
    scale: 1
`))
	require.NoError(t, err)

	assert.Equal(t, "Shapes Renderer", cfg.Window.Title)
	assert.Equal(t, 400, cfg.Window.Width)
	assert.Equal(t, 300, cfg.Window.Height)
	assert.Equal(t, 8, cfg.Circle.Segments)
	assert.Equal(t, float32(0.5), cfg.Circle.Radius)
	assert.Equal(t, map[string]string{"triangle": "fill"}, cfg.Fill)
	assert.Equal(t, []Shape{{Kind: "triangle", Scale: 1}}, cfg.Shapes)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"zero segments", "circle: {segments: 0}", shapes.ErrDomain},
		{"negative radius", "circle: {radius: -1}", shapes.ErrDomain},
		{"negative window", "window: {width: -1}", shapes.ErrDomain},
		{"bad fill mode", "fill: {triangle: dotted}", shapes.ErrDomain},
		{"bad fill kind", "fill: {square: fill}", shapes.ErrUnknownKind},
		{"bad shape kind", "shapes: [{kind: hexagon, scale: 1}]", shapes.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("colour: red\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: {title: Test}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test", cfg.Window.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePolygonMode(t *testing.T) {
	tests := []struct {
		in   string
		want gpucore.PolygonMode
	}{
		{"fill", gpucore.PolygonModeFill},
		{"line", gpucore.PolygonModeLine},
		{"wireframe", gpucore.PolygonModeLine},
	}
	for _, tt := range tests {
		got, err := ParsePolygonMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParsePolygonMode("points")
	assert.ErrorIs(t, err, shapes.ErrDomain)
}

func TestOptionsAndPopulate(t *testing.T) {
	cfg, err := Parse([]byte(`
circle: {segments: 16}
fill: {triangle: fill}
`))
	require.NoError(t, err)

	rec := gputest.New(800, 600)
	r, err := shapes.NewRenderer(rec.Context(), 800, 600, cfg.Options()...)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, cfg.Populate(r))

	assert.Len(t, r.Geometry(shapes.KindCircle).Vertices, 16)
	assert.Len(t, r.Geometry(shapes.KindCircle).Indices, 17)
	assert.Equal(t, gpucore.PolygonModeFill, r.FillMode(shapes.KindTriangle))

	got := r.Shapes()
	require.Len(t, got, 3)
	assert.Equal(t, shapes.KindCircle, got[0].Kind())
	assert.Equal(t, mgl32.Vec3{-0.5, 0, 0}, got[0].Transform().Position)
	assert.Equal(t, float32(0.4), got[2].Transform().Scale)
}
