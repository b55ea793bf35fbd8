// Package config loads the scene description used by the shapes command.
//
// A scene file is YAML. Every field is optional; missing fields keep the
// values of Default, so an empty file renders the stock scene:
//
//	window:
//	  title: Shapes Renderer
//	  width: 800
//	  height: 600
//	clear_color: [0.1, 0.1, 0.1, 1]
//	circle:
//	  radius: 0.5
//	  segments: 64
//	fill:
//	  triangle: line
//	shapes:
//	  - {kind: circle, position: [-0.5, 0, 0], scale: 1.3}
//	  - {kind: triangle, position: [0.5, 0.5, 0], scale: 0.2}
//	  - {kind: triangle, position: [0.2, 0.2, 0], scale: 0.4}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/gpucore"
)

// Config is a complete scene: window, renderer options and shapes.
type Config struct {
	Window     Window            `yaml:"window"`
	ClearColor [4]float64        `yaml:"clear_color"`
	Circle     Circle            `yaml:"circle"`
	Fill       map[string]string `yaml:"fill"`
	Shapes     []Shape           `yaml:"shapes"`
}

// Window describes the initial window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Circle describes the shared circle geometry.
type Circle struct {
	Radius   float32 `yaml:"radius"`
	Segments int     `yaml:"segments"`
}

// Shape places one shape instance.
type Shape struct {
	Kind     string     `yaml:"kind"`
	Position [3]float32 `yaml:"position"`
	Scale    float32    `yaml:"scale"`
}

// Default returns the stock scene: an 800x600 window with one circle and
// two wireframe triangles.
func Default() *Config {
	return &Config{
		Window: Window{Title: "Shapes Renderer", Width: 800, Height: 600},
		ClearColor: [4]float64{
			shapes.DefaultClearColor.R,
			shapes.DefaultClearColor.G,
			shapes.DefaultClearColor.B,
			shapes.DefaultClearColor.A,
		},
		Circle: Circle{Radius: shapes.DefaultCircleRadius, Segments: shapes.DefaultCircleSegments},
		Shapes: []Shape{
			{Kind: "circle", Position: [3]float32{-0.5, 0, 0}, Scale: 1.3},
			{Kind: "triangle", Position: [3]float32{0.5, 0.5, 0}, Scale: 0.2},
			{Kind: "triangle", Position: [3]float32{0.2, 0.2, 0}, Scale: 0.4},
		},
	}
}

// Load reads and validates the scene file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a scene from data.
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode decodes a scene from r on top of Default and validates it.
// Unknown fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and names. Errors wrap shapes.ErrDomain or
// shapes.ErrUnknownKind.
func (c *Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: window size %dx%d", shapes.ErrDomain, c.Window.Width, c.Window.Height)
	}
	if c.Circle.Segments < 1 {
		return fmt.Errorf("%w: circle segments %d, need at least 1", shapes.ErrDomain, c.Circle.Segments)
	}
	if !(c.Circle.Radius > 0) {
		return fmt.Errorf("%w: circle radius %v, need a positive value", shapes.ErrDomain, c.Circle.Radius)
	}
	for name, mode := range c.Fill {
		if _, err := shapes.ParseKind(name); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		if _, err := ParsePolygonMode(mode); err != nil {
			return fmt.Errorf("fill %s: %w", name, err)
		}
	}
	for i, s := range c.Shapes {
		if _, err := shapes.ParseKind(s.Kind); err != nil {
			return fmt.Errorf("shapes[%d]: %w", i, err)
		}
	}
	return nil
}

// ParsePolygonMode accepts "fill", "line" and its alias "wireframe".
func ParsePolygonMode(s string) (gpucore.PolygonMode, error) {
	switch s {
	case "fill":
		return gpucore.PolygonModeFill, nil
	case "line", "wireframe":
		return gpucore.PolygonModeLine, nil
	default:
		return 0, fmt.Errorf("%w: polygon mode %q", shapes.ErrDomain, s)
	}
}

// Options converts the renderer part of the scene into renderer options.
// The config must have passed Validate.
func (c *Config) Options() []shapes.Option {
	opts := []shapes.Option{
		shapes.WithClearColor(gpucore.Color{
			R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3],
		}),
		shapes.WithCircleGeometry(c.Circle.Radius, c.Circle.Segments),
	}
	for name, mode := range c.Fill {
		k, err := shapes.ParseKind(name)
		if err != nil {
			continue
		}
		m, err := ParsePolygonMode(mode)
		if err != nil {
			continue
		}
		opts = append(opts, shapes.WithFillMode(k, m))
	}
	return opts
}

// Populate adds the scene's shapes to r in file order.
func (c *Config) Populate(r *shapes.Renderer) error {
	for i, s := range c.Shapes {
		k, err := shapes.ParseKind(s.Kind)
		if err != nil {
			return fmt.Errorf("shapes[%d]: %w", i, err)
		}
		if _, err := r.AddShape(k, mgl32.Vec3(s.Position), s.Scale); err != nil {
			return fmt.Errorf("shapes[%d]: %w", i, err)
		}
	}
	return nil
}
