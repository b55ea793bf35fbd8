package shapes

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/shapes/gpucore"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := shapes.NewRenderer(ctx, 800, 600,
//	    shapes.WithClearColor(gpucore.Color{A: 1}),
//	    shapes.WithFillMode(shapes.KindTriangle, gpucore.PolygonModeFill),
//	)
type Option func(*options)

type options struct {
	clearColor     gpucore.Color
	fill           [kindCount]gpucore.PolygonMode
	circleRadius   float32
	circleSegments int
	logger         *slog.Logger
}

// DefaultClearColor is the dark grey the target is cleared to every frame.
var DefaultClearColor = gpucore.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}

func defaultOptions() options {
	o := options{
		clearColor:     DefaultClearColor,
		circleRadius:   DefaultCircleRadius,
		circleSegments: DefaultCircleSegments,
	}
	for k := range kindCount {
		o.fill[k] = kindTable[k].fill
	}
	return o
}

func (o *options) validate() error {
	if o.circleSegments < 1 {
		return fmt.Errorf("%w: circle segments %d, need at least 1", ErrDomain, o.circleSegments)
	}
	if !(o.circleRadius > 0) {
		return fmt.Errorf("%w: circle radius %v, need a positive value", ErrDomain, o.circleRadius)
	}
	return nil
}

// WithClearColor sets the color the target is cleared to before drawing.
func WithClearColor(c gpucore.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithFillMode overrides the polygon mode of one kind's pipeline.
// Topology stays fixed per kind. Unknown kinds are ignored.
//
// By default circles use fill (irrelevant for their line-strip topology)
// and triangles are drawn as wireframes.
func WithFillMode(k Kind, mode gpucore.PolygonMode) Option {
	return func(o *options) {
		if k.valid() {
			o.fill[k] = mode
		}
	}
}

// WithCircleGeometry sets the radius and segment count of the shared circle
// geometry. Invalid values make NewRenderer fail with ErrDomain.
func WithCircleGeometry(radius float32, segments int) Option {
	return func(o *options) {
		o.circleRadius = radius
		o.circleSegments = segments
	}
}

// WithLogger sets a logger for this renderer only. Without it the renderer
// uses the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
