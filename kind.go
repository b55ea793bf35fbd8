package shapes

import (
	"fmt"

	"github.com/gogpu/shapes/gpucore"
)

// Kind identifies the geometric family of a shape. The set is closed:
// every Kind has exactly one geometry and one pipeline.
type Kind uint8

const (
	// KindCircle is a closed outline approximated by a line strip.
	KindCircle Kind = iota
	// KindTriangle is a single triangle drawn from a triangle list.
	KindTriangle

	kindCount
)

// Kinds returns all shape kinds in table order.
func Kinds() []Kind {
	return []Kind{KindCircle, KindTriangle}
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindTable[k].name
}

func (k Kind) valid() bool { return k < kindCount }

// ParseKind converts a kind name produced by Kind.String back to a Kind.
func ParseKind(name string) (Kind, error) {
	for k := range kindCount {
		if kindTable[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// kindEntry is the fixed pipeline configuration of a kind.
// Only the polygon mode can be overridden with WithFillMode.
type kindEntry struct {
	name     string
	topology gpucore.Topology
	fill     gpucore.PolygonMode
	indexed  bool
}

var kindTable = [kindCount]kindEntry{
	KindCircle: {
		name:     "circle",
		topology: gpucore.TopologyLineStrip,
		fill:     gpucore.PolygonModeFill,
		indexed:  true,
	},
	KindTriangle: {
		name:     "triangle",
		topology: gpucore.TopologyTriangleList,
		fill:     gpucore.PolygonModeLine,
		indexed:  false,
	},
}

// Topology returns the primitive topology used to draw the kind. Unknown
// kinds report the zero value of each property.
func (k Kind) Topology() gpucore.Topology {
	if !k.valid() {
		return gpucore.TopologyTriangleList
	}
	return kindTable[k].topology
}

// DefaultFillMode returns the polygon mode used when no WithFillMode option
// overrides it.
func (k Kind) DefaultFillMode() gpucore.PolygonMode {
	if !k.valid() {
		return gpucore.PolygonModeFill
	}
	return kindTable[k].fill
}

// Indexed reports whether the kind is drawn with an index buffer.
func (k Kind) Indexed() bool {
	if !k.valid() {
		return false
	}
	return kindTable[k].indexed
}
