package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes/gpucore"
)

func TestKindTable(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		topology gpucore.Topology
		fill     gpucore.PolygonMode
		indexed  bool
	}{
		{KindCircle, "circle", gpucore.TopologyLineStrip, gpucore.PolygonModeFill, true},
		{KindTriangle, "triangle", gpucore.TopologyTriangleList, gpucore.PolygonModeLine, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.topology, tt.kind.Topology())
			assert.Equal(t, tt.fill, tt.kind.DefaultFillMode())
			assert.Equal(t, tt.indexed, tt.kind.Indexed())

			parsed, err := ParseKind(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, parsed)
		})
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := ParseKind("hexagon")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestKindOutOfRange(t *testing.T) {
	k := Kind(7)
	assert.NotPanics(t, func() {
		assert.Equal(t, gpucore.TopologyTriangleList, k.Topology())
		assert.Equal(t, gpucore.PolygonModeFill, k.DefaultFillMode())
		assert.False(t, k.Indexed())
	})
}
