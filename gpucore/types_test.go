package gpucore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferUsageHas(t *testing.T) {
	u := BufferUsageUniform | BufferUsageCopyDst
	assert.True(t, u.Has(BufferUsageUniform))
	assert.True(t, u.Has(BufferUsageUniform|BufferUsageCopyDst))
	assert.False(t, u.Has(BufferUsageVertex))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "triangle-list", TopologyTriangleList.String())
	assert.Equal(t, "line-strip", TopologyLineStrip.String())
	assert.Equal(t, "unknown", Topology(9).String())
	assert.Equal(t, "fill", PolygonModeFill.String())
	assert.Equal(t, "line", PolygonModeLine.String())
	assert.Equal(t, "unknown", PolygonMode(9).String())
}

func TestContextValidate(t *testing.T) {
	assert.Error(t, Context{}.Validate())
}
