package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapesWGSLBindings(t *testing.T) {
	src := ShapesWGSL()
	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> aspect")
	assert.Contains(t, src, "@group(1) @binding(0) var<uniform> instance")
	assert.Contains(t, src, "fn "+VertexEntry)
	assert.Contains(t, src, "fn "+FragmentEntry)
	assert.True(t, strings.Contains(src, "world.x / aspect.ratio"))
}

func TestShapesSPIRV(t *testing.T) {
	words, err := ShapesSPIRV()
	require.NoError(t, err)
	require.NotEmpty(t, words)
	assert.Equal(t, uint32(0x07230203), words[0], "SPIR-V magic number")

	again, err := ShapesSPIRV()
	require.NoError(t, err)
	assert.Equal(t, &words[0], &again[0], "compiled once")
}

func TestCompileSPIRVRejectsInvalidSource(t *testing.T) {
	_, err := CompileSPIRV("fn broken( {")
	assert.Error(t, err)
}
