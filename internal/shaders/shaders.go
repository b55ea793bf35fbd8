// Package shaders embeds the WGSL source shared by the GPU backends.
package shaders

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// Entry points of the shape shader.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

//go:embed shapes.wgsl
var shapesWGSL string

// ShapesWGSL returns the WGSL source of the shape shader.
func ShapesWGSL() string {
	return shapesWGSL
}

var (
	spirvOnce sync.Once
	spirvCode []uint32
	spirvErr  error
)

// ShapesSPIRV compiles the shape shader to SPIR-V with naga. The result is
// computed once and shared.
func ShapesSPIRV() ([]uint32, error) {
	spirvOnce.Do(func() {
		spirvCode, spirvErr = CompileSPIRV(shapesWGSL)
	})
	return spirvCode, spirvErr
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shaders: compile: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shaders: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
