package shapes

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/shapes/gpucore"
)

// aspectBufferSize is the aspect uniform buffer size. The payload is a
// single float32; uniform buffers are padded to 16 bytes.
const aspectBufferSize = 16

// aspectEpsilon is the float32 machine epsilon (2^-23). A stored ratio is
// considered current when it differs from the viewport ratio by no more.
const aspectEpsilon = 0x1p-23

// aspectUniform is the shared width/height ratio bound at group 0.
type aspectUniform struct {
	ratio   float32
	buffer  gpucore.BufferID
	binding gpucore.BindGroupID
	uploads uint64
}

// AspectRatio returns width/height as float32.
func AspectRatio(width, height uint32) float32 {
	return float32(width) / float32(height)
}

// set stores ratio and uploads it unconditionally.
func (a *aspectUniform) set(dev gpucore.Device, ratio float32) error {
	var data [aspectBufferSize]byte
	binary.LittleEndian.PutUint32(data[:], math.Float32bits(ratio))
	if err := dev.WriteBuffer(a.buffer, 0, data[:]); err != nil {
		return fmt.Errorf("shapes: upload aspect ratio: %w", err)
	}
	a.ratio = ratio
	a.uploads++
	return nil
}

// reconcile uploads the viewport ratio only when the stored one is off by
// more than aspectEpsilon. It reports whether an upload happened.
func (a *aspectUniform) reconcile(dev gpucore.Device, width, height uint32) (bool, error) {
	want := AspectRatio(width, height)
	if math32.Abs(want-a.ratio) <= aspectEpsilon {
		return false, nil
	}
	if err := a.set(dev, want); err != nil {
		return false, err
	}
	return true, nil
}
