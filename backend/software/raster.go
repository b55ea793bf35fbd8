// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gogpu/shapes/gpucore"
)

// execute clears the back buffer and replays the draws of one pass.
func (b *Backend) execute(p *renderPass) error {
	draw.Draw(b.back, b.back.Rect, image.NewUniform(toRGBA(p.clear)), image.Point{}, draw.Src)

	z := vector.NewRasterizer(b.width, b.height)
	fg := image.NewUniform(b.Foreground)
	for i := range p.draws {
		points, err := b.vertexStage(&p.draws[i])
		if err != nil {
			return err
		}
		pl := b.pipelines[p.draws[i].pipeline]
		switch pl.Topology {
		case gpucore.TopologyLineStrip:
			for j := 0; j+1 < len(points); j++ {
				b.strokeSegment(z, fg, points[j], points[j+1])
			}
		case gpucore.TopologyTriangleList:
			for j := 0; j+2 < len(points); j += 3 {
				tri := points[j : j+3]
				if pl.PolygonMode == gpucore.PolygonModeLine {
					b.strokeSegment(z, fg, tri[0], tri[1])
					b.strokeSegment(z, fg, tri[1], tri[2])
					b.strokeSegment(z, fg, tri[2], tri[0])
					continue
				}
				z.Reset(b.width, b.height)
				z.MoveTo(tri[0].X(), tri[0].Y())
				z.LineTo(tri[1].X(), tri[1].Y())
				z.LineTo(tri[2].X(), tri[2].Y())
				z.ClosePath()
				z.Draw(b.back, b.back.Rect, fg, image.Point{})
			}
		}
	}
	return nil
}

// vertexStage assembles the vertices of a draw and runs the shape vertex
// shader on them: clip = model * (p, 1), clip.x /= aspect. The result is
// in pixel coordinates with y pointing down.
func (b *Backend) vertexStage(cmd *drawCommand) ([]mgl32.Vec2, error) {
	if _, ok := b.pipelines[cmd.pipeline]; !ok {
		return nil, fmt.Errorf("%w: pipeline %d", ErrUnknownResource, cmd.pipeline)
	}
	aspectBuf, err := b.boundBuffer(cmd.groups[0], 4)
	if err != nil {
		return nil, err
	}
	modelBuf, err := b.boundBuffer(cmd.groups[1], 64)
	if err != nil {
		return nil, err
	}
	vertices, ok := b.buffers[cmd.vertices]
	if !ok {
		return nil, fmt.Errorf("%w: vertex buffer %d", ErrUnknownResource, cmd.vertices)
	}

	ratio := readFloat(aspectBuf, 0)
	var model mgl32.Mat4
	for i := range model {
		model[i] = readFloat(modelBuf, i)
	}

	indices := make([]uint32, cmd.count)
	if cmd.indexed {
		ib, ok := b.buffers[cmd.indices]
		if !ok {
			return nil, fmt.Errorf("%w: index buffer %d", ErrUnknownResource, cmd.indices)
		}
		if uint64(len(ib)) < uint64(cmd.count)*4 {
			return nil, fmt.Errorf("%w: %d indices from buffer of %d bytes", ErrOutOfBounds, cmd.count, len(ib))
		}
		for i := range indices {
			indices[i] = binary.LittleEndian.Uint32(ib[i*4:])
		}
	} else {
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	w, h := float32(b.width), float32(b.height)
	points := make([]mgl32.Vec2, len(indices))
	for i, idx := range indices {
		if uint64(idx+1)*12 > uint64(len(vertices)) {
			return nil, fmt.Errorf("%w: vertex %d past buffer of %d bytes", ErrOutOfBounds, idx, len(vertices))
		}
		pos := mgl32.Vec4{readFloat(vertices, int(idx)*3), readFloat(vertices, int(idx)*3+1), readFloat(vertices, int(idx)*3+2), 1}
		clip := model.Mul4x1(pos)
		x := clip.X() / ratio / clip.W()
		y := clip.Y() / clip.W()
		points[i] = mgl32.Vec2{(x + 1) / 2 * w, (1 - y) / 2 * h}
	}
	return points, nil
}

// boundBuffer returns the uniform buffer behind a bind group.
func (b *Backend) boundBuffer(id gpucore.BindGroupID, minSize int) ([]byte, error) {
	bg, ok := b.bindGroups[id]
	if !ok {
		return nil, fmt.Errorf("%w: bind group %d", ErrUnknownResource, id)
	}
	buf, ok := b.buffers[bg.Buffer]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d of bind group %d", ErrUnknownResource, bg.Buffer, id)
	}
	if len(buf) < minSize {
		return nil, fmt.Errorf("%w: uniform of %d bytes, need %d", ErrOutOfBounds, len(buf), minSize)
	}
	return buf, nil
}

// strokeSegment fills the quad of width LineWidth centred on a-b.
func (b *Backend) strokeSegment(z *vector.Rasterizer, src image.Image, a, c mgl32.Vec2) {
	d := c.Sub(a)
	length := d.Len()
	if length == 0 || math32.IsNaN(length) {
		return
	}
	n := mgl32.Vec2{-d.Y(), d.X()}.Mul(b.LineWidth / 2 / length)

	z.Reset(b.width, b.height)
	z.MoveTo(a.X()+n.X(), a.Y()+n.Y())
	z.LineTo(c.X()+n.X(), c.Y()+n.Y())
	z.LineTo(c.X()-n.X(), c.Y()-n.Y())
	z.LineTo(a.X()-n.X(), a.Y()-n.Y())
	z.ClosePath()
	z.Draw(b.back, b.back.Rect, src, image.Point{})
}

func readFloat(buf []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
}

func toRGBA(c gpucore.Color) color.RGBA {
	return color.RGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}
