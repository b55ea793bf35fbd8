package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/shapes"
)

func TestDrainAppendsRedraw(t *testing.T) {
	q := NewQueue()
	assert.Equal(t, []shapes.Event{shapes.RedrawRequestedEvent{}}, q.Drain())
	assert.Equal(t, []shapes.Event{shapes.RedrawRequestedEvent{}}, q.Drain())
}

func TestResizesCoalesce(t *testing.T) {
	q := NewQueue()
	q.Resized(640, 480)
	q.Resized(700, 500)
	q.CloseRequested()
	q.Resized(800, 600)

	want := []shapes.Event{
		shapes.ResizedEvent{Width: 800, Height: 600},
		shapes.CloseRequestedEvent{},
		shapes.RedrawRequestedEvent{},
	}
	assert.Equal(t, want, q.Drain())

	q.Resized(10, 10)
	assert.Equal(t, []shapes.Event{
		shapes.ResizedEvent{Width: 10, Height: 10},
		shapes.RedrawRequestedEvent{},
	}, q.Drain())
}
