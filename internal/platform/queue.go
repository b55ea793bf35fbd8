// Package platform turns GLFW window callbacks into shapes events.
package platform

import (
	"sync"

	"github.com/gogpu/shapes"
)

// Queue collects events between polls. Resizes are coalesced so that only
// the latest size of a burst reaches the renderer.
type Queue struct {
	mu      sync.Mutex
	events  []shapes.Event
	resized int // index of the pending ResizedEvent in events, or -1
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{resized: -1}
}

// Resized records a new drawable size, replacing one still pending.
func (q *Queue) Resized(width, height int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ev := shapes.ResizedEvent{Width: width, Height: height}
	if q.resized >= 0 {
		q.events[q.resized] = ev
		return
	}
	q.resized = len(q.events)
	q.events = append(q.events, ev)
}

// CloseRequested records a close request.
func (q *Queue) CloseRequested() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, shapes.CloseRequestedEvent{})
}

// Drain returns the pending events followed by one RedrawRequestedEvent,
// so every poll of the window asks for a new frame. The queue is emptied.
func (q *Queue) Drain() []shapes.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := append(q.events, shapes.RedrawRequestedEvent{})
	q.events = nil
	q.resized = -1
	return out
}
