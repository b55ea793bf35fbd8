package shapes

// Event is a window notification consumed by Renderer.HandleEvent.
type Event interface {
	isEvent()
}

// ResizedEvent reports a new drawable size in pixels.
type ResizedEvent struct {
	Width, Height int
}

// CloseRequestedEvent asks the renderer to stop and release its resources.
type CloseRequestedEvent struct{}

// RedrawRequestedEvent asks for one frame.
type RedrawRequestedEvent struct{}

func (ResizedEvent) isEvent()         {}
func (CloseRequestedEvent) isEvent()  {}
func (RedrawRequestedEvent) isEvent() {}
