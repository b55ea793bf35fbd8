package shapes

import "fmt"

// FrameStats counts renderer activity since construction.
type FrameStats struct {
	// Frames is the number of frames submitted and presented.
	Frames uint64
	// SkippedFrames counts frames dropped because the surface was lost, the
	// viewport had a zero dimension or the frame failed after acquisition.
	SkippedFrames uint64
	// SurfaceLosses counts reconfigurations caused by a lost surface.
	SurfaceLosses uint64
	// DrawCalls is the number of draws recorded in the last presented frame.
	DrawCalls int
	// AspectUploads counts aspect-ratio uploads, from both the per-frame
	// check and Resize.
	AspectUploads uint64
}

// String formats the stats on one line.
func (s FrameStats) String() string {
	return fmt.Sprintf("frames=%d skipped=%d lost=%d draws=%d aspect_uploads=%d",
		s.Frames, s.SkippedFrames, s.SurfaceLosses, s.DrawCalls, s.AspectUploads)
}
