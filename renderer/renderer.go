package renderer

import "image"

type Renderer interface {
	// Render the frame seen by the scene camera with the given index.
	Render(cameraIndex int) (*image.RGBA, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
