package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration
}

type FrameStats struct {
	// The camera used for rendering the frame.
	Camera string

	// Individual tracer stats.
	Tracers []TracerStat

	// Number of traced primary rays.
	PrimaryRays uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}
