package tracer

import (
	"time"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/types"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// The camera used for generating primary rays.
	Camera *scene.Camera

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The max number of mirror bounces for each primary ray.
	MaxDepth int

	// The frame accumulation buffer holding one unclamped RGB value per
	// pixel in row-major order. A tracer may only write to the rows
	// [BlockY, BlockY+BlockH) of the buffer.
	Accumulator []types.Vec3

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// The number of primary rays traced for the last block.
	PrimaryRays uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed estimate. Schedulers use this
	// value to distribute work before any timing information is available.
	Speed() uint32

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
