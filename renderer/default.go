package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/bvh"
	"github.com/achilleasa/glint/log"
	"github.com/achilleasa/glint/tracer"
	"github.com/achilleasa/glint/tracer/cpu"
	"github.com/achilleasa/glint/types"
)

// A renderer that splits each frame into row blocks and distributes them to
// a pool of cpu tracers.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	scene     *scene.Scene
	tree      *bvh.Tree
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	options   Options

	// Unclamped frame colors shared by all tracers. Each tracer only
	// writes to the rows of its assigned block.
	accumulator []types.Vec3

	stats FrameStats
}

// Create a new renderer for a scene and its BVH tree using the specified
// block scheduler.
func NewDefault(sc *scene.Scene, tree *bvh.Tree, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil || tree == nil {
		return nil, ErrSceneNotDefined
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		tree:      tree,
		scheduler: scheduler,
		options:   opts,
	}

	dev, err := cpu.Probe()
	if err != nil {
		r.logger.Warningf("%s; using generic cpu device", err.Error())
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = dev.Cores
	}

	for index := 0; index < numWorkers; index++ {
		tr, err := cpu.NewTracer(fmt.Sprintf("%s #%02d", dev.Name, index), dev, sc, tree)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Infof("attached %d cpu tracer(s) for device %q", len(r.tracers), dev.Name)
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render the frame seen by the scene camera with the given index. The call
// blocks until all tracers have completed their blocks.
func (r *defaultRenderer) Render(cameraIndex int) (*image.RGBA, error) {
	r.Lock()
	defer r.Unlock()

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	if cameraIndex < 0 || cameraIndex >= len(r.scene.Cameras) {
		return nil, ErrInvalidCamera
	}

	cam := r.scene.Cameras[cameraIndex]
	if err := cam.Validate(); err != nil {
		return nil, err
	}

	maxDepth := r.options.depthFor(r.scene)

	frameW, frameH := cam.Width, cam.Height
	if cap(r.accumulator) < int(frameW*frameH) {
		r.accumulator = make([]types.Vec3, frameW*frameH)
	}
	r.accumulator = r.accumulator[:frameW*frameH]

	start := time.Now()
	blockAssignment := r.scheduler.Schedule(r.tracers, frameH)

	// Buffered so that tracers never block when replying
	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32 = 0
	pending := 0
	for idx, tr := range r.tracers {
		if blockAssignment[idx] == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			Camera:      cam,
			BlockY:      blockY,
			BlockH:      blockAssignment[idx],
			MaxDepth:    maxDepth,
			Accumulator: r.accumulator,
			DoneChan:    doneChan,
			ErrChan:     errChan,
		})

		blockY += blockAssignment[idx]
		pending++
	}

	// Wait for all tracers to finish before touching the accumulator
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case tracerErr := <-errChan:
			if err == nil {
				err = tracerErr
			}
		}
	}
	if err != nil {
		return nil, err
	}

	img := toRGBA(r.accumulator, frameW, frameH)
	r.updateStats(cam, blockAssignment, time.Since(start))

	r.logger.Infof("rendered frame %q (%dx%d) in %d ms", cam.ImageName, frameW, frameH, r.stats.RenderTime.Nanoseconds()/1e6)
	return img, nil
}

func (r *defaultRenderer) updateStats(cam *scene.Camera, blockAssignment []uint32, renderTime time.Duration) {
	r.stats = FrameStats{
		Camera:     cam.ImageName,
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			BlockH:       blockAssignment[idx],
			FramePercent: 100.0 * float32(blockAssignment[idx]) / float32(cam.Height),
		}
		if blockAssignment[idx] == 0 {
			continue
		}

		stats := tr.Stats()
		r.stats.Tracers[idx].RenderTime = stats.RenderTime
		r.stats.PrimaryRays += stats.PrimaryRays
	}
}

// Clamp accumulated colors to [0, 255] and convert them to an RGBA image.
func toRGBA(accumulator []types.Vec3, frameW, frameH uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
	for y := uint32(0); y < frameH; y++ {
		for x := uint32(0); x < frameW; x++ {
			c := accumulator[y*frameW+x].Clamp(0, 255)
			img.SetRGBA(int(x), int(y), color.RGBA{
				R: uint8(c[0]),
				G: uint8(c[1]),
				B: uint8(c[2]),
				A: 255,
			})
		}
	}
	return img
}
