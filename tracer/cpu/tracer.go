package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/bvh"
	"github.com/achilleasa/glint/log"
	"github.com/achilleasa/glint/tracer"
	"github.com/achilleasa/glint/types"
)

// A tracer that renders blocks on a single goroutine.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Speed estimate reported to block schedulers.
	speed uint32

	shader *tracer.Shader

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Primary ray buffer reused across rows.
	rays []types.Ray
}

// Create a new cpu tracer for the given scene and its BVH tree and start its
// worker goroutine.
func NewTracer(id string, device Device, sc *scene.Scene, tree *bvh.Tree) (tracer.Tracer, error) {
	if sc == nil || tree == nil {
		return nil, ErrNoSceneData
	}

	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        device.Speed,
		shader:       tracer.NewShader(sc, tree),
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}

	tr.startWorker()
	return tr, nil
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is busy
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- fmt.Errorf("cpu tracer (%s): worker is busy", tr.id)
	}
}

// Shutdown the tracer worker.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}

	tr.closeChan <- struct{}{}

	// wait for worker to ack close and shutdown channel
	<-tr.closeChan
	close(tr.closeChan)
	tr.wg.Wait()
	tr.closeChan = nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.Lock()
	defer tr.Unlock()

	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{}, 0)
	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.stats.PrimaryRays = uint64(blockReq.BlockH) * uint64(blockReq.Camera.Width)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Trace all rows of the block and store the unclamped colors in the request's
// accumulation buffer.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	cam := blockReq.Camera
	if cam == nil {
		return ErrNoCamera
	}

	frameW := cam.Width
	if uint64(len(blockReq.Accumulator)) < uint64(blockReq.BlockY+blockReq.BlockH)*uint64(frameW) {
		return fmt.Errorf("cpu tracer (%s): accumulator too small for rows [%d, %d)", tr.id, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH)
	}

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		tr.rays = cam.PrimaryRays(y, tr.rays)
		row := blockReq.Accumulator[y*frameW : (y+1)*frameW]
		for x, r := range tr.rays {
			row[x] = tr.shader.ColorOf(r, blockReq.MaxDepth)
		}
	}

	tr.logger.Debugf("rendered rows [%d, %d)", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH)
	return nil
}
