package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. The assigned heights always add up to frameH;
	// tracers may be assigned zero rows if there are more tracers than rows.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame proportionally to each tracer's
// speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return scheduleBySpeed(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
//
// If this is the first frame, the number of tracers has changed or any
// tracer did not report timing information, the scheduler falls back to
// the tracer speed estimates.
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) || !haveTimings(tracers) {
		sch.blockAssignment = scheduleBySpeed(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics
	var total float64 = 0.0
	var stats *Stats
	for _, tr := range tracers {
		stats = tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	for idx, tr := range tracers {
		stats = tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.BlockH)/float64(stats.RenderTime)*scaler)))
	}

	fitToFrame(sch.blockAssignment, frameH)
	return sch.blockAssignment
}

// Returns true if all tracers have rendered at least one row in the previous
// frame and reported a non-zero render time.
func haveTimings(tracers []Tracer) bool {
	total := 0
	for _, tr := range tracers {
		stats := tr.Stats()
		if stats.RenderTime <= 0 {
			return false
		}
		total += int(stats.BlockH)
	}
	return total > 0
}

// Distribute rows proportionally to each tracer's speed estimate. Each tracer
// gets at least one row.
func scheduleBySpeed(tracers []Tracer, frameH uint32) []uint32 {
	blockAssignment := make([]uint32, len(tracers))
	if len(tracers) == 0 {
		return blockAssignment
	}

	var total float64 = 0.0
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}

	for idx, tr := range tracers {
		if total == 0 {
			// No estimates; split evenly
			blockAssignment[idx] = frameH / uint32(len(tracers))
			continue
		}
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*float64(frameH)/total)))
	}

	fitToFrame(blockAssignment, frameH)
	return blockAssignment
}

// Adjust a block assignment so that its rows add up to frameH. Missing rows
// are appended to the first tracer; excess rows are removed from the tracers
// with the largest assignments.
func fitToFrame(blockAssignment []uint32, frameH uint32) {
	var scheduledRows uint32 = 0
	for _, rows := range blockAssignment {
		scheduledRows += rows
	}

	if scheduledRows <= frameH {
		blockAssignment[0] += frameH - scheduledRows
		return
	}

	for excess := scheduledRows - frameH; excess > 0; excess-- {
		largest := 0
		for idx, rows := range blockAssignment {
			if rows >= blockAssignment[largest] {
				largest = idx
			}
		}
		blockAssignment[largest]--
	}
}
