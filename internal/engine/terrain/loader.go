package terrain

import (
	"errors"
	gomath "math"
)

// ErrInvalidSample is reported when the height source returns a
// non-finite value for a chunk's region.
var ErrInvalidSample = errors.New("terrain: height source returned non-finite sample")

// loadResult is what a finished load task delivers: either the sampled
// height buffer or the error that failed the load.
type loadResult struct {
	heights []float32
	err     error
}

// loadTask is one in-flight async chunk load. The sampling goroutine owns
// the height buffer until it sends the result; ownership then transfers to
// the chunk on the orchestrator goroutine. There is at most one task per
// chunk key, and tasks are never cancelled: a chunk that leaves the
// streaming radius mid-load still completes and is evicted next frame.
type loadTask struct {
	key  ChunkKey
	done chan loadResult
}

// startLoadTask launches the background sampling goroutine for a chunk.
// The task captures only immutable data (the sampling window and the
// shared read-only height source); it never touches chunk state or the GPU.
func startLoadTask(chunk *Chunk, source HeightSource) *loadTask {
	task := &loadTask{
		key:  chunk.Key(),
		done: make(chan loadResult, 1),
	}

	u0, v0, u1, v1 := chunk.U0, chunk.V0, chunk.U1, chunk.V1
	res := chunk.Resolution

	go func() {
		heights, err := sampleRegion(source, u0, v0, u1, v1, res)
		task.done <- loadResult{heights: heights, err: err}
	}()

	return task
}

// poll checks for completion without blocking.
func (t *loadTask) poll() (loadResult, bool) {
	select {
	case res := <-t.done:
		return res, true
	default:
		return loadResult{}, false
	}
}

// wait blocks until the task finishes and returns its result. Used only
// during shutdown.
func (t *loadTask) wait() loadResult {
	return <-t.done
}

// sampleRegion fills a res×res buffer by mapping local chunk coordinates
// into the source's normalized space and sampling each point.
func sampleRegion(source HeightSource, u0, v0, u1, v1 float32, res uint32) ([]float32, error) {
	heights := make([]float32, res*res)

	for z := uint32(0); z < res; z++ {
		localV := float32(z) / float32(res-1)
		v := v0 + localV*(v1-v0)

		for x := uint32(0); x < res; x++ {
			localU := float32(x) / float32(res-1)
			u := u0 + localU*(u1-u0)

			h := source.Sample(u, v)
			if gomath.IsNaN(float64(h)) || gomath.IsInf(float64(h), 0) {
				return nil, ErrInvalidSample
			}
			heights[z*res+x] = h
		}
	}

	return heights, nil
}
