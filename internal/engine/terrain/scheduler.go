package terrain

import (
	"container/heap"
	"sort"
)

// loadRequest is one pending chunk load. Priority grows as the chunk gets
// closer to the viewpoint, so the closest chunk pops first.
type loadRequest struct {
	key      ChunkKey
	priority float64
}

// requestHeap is a max-heap of load requests ordered by priority.
type requestHeap []loadRequest

func (h requestHeap) Len() int            { return len(h) }
func (h requestHeap) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h requestHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *requestHeap) Push(x interface{}) { *h = append(*h, x.(loadRequest)) }

func (h *requestHeap) Pop() interface{} {
	old := *h
	n := len(old)
	req := old[n-1]
	*h = old[:n-1]
	return req
}

// scheduler turns ranked distances plus chunk states into the frame's work
// queues. Both queues are rebuilt from scratch every Update; the scheduler
// carries no priority state between frames, which keeps it trivially
// correct under a moving viewpoint.
type scheduler struct {
	loads   requestHeap
	unloads []ChunkKey
}

// rebuild repopulates the load heap and unload list from the chunk table.
// Unloaded chunks inside the load distance are enqueued with
// priority = loadDistance - distance; loaded chunks beyond the unload
// distance are listed farthest-first so the least useful chunks are shed
// first under budget pressure. Manual requests are folded in on top:
// loads at maximum priority, unloads appended after the scheduled ones.
func (s *scheduler) rebuild(chunks map[ChunkKey]*Chunk, cfg StreamingConfig,
	manualLoads, manualUnloads map[ChunkKey]struct{}) {

	s.loads = s.loads[:0]
	s.unloads = s.unloads[:0]

	for key, chunk := range chunks {
		dist := chunk.DistanceToViewpoint

		switch chunk.State {
		case ChunkUnloaded:
			if _, manual := manualLoads[key]; manual {
				// Manual requests outrank every distance-based one.
				s.loads = append(s.loads, loadRequest{key: key, priority: cfg.UnloadDistance})
			} else if dist < cfg.LoadDistance {
				s.loads = append(s.loads, loadRequest{key: key, priority: cfg.LoadDistance - dist})
			}
		case ChunkLoaded:
			if dist > cfg.UnloadDistance {
				s.unloads = append(s.unloads, key)
			}
		}
	}

	heap.Init(&s.loads)

	sort.Slice(s.unloads, func(i, j int) bool {
		return chunks[s.unloads[i]].DistanceToViewpoint > chunks[s.unloads[j]].DistanceToViewpoint
	})

	for key := range manualUnloads {
		s.unloads = append(s.unloads, key)
	}
}

// pop removes and returns the highest-priority load request.
func (s *scheduler) pop() (loadRequest, bool) {
	if s.loads.Len() == 0 {
		return loadRequest{}, false
	}
	return heap.Pop(&s.loads).(loadRequest), true
}
