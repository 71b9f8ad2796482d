package terrain

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/altlands/veldt/internal/logger"
	"github.com/altlands/veldt/pkg/math"
)

// Streamer keeps a bounded, distance-prioritized window of terrain chunks
// resident on the GPU while the viewpoint moves. It owns the chunk table
// and every GPU handle; all state is mutated only by the goroutine calling
// Update, so no locking is needed on the hot path. Background load tasks
// write exclusively to their own task-local buffers.
type Streamer struct {
	cfg    StreamingConfig
	grid   *Grid
	source HeightSource
	gpu    GPU

	terrainBounds math.AABB
	terrainScale  math.Vec3

	chunks map[ChunkKey]*Chunk
	tasks  []*loadTask
	sched  scheduler

	// Manual overrides persist across frames until admitted or
	// invalidated; the scheduler folds them into each rebuild.
	manualLoads   map[ChunkKey]struct{}
	manualUnloads map[ChunkKey]struct{}

	loadedCount  int
	visibleCount int
	failureCount int
}

// New creates a streamer over the given terrain bounds and height source.
// The source is borrowed read-only and must outlive the streamer. The GPU
// backend is called only from the goroutine that drives Update. Fails on
// invalid configuration; configuration errors are never deferred.
func New(cfg StreamingConfig, terrainBounds math.AABB, source HeightSource, gpu GPU) (*Streamer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("terrain: invalid streaming config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("terrain: height source is required")
	}
	if gpu == nil {
		return nil, fmt.Errorf("terrain: gpu backend is required")
	}

	grid, err := NewGrid(terrainBounds, cfg.ChunkWorldSize)
	if err != nil {
		return nil, err
	}

	s := &Streamer{
		cfg:           cfg,
		grid:          grid,
		source:        source,
		gpu:           gpu,
		terrainBounds: terrainBounds,
		terrainScale:  terrainBounds.Size(),
		chunks:        make(map[ChunkKey]*Chunk, grid.CellCount()),
		manualLoads:   make(map[ChunkKey]struct{}),
		manualUnloads: make(map[ChunkKey]struct{}),
	}

	for z := grid.MinZ; z < grid.MaxZ; z++ {
		for x := grid.MinX; x < grid.MaxX; x++ {
			bounds := grid.CellBounds(x, z, terrainBounds)
			chunk := &Chunk{
				GridX:      x,
				GridZ:      z,
				Bounds:     bounds,
				Center:     bounds.Center(),
				Resolution: cfg.ChunkResolution,
				State:      ChunkUnloaded,
			}

			// Sampling window: the cell's normalized UV range in the
			// height source.
			chunk.U0 = (bounds.Min.X - terrainBounds.Min.X) / s.terrainScale.X
			chunk.V0 = (bounds.Min.Z - terrainBounds.Min.Z) / s.terrainScale.Z
			chunk.U1 = (bounds.Max.X - terrainBounds.Min.X) / s.terrainScale.X
			chunk.V1 = (bounds.Max.Z - terrainBounds.Min.Z) / s.terrainScale.Z

			s.chunks[chunk.Key()] = chunk
		}
	}

	logger.Info("terrain streamer initialized",
		zap.Int("grid_width", grid.Width()),
		zap.Int("grid_depth", grid.Depth()),
		zap.Float32("chunk_world_size", cfg.ChunkWorldSize),
		zap.Uint32("chunk_resolution", cfg.ChunkResolution),
	)

	return s, nil
}

// Update runs one streaming frame. The six steps always execute in this
// order; rendering queries issued after Update see a consistent snapshot
// for the frame. Update never blocks: in-flight tasks are only polled.
//
// A nil frustum disables culling (every loaded chunk counts as visible).
func (s *Streamer) Update(viewpoint math.Vec3, frustum Frustum) {
	s.updateDistances(viewpoint)
	s.sched.rebuild(s.chunks, s.cfg, s.manualLoads, s.manualUnloads)
	s.updateVisibility(frustum)
	s.processLoads()
	s.processUnloads()
	s.pollTasks()
}

// updateDistances recomputes the horizontal distance from the viewpoint to
// every chunk center. Y is deliberately ignored so overhead or underground
// viewpoints do not distort streaming priority. Runs over all chunks, not
// just loaded ones: unloaded chunks need ranking to know whether to load.
func (s *Streamer) updateDistances(viewpoint math.Vec3) {
	for _, chunk := range s.chunks {
		dx := float64(chunk.Center.X - viewpoint.X)
		dz := float64(chunk.Center.Z - viewpoint.Z)
		chunk.DistanceToViewpoint = gomath.Sqrt(dx*dx + dz*dz)
	}
}

// updateVisibility re-tests every loaded chunk against the frustum.
// Chunks that are not loaded are never visible.
func (s *Streamer) updateVisibility(frustum Frustum) {
	s.visibleCount = 0
	for _, chunk := range s.chunks {
		if chunk.State == ChunkLoaded {
			chunk.Visible = frustum == nil || frustum.Intersects(chunk.Bounds)
			if chunk.Visible {
				s.visibleCount++
			}
		} else {
			chunk.Visible = false
		}
	}
}

// processLoads drains the load queue under both admission caps: at most
// MaxLoadsPerFrame new tasks this frame, and no new task once
// MaxLoadedChunks chunks are resident or loading.
func (s *Streamer) processLoads() {
	started := 0
	for started < s.cfg.MaxLoadsPerFrame && s.residentCount() < s.cfg.MaxLoadedChunks {
		req, ok := s.sched.pop()
		if !ok {
			break
		}

		chunk, ok := s.chunks[req.key]
		if !ok || chunk.State != ChunkUnloaded {
			delete(s.manualLoads, req.key)
			continue
		}

		chunk.State = ChunkLoading
		s.tasks = append(s.tasks, startLoadTask(chunk, s.source))
		delete(s.manualLoads, req.key)
		started++

		logger.Debug("chunk load started",
			zap.Int32("x", chunk.GridX),
			zap.Int32("z", chunk.GridZ),
			zap.Float64("distance", chunk.DistanceToViewpoint),
		)
	}
}

// residentCount is the number of chunks holding or about to hold GPU
// memory: loaded plus in-flight. Counting in-flight tasks keeps the
// MaxLoadedChunks cap from being overshot by loads racing in one frame.
func (s *Streamer) residentCount() int {
	return s.loadedCount + len(s.tasks)
}

// processUnloads drains the unload list up to MaxUnloadsPerFrame. The cap
// applies to the merged list, scheduled and manual alike.
func (s *Streamer) processUnloads() {
	unloaded := 0
	for _, key := range s.sched.unloads {
		if unloaded >= s.cfg.MaxUnloadsPerFrame {
			break
		}

		chunk, ok := s.chunks[key]
		if !ok || chunk.State != ChunkLoaded {
			delete(s.manualUnloads, key)
			continue
		}

		s.unloadChunk(chunk)
		delete(s.manualUnloads, key)
		unloaded++
	}
}

// pollTasks checks every in-flight task without blocking and completes the
// finished ones. GPU upload happens here, on the orchestrator goroutine.
// One chunk's failure never aborts the rest of the frame.
func (s *Streamer) pollTasks() {
	remaining := s.tasks[:0]
	for _, task := range s.tasks {
		res, done := task.poll()
		if !done {
			remaining = append(remaining, task)
			continue
		}
		s.completeLoad(task.key, res)
	}
	s.tasks = remaining
}

// completeLoad finalizes a finished task: on success the height buffer
// moves into the chunk and the mesh is built and uploaded; on any failure
// the chunk reverts to Unloaded with no residual state, eligible for retry
// next frame if still in range.
func (s *Streamer) completeLoad(key ChunkKey, res loadResult) {
	chunk, ok := s.chunks[key]
	if !ok || chunk.State != ChunkLoading {
		return
	}

	if res.err != nil {
		chunk.State = ChunkUnloaded
		s.failureCount++
		logger.Warn("chunk load failed",
			zap.Int32("x", chunk.GridX),
			zap.Int32("z", chunk.GridZ),
			zap.Error(res.err),
		)
		return
	}

	chunk.HeightData = res.heights
	if err := s.uploadChunk(chunk); err != nil {
		// A partially-uploaded chunk must not be left Loaded without
		// valid handles; treat upload failure like a sampling failure.
		chunk.HeightData = nil
		chunk.State = ChunkUnloaded
		s.failureCount++
		logger.Warn("chunk upload failed",
			zap.Int32("x", chunk.GridX),
			zap.Int32("z", chunk.GridZ),
			zap.Error(err),
		)
		return
	}

	chunk.State = ChunkLoaded
	s.loadedCount++

	logger.Debug("chunk loaded",
		zap.Int32("x", chunk.GridX),
		zap.Int32("z", chunk.GridZ),
	)
}

// uploadChunk builds the chunk mesh and creates its GPU buffers, then
// tightens the chunk's vertical bounds to the true sampled height range.
func (s *Streamer) uploadChunk(chunk *Chunk) error {
	mesh := BuildChunkMesh(chunk.HeightData, chunk.Resolution, chunk.Bounds, s.terrainBounds)
	if mesh == nil {
		return fmt.Errorf("terrain: chunk (%d,%d) has no mesh data", chunk.GridX, chunk.GridZ)
	}

	vb, ib, err := s.gpu.UploadChunk(mesh)
	if err != nil {
		return err
	}

	chunk.VertexBuffer = vb
	chunk.IndexBuffer = ib
	chunk.Bounds.Min.Y = mesh.MinHeight
	chunk.Bounds.Max.Y = mesh.MaxHeight
	chunk.Center = chunk.Bounds.Center()
	return nil
}

// unloadChunk destroys the chunk's GPU buffers, drops its height data and
// returns it to the Unloaded state.
func (s *Streamer) unloadChunk(chunk *Chunk) {
	if chunk.VertexBuffer != InvalidBuffer || chunk.IndexBuffer != InvalidBuffer {
		s.gpu.DestroyBuffers(chunk.VertexBuffer, chunk.IndexBuffer)
	}
	chunk.VertexBuffer = InvalidBuffer
	chunk.IndexBuffer = InvalidBuffer
	chunk.HeightData = nil
	chunk.State = ChunkUnloaded
	chunk.Visible = false
	s.loadedCount--

	logger.Debug("chunk unloaded",
		zap.Int32("x", chunk.GridX),
		zap.Int32("z", chunk.GridZ),
	)
}

// RequestLoad queues a manual load for an unloaded chunk. It is serviced
// at maximum priority but remains subject to the per-frame and total caps.
func (s *Streamer) RequestLoad(gridX, gridZ int32) {
	key := ChunkKey{X: gridX, Z: gridZ}
	chunk, ok := s.chunks[key]
	if !ok || chunk.State != ChunkUnloaded {
		return
	}
	s.manualLoads[key] = struct{}{}
}

// RequestUnload queues a manual unload, bypassing the distance hysteresis.
// It shares the per-frame unload cap with scheduled unloads.
func (s *Streamer) RequestUnload(gridX, gridZ int32) {
	key := ChunkKey{X: gridX, Z: gridZ}
	if _, ok := s.chunks[key]; !ok {
		return
	}
	s.manualUnloads[key] = struct{}{}
}

// ForceLoadSync samples and uploads a chunk synchronously on the calling
// goroutine, bypassing the async path. Intended for guaranteed-resident
// chunks (e.g. under the player at teleport time); do not call per frame.
// No-op unless the chunk exists and is Unloaded.
func (s *Streamer) ForceLoadSync(gridX, gridZ int32) error {
	chunk, ok := s.chunks[ChunkKey{X: gridX, Z: gridZ}]
	if !ok || chunk.State != ChunkUnloaded {
		return nil
	}

	chunk.State = ChunkLoading
	heights, err := sampleRegion(s.source, chunk.U0, chunk.V0, chunk.U1, chunk.V1, chunk.Resolution)
	if err != nil {
		chunk.State = ChunkUnloaded
		s.failureCount++
		return fmt.Errorf("terrain: force load (%d,%d): %w", gridX, gridZ, err)
	}

	chunk.HeightData = heights
	if err := s.uploadChunk(chunk); err != nil {
		chunk.HeightData = nil
		chunk.State = ChunkUnloaded
		s.failureCount++
		return fmt.Errorf("terrain: force load (%d,%d): %w", gridX, gridZ, err)
	}

	chunk.State = ChunkLoaded
	s.loadedCount++
	return nil
}

// Shutdown waits for in-flight tasks, unloads every loaded chunk and
// destroys all GPU buffers. The streamer must not be used afterwards.
func (s *Streamer) Shutdown() {
	for _, task := range s.tasks {
		// Wait and discard; the chunk never reaches Loaded.
		task.wait()
		if chunk, ok := s.chunks[task.key]; ok && chunk.State == ChunkLoading {
			chunk.State = ChunkUnloaded
		}
	}
	s.tasks = nil

	for _, chunk := range s.chunks {
		if chunk.State == ChunkLoaded {
			s.unloadChunk(chunk)
		}
	}

	logger.Info("terrain streamer shut down",
		zap.Int("failures", s.failureCount),
	)
}

// VisibleChunks returns the loaded chunks inside the frustum, in no
// guaranteed order. The returned chunks are owned by the streamer and
// valid until the next Update.
func (s *Streamer) VisibleChunks() []*Chunk {
	out := make([]*Chunk, 0, s.visibleCount)
	for _, chunk := range s.chunks {
		if chunk.State == ChunkLoaded && chunk.Visible {
			out = append(out, chunk)
		}
	}
	return out
}

// LoadedChunks returns every loaded chunk regardless of visibility, for
// passes with a different frustum (e.g. shadows).
func (s *Streamer) LoadedChunks() []*Chunk {
	out := make([]*Chunk, 0, s.loadedCount)
	for _, chunk := range s.chunks {
		if chunk.State == ChunkLoaded {
			out = append(out, chunk)
		}
	}
	return out
}

// ChunkAt returns the chunk at the given grid coordinates, or nil.
func (s *Streamer) ChunkAt(gridX, gridZ int32) *Chunk {
	return s.chunks[ChunkKey{X: gridX, Z: gridZ}]
}

// Grid returns the streamer's chunk grid.
func (s *Streamer) Grid() *Grid {
	return s.grid
}

// LoadedCount returns the number of resident chunks.
func (s *Streamer) LoadedCount() int { return s.loadedCount }

// VisibleCount returns the number of loaded chunks that passed the last
// visibility pass.
func (s *Streamer) VisibleCount() int { return s.visibleCount }

// FailureCount returns the total number of failed loads since creation.
// A persistently failing chunk shows up here while rendering as a hole.
func (s *Streamer) FailureCount() int { return s.failureCount }

// InFlightCount returns the number of load tasks currently running.
func (s *Streamer) InFlightCount() int { return len(s.tasks) }

// MemoryUsageMB estimates CPU plus GPU memory held by loaded chunks.
func (s *Streamer) MemoryUsageMB() float64 {
	var totalBytes float64
	for _, chunk := range s.chunks {
		if chunk.State != ChunkLoaded {
			continue
		}

		res := float64(chunk.Resolution)
		totalBytes += float64(len(chunk.HeightData)) * 4

		// GPU estimates: pos + normal + uv + tangent per vertex,
		// 6 uint32 indices per grid cell.
		totalBytes += res * res * (3 + 3 + 2 + 4) * 4
		totalBytes += (res - 1) * (res - 1) * 6 * 4
	}
	return totalBytes / (1024 * 1024)
}
