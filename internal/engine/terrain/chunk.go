package terrain

import (
	"github.com/altlands/veldt/pkg/math"
)

// ChunkState is a chunk's position in the streaming lifecycle.
type ChunkState int

// Chunk lifecycle states. The only legal transitions are
// Unloaded→Loading (admission), Loading→Loaded (task success),
// Loading→Unloaded (task failure) and Loaded→Unloaded (eviction).
const (
	ChunkUnloaded ChunkState = iota
	ChunkLoading
	ChunkLoaded
)

// String returns the state name.
func (s ChunkState) String() string {
	switch s {
	case ChunkUnloaded:
		return "unloaded"
	case ChunkLoading:
		return "loading"
	case ChunkLoaded:
		return "loaded"
	default:
		return "invalid"
	}
}

// ChunkKey identifies a chunk by its grid cell coordinates.
type ChunkKey struct {
	X, Z int32
}

// Chunk is the mutable streaming state of one grid cell. Chunks are created
// once at streamer init and never destroyed; load/unload only attaches and
// drops the heavy payload. All fields are written exclusively by the
// goroutine driving Streamer.Update.
type Chunk struct {
	// GridX, GridZ are the stable grid coordinates.
	GridX, GridZ int32

	// Bounds is the world-space box. The Y extent starts as the whole
	// terrain's height range and is tightened to the true sampled
	// min/max after load.
	Bounds math.AABB

	// Center is the cached box center.
	Center math.Vec3

	// U0, V0, U1, V1 is the chunk's precomputed sampling window into the
	// height source, in normalized coordinates.
	U0, V0, U1, V1 float32

	// Resolution is the number of height samples per chunk edge.
	Resolution uint32

	// State is the current lifecycle state.
	State ChunkState

	// HeightData holds Resolution² sampled heights; empty unless Loaded.
	HeightData []float32

	// VertexBuffer and IndexBuffer are GPU handles; invalid unless Loaded.
	VertexBuffer BufferHandle
	IndexBuffer  BufferHandle

	// DistanceToViewpoint is the horizontal distance to the viewpoint,
	// recomputed every Update.
	DistanceToViewpoint float64

	// Visible is the frustum test result; only meaningful when Loaded.
	Visible bool
}

// Key returns the chunk's grid key.
func (c *Chunk) Key() ChunkKey {
	return ChunkKey{X: c.GridX, Z: c.GridZ}
}
