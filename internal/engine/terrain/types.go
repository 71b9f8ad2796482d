// Package terrain implements streaming of terrain chunks around a moving
// viewpoint. A fixed grid of chunks is kept in one of three states
// (unloaded, loading, loaded); every frame the streamer ranks chunks by
// horizontal distance, starts budget-capped async height sampling for near
// chunks, uploads finished chunks to the GPU, and evicts far ones.
package terrain

import (
	"github.com/altlands/veldt/pkg/math"
)

// HeightSource samples terrain height at normalized [0,1]² coordinates.
// Sample is called concurrently from background loader goroutines and must
// be safe for simultaneous read-only access. A source signals an invalid
// region by returning NaN, which fails that chunk's load.
type HeightSource interface {
	Sample(u, v float32) float32
}

// BufferHandle is an opaque GPU buffer identifier. Zero is invalid.
type BufferHandle uint32

// InvalidBuffer is the zero, never-valid buffer handle.
const InvalidBuffer BufferHandle = 0

// GPU creates and destroys chunk geometry buffers. Both methods are called
// only from the goroutine driving Streamer.Update, which must own the
// graphics context.
type GPU interface {
	UploadChunk(mesh *Mesh) (vertexBuffer, indexBuffer BufferHandle, err error)
	DestroyBuffers(vertexBuffer, indexBuffer BufferHandle)
}

// Frustum tests chunk bounds against the view volume.
type Frustum interface {
	Intersects(box math.AABB) bool
}

// Vertex is one terrain mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Tangent  [4]float32
}

// Mesh holds chunk geometry ready for GPU upload, plus the true sampled
// height range used to tighten the chunk's bounding box.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	MinHeight float32
	MaxHeight float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int { return len(m.Indices) }
