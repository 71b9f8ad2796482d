package terrain

import (
	"fmt"
	gomath "math"

	"github.com/altlands/veldt/pkg/math"
)

// Grid is the static partition of a terrain's world bounds into chunk
// cells. Immutable once constructed; every coordinate with
// MinX <= x < MaxX and MinZ <= z < MaxZ maps to exactly one chunk.
type Grid struct {
	ChunkWorldSize float32

	// Inclusive minimum and exclusive maximum grid coordinates.
	MinX, MinZ int32
	MaxX, MaxZ int32
}

// NewGrid derives grid bounds from the terrain's world box, flooring the
// minimum edge and ceiling the maximum so the grid covers the whole box.
func NewGrid(terrainBounds math.AABB, chunkWorldSize float32) (*Grid, error) {
	if chunkWorldSize <= 0 {
		return nil, fmt.Errorf("terrain: chunk world size must be > 0, got %v", chunkWorldSize)
	}

	size := float64(chunkWorldSize)
	return &Grid{
		ChunkWorldSize: chunkWorldSize,
		MinX:           int32(gomath.Floor(float64(terrainBounds.Min.X) / size)),
		MinZ:           int32(gomath.Floor(float64(terrainBounds.Min.Z) / size)),
		MaxX:           int32(gomath.Ceil(float64(terrainBounds.Max.X) / size)),
		MaxZ:           int32(gomath.Ceil(float64(terrainBounds.Max.Z) / size)),
	}, nil
}

// Width returns the number of cells along X.
func (g *Grid) Width() int {
	return int(g.MaxX - g.MinX)
}

// Depth returns the number of cells along Z.
func (g *Grid) Depth() int {
	return int(g.MaxZ - g.MinZ)
}

// CellCount returns the total number of cells.
func (g *Grid) CellCount() int {
	return g.Width() * g.Depth()
}

// Contains reports whether (x, z) is a valid grid coordinate.
func (g *Grid) Contains(x, z int32) bool {
	return x >= g.MinX && x < g.MaxX && z >= g.MinZ && z < g.MaxZ
}

// CellBounds returns the world-space box of cell (x, z). The Y extent is
// taken from the terrain bounds; it is provisional until the cell's heights
// are sampled.
func (g *Grid) CellBounds(x, z int32, terrainBounds math.AABB) math.AABB {
	size := g.ChunkWorldSize
	return math.AABB{
		Min: math.Vec3{
			X: float32(x) * size,
			Y: terrainBounds.Min.Y,
			Z: float32(z) * size,
		},
		Max: math.Vec3{
			X: float32(x+1) * size,
			Y: terrainBounds.Max.Y,
			Z: float32(z+1) * size,
		},
	}
}
