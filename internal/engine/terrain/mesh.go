package terrain

import (
	gomath "math"

	"github.com/altlands/veldt/pkg/math"
)

// BuildChunkMesh builds renderable geometry from a chunk's sampled heights.
// Normals come from central differences on the height buffer, tangents from
// cross(up, normal) with an X-axis fallback where that degenerates (flat
// vertical normals). UVs are global across the terrain so textures tile
// seamlessly between chunks.
func BuildChunkMesh(heights []float32, res uint32, chunkBounds, terrainBounds math.AABB) *Mesh {
	if res < 2 || len(heights) < int(res*res) {
		return nil
	}

	scale := terrainBounds.Size()
	chunkSizeX := chunkBounds.Max.X - chunkBounds.Min.X
	chunkSizeZ := chunkBounds.Max.Z - chunkBounds.Min.Z

	mesh := &Mesh{
		Vertices:  make([]Vertex, 0, res*res),
		Indices:   make([]uint32, 0, (res-1)*(res-1)*6),
		MinHeight: float32(gomath.Inf(1)),
		MaxHeight: float32(gomath.Inf(-1)),
	}

	// Spacing between neighboring samples, used to scale the normal's
	// vertical component.
	step := chunkSizeX / float32(res-1)

	at := func(x, z uint32) float32 {
		return heights[z*res+x]
	}

	for z := uint32(0); z < res; z++ {
		for x := uint32(0); x < res; x++ {
			localU := float32(x) / float32(res-1)
			localV := float32(z) / float32(res-1)

			worldX := chunkBounds.Min.X + localU*chunkSizeX
			worldZ := chunkBounds.Min.Z + localV*chunkSizeZ
			worldY := terrainBounds.Min.Y + at(x, z)*scale.Y

			// Central differences, clamped at chunk edges.
			hl, hr := at(x, z), at(x, z)
			if x > 0 {
				hl = at(x-1, z)
			}
			if x < res-1 {
				hr = at(x+1, z)
			}
			hd, hu := at(x, z), at(x, z)
			if z > 0 {
				hd = at(x, z-1)
			}
			if z < res-1 {
				hu = at(x, z+1)
			}

			dx := (hr - hl) * scale.Y
			dz := (hu - hd) * scale.Y
			normal := math.Vec3{X: -dx, Y: 2 * step, Z: -dz}.Normalize()

			tangent := math.Vec3{X: 0, Y: 1, Z: 0}.Cross(normal)
			if tangent.Length() < 0.001 {
				tangent = math.Vec3{X: 1, Y: 0, Z: 0}
			}
			tangent = tangent.Normalize()

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: [3]float32{worldX, worldY, worldZ},
				Normal:   [3]float32{normal.X, normal.Y, normal.Z},
				TexCoord: [2]float32{
					(worldX - terrainBounds.Min.X) / scale.X,
					(worldZ - terrainBounds.Min.Z) / scale.Z,
				},
				Tangent: [4]float32{tangent.X, tangent.Y, tangent.Z, 1},
			})

			if worldY < mesh.MinHeight {
				mesh.MinHeight = worldY
			}
			if worldY > mesh.MaxHeight {
				mesh.MaxHeight = worldY
			}
		}
	}

	for z := uint32(0); z < res-1; z++ {
		for x := uint32(0); x < res-1; x++ {
			i00 := z*res + x
			i10 := i00 + 1
			i01 := i00 + res
			i11 := i01 + 1

			mesh.Indices = append(mesh.Indices, i00, i01, i10)
			mesh.Indices = append(mesh.Indices, i10, i01, i11)
		}
	}

	return mesh
}
