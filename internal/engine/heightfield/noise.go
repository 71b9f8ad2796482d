package heightfield

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField is a procedural height source backed by fractal opensimplex
// noise. It needs no asset file and supports arbitrarily large terrains.
type NoiseField struct {
	noise       opensimplex.Noise32
	octaves     int
	lacunarity  float32
	persistence float32
	scale       float32
}

// NewNoiseField creates a fractal noise source. Scale is the noise-space
// extent mapped over the [0,1] UV range; larger scale means more features.
func NewNoiseField(seed int64, octaves int, lacunarity, persistence, scale float32) *NoiseField {
	if octaves < 1 {
		octaves = 1
	}
	return &NoiseField{
		noise:       opensimplex.New32(seed),
		octaves:     octaves,
		lacunarity:  lacunarity,
		persistence: persistence,
		scale:       scale,
	}
}

// Sample returns a height in [0,1] at normalized coordinates. Safe for
// concurrent use; opensimplex evaluation is stateless after construction.
func (n *NoiseField) Sample(u, v float32) float32 {
	x := u * n.scale
	y := v * n.scale

	var sum, amplitude, norm float32 = 0, 1, 0
	frequency := float32(1)
	for i := 0; i < n.octaves; i++ {
		sum += n.noise.Eval2(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= n.persistence
		frequency *= n.lacunarity
	}

	// Eval2 is in [-1,1]; remap the normalized sum to [0,1].
	return sum/norm*0.5 + 0.5
}
