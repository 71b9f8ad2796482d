package terrain

import "fmt"

// StreamingConfig controls the chunk streaming window and its per-frame
// budgets. Validate rejects configurations the streamer cannot run with.
type StreamingConfig struct {
	// ChunkWorldSize is the side length of one chunk cell in world units.
	ChunkWorldSize float32 `yaml:"chunk_world_size"`

	// ChunkResolution is the number of height samples per chunk edge.
	ChunkResolution uint32 `yaml:"chunk_resolution"`

	// LoadDistance: unloaded chunks closer than this become load-eligible.
	LoadDistance float64 `yaml:"load_distance"`

	// UnloadDistance: loaded chunks farther than this become
	// unload-eligible. Must exceed LoadDistance; the gap is the
	// anti-thrash hysteresis band.
	UnloadDistance float64 `yaml:"unload_distance"`

	// MaxLoadedChunks caps total resident chunks (memory bound).
	MaxLoadedChunks int `yaml:"max_loaded_chunks"`

	// MaxLoadsPerFrame caps new load task starts per Update.
	MaxLoadsPerFrame int `yaml:"max_loads_per_frame"`

	// MaxUnloadsPerFrame caps chunk destroys per Update.
	MaxUnloadsPerFrame int `yaml:"max_unloads_per_frame"`
}

// DefaultStreamingConfig returns the streaming defaults.
func DefaultStreamingConfig() StreamingConfig {
	return StreamingConfig{
		ChunkWorldSize:     64,
		ChunkResolution:    65,
		LoadDistance:       300,
		UnloadDistance:     400,
		MaxLoadedChunks:    128,
		MaxLoadsPerFrame:   4,
		MaxUnloadsPerFrame: 4,
	}
}

// Validate checks the configuration. Errors here are fatal at streamer
// construction, never deferred to runtime.
func (c StreamingConfig) Validate() error {
	if c.ChunkWorldSize <= 0 {
		return fmt.Errorf("chunk_world_size must be > 0, got %v", c.ChunkWorldSize)
	}
	if c.ChunkResolution < 2 {
		return fmt.Errorf("chunk_resolution must be >= 2, got %d", c.ChunkResolution)
	}
	if c.LoadDistance <= 0 {
		return fmt.Errorf("load_distance must be > 0, got %v", c.LoadDistance)
	}
	if c.UnloadDistance <= c.LoadDistance {
		return fmt.Errorf("unload_distance (%v) must be > load_distance (%v)",
			c.UnloadDistance, c.LoadDistance)
	}
	if c.MaxLoadedChunks <= 0 {
		return fmt.Errorf("max_loaded_chunks must be > 0, got %d", c.MaxLoadedChunks)
	}
	if c.MaxLoadsPerFrame <= 0 {
		return fmt.Errorf("max_loads_per_frame must be > 0, got %d", c.MaxLoadsPerFrame)
	}
	if c.MaxUnloadsPerFrame <= 0 {
		return fmt.Errorf("max_unloads_per_frame must be > 0, got %d", c.MaxUnloadsPerFrame)
	}
	return nil
}
