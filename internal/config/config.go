// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/altlands/veldt/internal/engine/terrain"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig          `yaml:"graphics"`
	Terrain   TerrainConfig           `yaml:"terrain"`
	Streaming terrain.StreamingConfig `yaml:"streaming"`
	Logging   LoggingConfig           `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	ShowBounds bool `yaml:"show_bounds"` // draw chunk bounding boxes
}

// TerrainConfig describes the terrain the viewer streams.
type TerrainConfig struct {
	// WorldSizeX/Y/Z are the terrain's world extents; Y is the height range.
	WorldSizeX float32 `yaml:"world_size_x"`
	WorldSizeY float32 `yaml:"world_size_y"`
	WorldSizeZ float32 `yaml:"world_size_z"`

	// HeightmapPath points to a PNG heightmap. Empty means procedural
	// noise terrain.
	HeightmapPath string `yaml:"heightmap_path"`

	// Noise parameters, used when HeightmapPath is empty.
	NoiseSeed        int64   `yaml:"noise_seed"`
	NoiseOctaves     int     `yaml:"noise_octaves"`
	NoiseLacunarity  float32 `yaml:"noise_lacunarity"`
	NoisePersistence float32 `yaml:"noise_persistence"`
	NoiseScale       float32 `yaml:"noise_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ShowBounds: false,
		},
		Terrain: TerrainConfig{
			WorldSizeX:       2048,
			WorldSizeY:       160,
			WorldSizeZ:       2048,
			NoiseSeed:        1337,
			NoiseOctaves:     5,
			NoiseLacunarity:  2.0,
			NoisePersistence: 0.5,
			NoiseScale:       8.0,
		},
		Streaming: terrain.DefaultStreamingConfig(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would be fatal at startup.
func (c *Config) Validate() error {
	if c.Terrain.WorldSizeX <= 0 || c.Terrain.WorldSizeZ <= 0 {
		return fmt.Errorf("terrain world size must be positive, got %vx%v",
			c.Terrain.WorldSizeX, c.Terrain.WorldSizeZ)
	}
	if c.Terrain.WorldSizeY <= 0 {
		return fmt.Errorf("terrain height range must be positive, got %v", c.Terrain.WorldSizeY)
	}
	if err := c.Streaming.Validate(); err != nil {
		return fmt.Errorf("streaming: %w", err)
	}
	return nil
}
