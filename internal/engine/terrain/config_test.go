package terrain

import "testing"

func TestDefaultStreamingConfigValid(t *testing.T) {
	cfg := DefaultStreamingConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
	if cfg.UnloadDistance <= cfg.LoadDistance {
		t.Errorf("default hysteresis band is empty: load %v, unload %v",
			cfg.LoadDistance, cfg.UnloadDistance)
	}
}

func TestStreamingConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*StreamingConfig)
	}{
		{"zero chunk size", func(c *StreamingConfig) { c.ChunkWorldSize = 0 }},
		{"negative chunk size", func(c *StreamingConfig) { c.ChunkWorldSize = -10 }},
		{"resolution too small", func(c *StreamingConfig) { c.ChunkResolution = 1 }},
		{"zero load distance", func(c *StreamingConfig) { c.LoadDistance = 0 }},
		{"unload equals load", func(c *StreamingConfig) { c.UnloadDistance = c.LoadDistance }},
		{"unload below load", func(c *StreamingConfig) { c.UnloadDistance = c.LoadDistance - 1 }},
		{"zero max loaded", func(c *StreamingConfig) { c.MaxLoadedChunks = 0 }},
		{"zero loads per frame", func(c *StreamingConfig) { c.MaxLoadsPerFrame = 0 }},
		{"zero unloads per frame", func(c *StreamingConfig) { c.MaxUnloadsPerFrame = 0 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultStreamingConfig()
			c.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
