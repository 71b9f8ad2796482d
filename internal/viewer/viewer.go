// Package viewer implements the main loop of the terrain viewer.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/altlands/veldt/internal/config"
	"github.com/altlands/veldt/internal/engine/camera"
	"github.com/altlands/veldt/internal/engine/debug"
	"github.com/altlands/veldt/internal/engine/heightfield"
	"github.com/altlands/veldt/internal/engine/input"
	"github.com/altlands/veldt/internal/engine/renderer"
	"github.com/altlands/veldt/internal/engine/scene"
	"github.com/altlands/veldt/internal/engine/terrain"
	"github.com/altlands/veldt/internal/engine/window"
	"github.com/altlands/veldt/internal/logger"
	"github.com/altlands/veldt/pkg/math"
)

// Viewer is the running application: window, streaming terrain and the
// orbit camera over it.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	streamer *terrain.Streamer
	chunks   *scene.ChunkRenderer
	bounds   *debug.BoundsRenderer

	showBounds bool
}

// New creates the viewer. The window and GL context come up first; every
// GL-touching subsystem after that.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		showBounds: cfg.Graphics.ShowBounds,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Veldt",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.New()

	source, err := newHeightSource(cfg)
	if err != nil {
		v.window.Close()
		return nil, err
	}

	worldBounds := math.AABB{
		Min: math.Vec3{X: -cfg.Terrain.WorldSizeX / 2, Y: 0, Z: -cfg.Terrain.WorldSizeZ / 2},
		Max: math.Vec3{X: cfg.Terrain.WorldSizeX / 2, Y: cfg.Terrain.WorldSizeY, Z: cfg.Terrain.WorldSizeZ / 2},
	}

	v.chunks, err = scene.NewChunkRenderer()
	if err != nil {
		v.window.Close()
		return nil, err
	}
	v.chunks.MinHeight = worldBounds.Min.Y
	v.chunks.MaxHeight = worldBounds.Max.Y

	v.bounds, err = debug.NewBoundsRenderer()
	if err != nil {
		v.chunks.Destroy()
		v.window.Close()
		return nil, err
	}

	v.streamer, err = terrain.New(cfg.Streaming, worldBounds, source, v.chunks)
	if err != nil {
		v.bounds.Destroy()
		v.chunks.Destroy()
		v.window.Close()
		return nil, err
	}

	v.camera.SetCenter(0, cfg.Terrain.WorldSizeY/2, 0)

	logger.Info("viewer initialized")
	return v, nil
}

// newHeightSource picks the height source from config: a PNG heightmap if
// one is configured, procedural noise otherwise.
func newHeightSource(cfg *config.Config) (terrain.HeightSource, error) {
	if cfg.Terrain.HeightmapPath != "" {
		field, err := heightfield.LoadPNG(cfg.Terrain.HeightmapPath)
		if err != nil {
			return nil, fmt.Errorf("loading heightmap: %w", err)
		}
		logger.Info("heightmap loaded",
			zap.String("path", cfg.Terrain.HeightmapPath),
			zap.Uint32("width", field.Width()),
			zap.Uint32("height", field.Height()),
		)
		return field, nil
	}

	logger.Info("using procedural noise terrain",
		zap.Int64("seed", cfg.Terrain.NoiseSeed),
		zap.Int("octaves", cfg.Terrain.NoiseOctaves),
	)
	return heightfield.NewNoiseField(
		cfg.Terrain.NoiseSeed,
		cfg.Terrain.NoiseOctaves,
		cfg.Terrain.NoiseLacunarity,
		cfg.Terrain.NoisePersistence,
		cfg.Terrain.NoiseScale,
	), nil
}

// Run starts the main loop and blocks until quit.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	statsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				v.renderer.Resize(event.Width, event.Height)
			case input.EventKeyDown:
				switch event.Key {
				case sdl.SCANCODE_ESCAPE:
					v.running = false
				case sdl.SCANCODE_B:
					v.showBounds = !v.showBounds
				}
			case input.EventMouseDrag:
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			case input.EventMouseWheel:
				v.camera.HandleZoom(float32(event.WheelY))
			}
		}

		v.handleMovement(dt)
		v.update()
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(statsTimer) >= 2*time.Second {
			logger.Debug("streaming stats",
				zap.Int("fps", frameCount/2),
				zap.Int("loaded", v.streamer.LoadedCount()),
				zap.Int("visible", v.streamer.VisibleCount()),
				zap.Int("in_flight", v.streamer.InFlightCount()),
				zap.Int("failures", v.streamer.FailureCount()),
				zap.Float64("memory_mb", v.streamer.MemoryUsageMB()),
			)
			frameCount = 0
			statsTimer = time.Now()
		}
	}

	return nil
}

// handleMovement pans the camera with WASD and Q/E for vertical.
func (v *Viewer) handleMovement(dt float32) {
	var forward, right, up float32
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward += 1
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward -= 1
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		right += 1
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		right -= 1
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		up += 1
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		up -= 1
	}

	if forward != 0 || right != 0 || up != 0 {
		// Scale by frame time for rate independence; 60 is the reference
		// frame rate the sensitivity constants were tuned at.
		scale := dt * 60
		v.camera.HandleMovement(forward*scale, right*scale, up*scale)
	}
}

// update runs one streaming frame from the camera's point of view.
func (v *Viewer) update() {
	viewProj := v.camera.ViewProjMatrix(v.renderer.Aspect())
	frustum := math.FrustumFromMatrix(viewProj)
	v.streamer.Update(v.camera.Viewpoint(), frustum)
}

// render draws the current frame.
func (v *Viewer) render() {
	v.renderer.Begin()

	viewProj := v.camera.ViewProjMatrix(v.renderer.Aspect())
	visible := v.streamer.VisibleChunks()

	lightDir := [3]float32{-0.4, -0.8, -0.3}
	ambient := [3]float32{0.35, 0.35, 0.38}
	diffuse := [3]float32{0.85, 0.82, 0.75}
	v.chunks.Render(viewProj, lightDir, ambient, diffuse, visible)

	if v.showBounds {
		v.bounds.Draw(viewProj, v.streamer.LoadedChunks(), [4]float32{1, 0.8, 0.1, 1})
	}

	v.renderer.End()
}

// Close shuts streaming down and releases GL and window resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.streamer != nil {
		v.streamer.Shutdown()
	}
	if v.bounds != nil {
		v.bounds.Destroy()
	}
	if v.chunks != nil {
		v.chunks.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
