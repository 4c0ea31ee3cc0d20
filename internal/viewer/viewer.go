// Package viewer runs the scene viewer frame loop: each frame advances the
// animation and orbit camera, then renders.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/animation"
	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/debug"
	"github.com/Faultbox/scenery/internal/engine/gpu"
	"github.com/Faultbox/scenery/internal/engine/importer"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/engine/serial"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
)

// orbitFPS is the fixed rate the orbit spring is stepped at.
const orbitFPS = 60

// Host is the platform side of the frame loop. *window.Window satisfies it.
type Host interface {
	// PollEvents reports whether the viewer should keep running.
	PollEvents() bool
	SwapBuffers()
}

// Viewer owns the renderer and the loaded model.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	model    *serial.Parsed
	renderer *renderer.Renderer
	runner   *animation.Runner
	orbit    *camera.Orbit
	textures *texture.Loader
	shots    *debug.ScreenshotCapture

	screenshotPending bool
}

// New loads the configured scene and prepares it for drawing through ctx.
func New(cfg *config.Config, ctx gpu.Context) (*Viewer, error) {
	if cfg.Scene.Path == "" {
		return nil, fmt.Errorf("no scene given")
	}
	v := &Viewer{
		cfg:      cfg,
		log:      logger.Named("viewer"),
		renderer: renderer.New(ctx, renderer.DefaultConfig()),
		runner:   animation.NewRunner(),
		textures: texture.NewLoader(filepath.Dir(cfg.Scene.Path), logger.Named("texture")),
		shots:    debug.NewScreenshotCapture(cfg.Screenshot.Dir, "scenery"),
	}
	if err := v.Load(cfg.Scene.Path); err != nil {
		v.renderer.Close()
		return nil, err
	}
	v.screenshotPending = cfg.Screenshot.OnStart
	return v, nil
}

// Load replaces the current model with the scene at path.
func (v *Viewer) Load(path string) error {
	p, err := importer.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	if err := v.renderer.UpdateFromParsedModel(p); err != nil {
		return fmt.Errorf("failed to prepare scene: %w", err)
	}
	v.model = p

	if kind, ok, err := v.cfg.CameraKind(); err != nil {
		return err
	} else if ok {
		if err := v.renderer.SelectCamera(kind); err != nil {
			v.log.Warn("camera not in scene, keeping default", zap.Error(err))
		}
	}

	for _, t := range p.Textures {
		v.textures.Start(t)
	}

	v.runner.Load(p.Scene, p.Clip)
	v.runner.SetFPS(v.cfg.Animation.FPS)
	v.runner.SetRepeat(v.cfg.Animation.Repeat)
	if v.cfg.Animation.Autoplay && p.Clip != nil {
		v.runner.StartForward()
	}

	v.orbit = nil
	if cam := v.renderer.SelectedCamera(); cam != nil && v.cfg.Camera.Turntable {
		o := camera.NewOrbit(orbitFPS)
		o.TurntableSpeed = float32(v.cfg.Camera.TurntableSpeed)
		target := cam.WorldPosition()
		if lo, hi, ok := camera.Bounds(p.Scene); ok {
			target = lo.Add(hi).Scale(0.5)
		}
		o.FromCamera(cam, target)
		v.orbit = o
	}

	v.log.Info("scene loaded",
		zap.String("path", path),
		zap.String("name", p.Scene.Name),
		zap.Int("nodes", p.Scene.Count()),
		zap.Int("textures", len(p.Textures)),
		zap.Bool("animated", p.Clip != nil),
	)
	return nil
}

// Step advances the model by dt seconds and renders one frame.
func (v *Viewer) Step(dt float64) error {
	v.textures.Poll()
	v.runner.Update(dt)
	if v.orbit != nil {
		v.orbit.Update(dt)
		v.orbit.Apply(v.renderer.SelectedCamera())
	}

	if err := v.renderer.Render(); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	if v.screenshotPending && v.textures.Pending() == 0 {
		v.screenshotPending = false
		if _, err := v.shots.Capture(v.renderer); err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
		}
	}
	return nil
}

// Run drives the frame loop until the host asks to stop. With vsync
// enabled SwapBuffers paces the loop to the display.
func (v *Viewer) Run(host Host) error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for host.PollEvents() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if err := v.Step(dt); err != nil {
			return err
		}
		host.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	v.log.Info("frame loop stopped")
	return nil
}

// Model returns the loaded model.
func (v *Viewer) Model() *serial.Parsed { return v.model }

// Renderer returns the viewer's renderer.
func (v *Viewer) Renderer() *renderer.Renderer { return v.renderer }

// Runner returns the animation runner driving the model.
func (v *Viewer) Runner() *animation.Runner { return v.runner }

// Close releases the GPU objects the viewer created.
func (v *Viewer) Close() {
	v.renderer.Close()
}

// Title returns a window title for the scene at path.
func Title(path string) string {
	if path == "" {
		return "Scenery"
	}
	return "Scenery - " + filepath.Base(path)
}
