// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/scenery/internal/engine/scene"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Scene      SceneConfig      `yaml:"scene"`
	Camera     CameraConfig     `yaml:"camera"`
	Animation  AnimationConfig  `yaml:"animation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// SceneConfig names the model to open.
type SceneConfig struct {
	Path string `yaml:"path"` // .json, .yaml, .gltf or .glb
}

// CameraConfig holds camera selection and orbit settings.
type CameraConfig struct {
	Select         string  `yaml:"select"` // orthographic, perspective or oblique; empty picks the default
	Turntable      bool    `yaml:"turntable"`
	TurntableSpeed float64 `yaml:"turntable_speed"` // radians per second
}

// AnimationConfig holds animation playback settings.
type AnimationConfig struct {
	FPS      float64 `yaml:"fps"`
	Repeat   bool    `yaml:"repeat"`
	Autoplay bool    `yaml:"autoplay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir     string `yaml:"dir"`
	OnStart bool   `yaml:"on_start"` // capture the first rendered frame
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			TurntableSpeed: 0.5,
		},
		Animation: AnimationConfig{
			FPS:      30,
			Repeat:   true,
			Autoplay: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Screenshot: ScreenshotConfig{
			Dir: "screenshots",
		},
	}
}

// CameraKind resolves Camera.Select. ok is false when no camera is named.
func (c *Config) CameraKind() (kind scene.CameraKind, ok bool, err error) {
	if c.Camera.Select == "" {
		return 0, false, nil
	}
	kind, ok = scene.ParseCameraKind(c.Camera.Select)
	if !ok {
		return 0, false, fmt.Errorf("unknown camera %q", c.Camera.Select)
	}
	return kind, true, nil
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("invalid animation fps %v", c.Animation.FPS)
	}
	if _, _, err := c.CameraKind(); err != nil {
		return err
	}
	return nil
}
