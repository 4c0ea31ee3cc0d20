// Package main is the entry point for the scene viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/gpu/glcore"
	"github.com/Faultbox/scenery/internal/engine/window"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Scenery Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	if cfg.Scene.Path == "" {
		return fmt.Errorf("no scene given: pass a file or set scene.path")
	}

	win, err := window.New(window.Config{
		Title:      viewer.Title(cfg.Scene.Path),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	// The GL context must be current before the backend loads functions.
	ctx, err := glcore.New(win.DrawableSize)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	defer ctx.Close()
	logger.Info("OpenGL ready", zap.String("version", glcore.Version()))

	v, err := viewer.New(cfg, ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	return v.Run(win)
}
