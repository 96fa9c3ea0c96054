package main

import (
	"context"
	"errors"

	"github.com/urfave/cli"

	"ssao-engine/internal/parallel"
	"ssao-engine/renderer"
	"ssao-engine/textures"
)

// RenderFrame renders one frame and writes the requested buffers.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return errors.New("frame size must be positive")
	}
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if err := attachPrograms(&settings); err != nil {
		return err
	}

	sc, _, err := loadScene(ctx, float32(width)/float32(height))
	if err != nil {
		return err
	}
	logger.Infof("scene: %s", describeScene(sc))

	engine, err := renderer.NewRenderEngine(width, height, parallel.NewPool(ctx.Int("workers"), 0))
	if err != nil {
		return err
	}
	engine.SetScene(sc)

	var snapshot *snapshotFeature
	if ctx.String("color-out") != "" {
		snapshot = newSnapshotFeature(settings.Event, width, height)
		engine.AddFeature(snapshot)
	}
	engine.AddFeature(renderer.NewSSAOFeature(&settings))

	stats, err := engine.Render(context.Background())
	if err != nil {
		return err
	}
	displayFrameStats(stats)

	if err := engine.Color().SavePNG(ctx.String("out")); err != nil {
		return err
	}
	logger.Noticef("wrote %s (%s)", ctx.String("out"), settings.Variant())

	if snapshot != nil {
		if err := snapshot.dst.SavePNG(ctx.String("color-out")); err != nil {
			return err
		}
	}
	if path := ctx.String("depth-out"); path != "" {
		if err := textures.FromImage("depth", engine.Depth().ToImage()).SavePNG(path); err != nil {
			return err
		}
	}
	if path := ctx.String("normals-out"); path != "" {
		if err := textures.FromImage("normals", engine.Normals().ToImage()).SavePNG(path); err != nil {
			return err
		}
	}
	return nil
}
