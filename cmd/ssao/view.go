package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"ssao-engine/core"
	"ssao-engine/internal/opengl"
	"ssao-engine/internal/parallel"
	"ssao-engine/renderer"
	"ssao-engine/scene"
)

// Radians per second while an arrow key is held.
const orbitSpeed float32 = 1.2

// View renders the scene every frame and presents it in a window.
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if err := attachPrograms(&settings); err != nil {
		return err
	}

	cfg := core.DefaultWindowConfig()
	cfg.Width, cfg.Height = ctx.Int("width"), ctx.Int("height")
	window, err := core.NewWindow(cfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	presenter, err := opengl.NewPresenter()
	if err != nil {
		return err
	}
	defer presenter.Destroy()

	sc, orbit, err := loadScene(ctx, float32(cfg.Width)/float32(cfg.Height))
	if err != nil {
		return err
	}
	engine, err := renderer.NewRenderEngine(cfg.Width, cfg.Height, parallel.NewPool(ctx.Int("workers"), 0))
	if err != nil {
		return err
	}
	engine.SetScene(sc)
	engine.AddFeature(renderer.NewSSAOFeature(&settings))
	logger.Noticef("viewing %s", describeScene(sc))

	last := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		for _, key := range window.PollEvents() {
			switch applyKey(&settings, key) {
			case actionChanged:
				window.SetTitle(viewTitle(settings.ShowAO, settings.ApplyBlur, settings.Variant().String()))
			case actionPrintStats:
				displayFrameStats(engine.DrawStats())
			case actionQuit:
				window.SetShouldClose()
			}
		}
		orbitFromKeys(window, orbit, dt)

		if w, h := engine.Size(); w != window.Width || h != window.Height {
			if err := engine.Resize(window.Width, window.Height); err != nil {
				// Minimized windows report a zero size.
				window.SwapBuffers()
				continue
			}
		}

		if _, err := engine.Render(context.Background()); err != nil {
			return err
		}
		fbw, fbh := window.GetFramebufferSize()
		if err := presenter.Present(engine.Color(), fbw, fbh); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

func orbitFromKeys(window *core.Window, orbit *scene.OrbitCamera, dt float32) {
	var yaw, pitch float32
	if window.IsKeyPressed(core.KeyLeft) {
		yaw -= orbitSpeed * dt
	}
	if window.IsKeyPressed(core.KeyRight) {
		yaw += orbitSpeed * dt
	}
	if window.IsKeyPressed(core.KeyUp) {
		pitch += orbitSpeed * dt
	}
	if window.IsKeyPressed(core.KeyDown) {
		pitch -= orbitSpeed * dt
	}
	if yaw != 0 || pitch != 0 {
		orbit.Orbit(yaw, pitch)
	}
}

func viewTitle(showAO, blur bool, variant string) string {
	if !showAO {
		return "SSAO (off)"
	}
	if blur {
		return fmt.Sprintf("SSAO %s + blur", variant)
	}
	return fmt.Sprintf("SSAO %s", variant)
}
