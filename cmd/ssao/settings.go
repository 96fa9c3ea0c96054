package main

import (
	"fmt"

	"github.com/urfave/cli"

	"ssao-engine/blur"
	"ssao-engine/config"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
	"ssao-engine/textures"
)

func settingsFlags() []cli.Flag {
	d := config.Default()
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "JSON settings file; flags below override its values",
		},
		cli.StringFlag{
			Name:  "event",
			Value: d.Event.String(),
			Usage: "render pass event (before-opaques, after-opaques, before-post-process, after-post-process)",
		},
		cli.BoolTFlag{
			Name:  "show-ao",
			Usage: "publish the occlusion buffer; without --config this defaults to true",
		},
		cli.StringFlag{
			Name:  "method, m",
			Value: d.Method.String(),
			Usage: "sample kernel method (spherical, hemispherical)",
		},
		cli.Float64Flag{
			Name:  "radius, r",
			Value: float64(d.Radius),
			Usage: "sampling radius in view units",
		},
		cli.IntFlag{
			Name:  "samples, s",
			Value: d.SampleCount,
			Usage: "kernel sample count",
		},
		cli.StringFlag{
			Name:  "occlusion-version",
			Value: d.Version.String(),
			Usage: "occlusion function (v1, v2, v3)",
		},
		cli.Float64Flag{
			Name:  "bias-v1",
			Value: float64(d.BiasV1),
			Usage: "v1 depth bias",
		},
		cli.Float64Flag{
			Name:  "scale",
			Value: float64(d.Scale),
			Usage: "v2 occlusion scale",
		},
		cli.Float64Flag{
			Name:  "bias-v2",
			Value: float64(d.BiasV2),
			Usage: "v2 depth bias",
		},
		cli.Float64Flag{
			Name:  "power-v2",
			Value: float64(d.PowerV2),
			Usage: "v2 response exponent",
		},
		cli.Float64Flag{
			Name:  "full-threshold",
			Value: float64(d.FullOcclusionThreshold),
			Usage: "v3 depth difference at which a sample fully occludes",
		},
		cli.Float64Flag{
			Name:  "no-threshold",
			Value: float64(d.NoOcclusionThreshold),
			Usage: "v3 depth difference beyond which a sample stops occluding",
		},
		cli.Float64Flag{
			Name:  "power-v3",
			Value: float64(d.PowerV3),
			Usage: "v3 response exponent",
		},
		cli.BoolFlag{
			Name:  "blur",
			Usage: "apply the separable blur to the occlusion buffer",
		},
		cli.Float64Flag{
			Name:  "blur-spread",
			Value: float64(d.BlurSpread),
			Usage: "blur spread, sets the tap grid size",
		},
		cli.Int64Flag{
			Name:  "kernel-seed",
			Value: d.KernelSeed,
			Usage: "sample kernel random seed",
		},
		cli.StringFlag{
			Name:  "rotation-texture",
			Usage: "TIFF jitter tile from the rotation-texture command",
		},
	}
}

// loadSettings resolves the settings file and flag overrides. Only flags the
// user passed override file values.
func loadSettings(ctx *cli.Context) (config.Settings, error) {
	s := config.Default()
	s.ShowAO = true
	if path := ctx.String("config"); path != "" {
		var err error
		if s, err = config.Load(path); err != nil {
			return s, err
		}
		logger.Infof("loaded settings from %s", path)
	}
	if err := applyFlags(ctx, &s); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	s.Clamp()
	return s, nil
}

func applyFlags(ctx *cli.Context, s *config.Settings) error {
	var err error
	if ctx.IsSet("event") {
		if s.Event, err = config.ParseEvent(ctx.String("event")); err != nil {
			return err
		}
	}
	if ctx.IsSet("show-ao") {
		s.ShowAO = ctx.BoolT("show-ao")
	}
	if ctx.IsSet("method") {
		if s.Method, err = kernel.ParseMethod(ctx.String("method")); err != nil {
			return fmt.Errorf("%w: %w", config.ErrInvalidMethod, err)
		}
	}
	if ctx.IsSet("occlusion-version") {
		if s.Version, err = occlusion.ParseVersion(ctx.String("occlusion-version")); err != nil {
			return fmt.Errorf("%w: %w", config.ErrInvalidVersion, err)
		}
	}

	floats := []struct {
		name string
		dst  *float32
	}{
		{"radius", &s.Radius},
		{"bias-v1", &s.BiasV1},
		{"scale", &s.Scale},
		{"bias-v2", &s.BiasV2},
		{"power-v2", &s.PowerV2},
		{"full-threshold", &s.FullOcclusionThreshold},
		{"no-threshold", &s.NoOcclusionThreshold},
		{"power-v3", &s.PowerV3},
		{"blur-spread", &s.BlurSpread},
	}
	for _, f := range floats {
		if ctx.IsSet(f.name) {
			*f.dst = float32(ctx.Float64(f.name))
		}
	}

	if ctx.IsSet("samples") {
		s.SampleCount = ctx.Int("samples")
	}
	if ctx.IsSet("blur") {
		s.ApplyBlur = ctx.Bool("blur")
	}
	if ctx.IsSet("kernel-seed") {
		s.KernelSeed = ctx.Int64("kernel-seed")
	}
	if ctx.IsSet("rotation-texture") {
		s.RotationTexture = ctx.String("rotation-texture")
	}
	return nil
}

// attachPrograms wires the occlusion and blur programs into s.
func attachPrograms(s *config.Settings) error {
	program := occlusion.NewProgram()
	if s.RotationTexture != "" {
		tex, err := textures.LoadRotationTexture(s.RotationTexture)
		if err != nil {
			return err
		}
		program.Rotation = tex
		logger.Infof("using %dx%d rotation texture %s", tex.Width, tex.Height, s.RotationTexture)
	}
	s.SSAOProgram = program
	s.BlurProgram = blur.NewProgram()
	return nil
}
