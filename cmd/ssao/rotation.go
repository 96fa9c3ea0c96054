package main

import (
	"errors"

	"github.com/urfave/cli"

	"ssao-engine/textures"
)

// GenerateRotationTexture writes a random rotation tile as a 16-bit TIFF.
func GenerateRotationTexture(ctx *cli.Context) error {
	setupLogging(ctx)

	size := ctx.Int("size")
	if size <= 0 {
		return errors.New("rotation texture size must be positive")
	}
	path := ctx.Args().First()
	if path == "" {
		path = textures.RotationTextureName(size)
	}

	tex := textures.GenerateRotationTexture(size, ctx.Int64("seed"))
	if err := textures.SaveRotationTexture(path, tex); err != nil {
		return err
	}
	logger.Noticef("wrote %dx%d rotation texture to %s", size, size, path)
	return nil
}
