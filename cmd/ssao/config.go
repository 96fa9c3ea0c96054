package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"
)

// PrintConfig prints the resolved settings, or saves them when a path is given.
func PrintConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if path := ctx.Args().First(); path != "" {
		if err := settings.Save(path); err != nil {
			return err
		}
		logger.Noticef("saved settings to %s", path)
		return nil
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(data))
	return nil
}
