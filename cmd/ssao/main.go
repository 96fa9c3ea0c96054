package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ssao"
	app.Usage = "screen-space ambient occlusion on a software G-buffer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame and write the buffers as PNG",
			Description: `
Rasterize the scene into color, depth and normal buffers, run the SSAO feature
over them and write the published frame to --out.

Without --gltf or --obj a built-in demo scene is used.`,
			Flags:  renderFlags(),
			Action: RenderFrame,
		},
		{
			Name:      "rotation-texture",
			Usage:     "generate a tiled random rotation texture",
			ArgsUsage: "[output.tiff]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "size",
					Value: 4,
					Usage: "tile edge length in texels",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed",
				},
			},
			Action: GenerateRotationTexture,
		},
		{
			Name:  "view",
			Usage: "render the scene interactively in a window",
			Description: `
Keys: Space toggles occlusion, B blur, M kernel method, 1/2/3 occlusion
function, P prints frame statistics, arrows orbit the camera, Escape quits.`,
			Flags:  viewFlags(),
			Action: View,
		},
		{
			Name:      "config",
			Usage:     "print the effective settings as JSON or save them",
			ArgsUsage: "[settings.json]",
			Flags:     settingsFlags(),
			Action:    PrintConfig,
		},
	}

	return app
}
