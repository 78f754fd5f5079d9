package main

import (
	"os"

	"github.com/achilleasa/glint/cmd"
	"github.com/achilleasa/glint/log"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("glint").Errorf("error: %s", err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	leafItemsFlag := cli.IntFlag{
		Name:  "leaf-items",
		Value: 1,
		Usage: "max number of primitives stored in a bvh leaf",
	}

	app := cli.NewApp()
	app.Name = "glint"
	app.Usage = "render scenes using whitted-style ray tracing"
	app.Version = "0.0.1"
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
			Name:  "compile",
			Usage: "compile xml scene definitions into a binary compressed format",
			Description: `
Parse a scene definition from an xml file, resolve vertex and material
references and flatten meshes into triangles.

The compiled scene is written to a zip archive next to the source file which
can be supplied as an argument to the render and info commands.`,
			ArgsUsage: "scene_file1.xml scene_file2.xml ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "display scene and bvh statistics",
			ArgsUsage: "scene_file",
			Flags:     []cli.Flag{leafItemsFlag},
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list-devices",
			Usage:  "list the host cpu used for rendering",
			Action: cmd.ListDevices,
		},
		{
			Name:  "render",
			Usage: "render a frame for each scene camera",
			Description: `
Render one frame per camera defined by the scene. Each frame is written to the
image file named by its camera; the output format (ppm or png) is selected by
the file extension.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of tracer workers; 0 starts one worker per logical core",
				},
				leafItemsFlag,
				cli.IntFlag{
					Name:  "max-depth",
					Value: -1,
					Usage: "max mirror recursion depth; -1 uses the value defined by the scene",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler to use (naive or perfect)",
				},
				cli.StringFlag{
					Name:  "out-dir, o",
					Value: ".",
					Usage: "folder for the rendered frames",
				},
			},
			Action: cmd.RenderFrames,
		},
	}

	return app
}
