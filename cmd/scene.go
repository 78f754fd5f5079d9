package cmd

import (
	"errors"

	"github.com/achilleasa/glint/asset/scene/reader"
	"github.com/achilleasa/glint/bvh"
	"github.com/urfave/cli"
)

// Display scene and BVH information for an xml or compiled scene.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	for _, cam := range sc.Cameras {
		logger.Info(cam)
	}

	tree := bvh.Build(sc, bvh.Options{LeafItems: ctx.Int("leaf-items")})
	logger.Noticef("bvh information:\n%s", tree.StatsTable())

	return nil
}
