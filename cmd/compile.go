package cmd

import (
	"errors"
	"strings"

	"github.com/achilleasa/glint/asset/scene/reader"
	"github.com/achilleasa/glint/asset/scene/writer"
	"github.com/urfave/cli"
)

// Compile xml scenes to the binary zip format.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(strings.ToLower(sceneFile), ".xml") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile)
		if err != nil {
			return err
		}

		logger.Noticef("scene information:\n%s", sc.Stats())

		zipFile := sceneFile[:len(sceneFile)-len(".xml")] + ".zip"
		if err = writer.WriteScene(sc, zipFile); err != nil {
			return err
		}
	}

	return nil
}
