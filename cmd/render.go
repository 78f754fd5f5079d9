package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/achilleasa/glint/asset/scene/reader"
	"github.com/achilleasa/glint/asset/writer"
	"github.com/achilleasa/glint/bvh"
	"github.com/achilleasa/glint/renderer"
	"github.com/achilleasa/glint/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render one frame for each scene camera and write it to the image file
// named by the camera.
func RenderFrames(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	scheduler, err := schedulerByName(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	tree := bvh.Build(sc, bvh.Options{LeafItems: ctx.Int("leaf-items")})
	logger.Infof("bvh information:\n%s", tree.StatsTable())

	maxDepth := ctx.Int("max-depth")
	opts := renderer.Options{
		NumWorkers:    ctx.Int("workers"),
		MaxDepth:      maxDepth,
		OverrideDepth: maxDepth >= 0,
	}
	r, err := renderer.NewDefault(sc, tree, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	outDir := ctx.String("out-dir")
	for camIndex, cam := range sc.Cameras {
		img, err := r.Render(camIndex)
		if err != nil {
			return err
		}

		imgFile := cam.ImageName
		if imgFile == "" {
			imgFile = fmt.Sprintf("camera-%02d.png", camIndex)
		}
		imgFile = filepath.Join(outDir, imgFile)
		if err = writer.WriteFrame(img, imgFile); err != nil {
			return err
		}
		logger.Noticef("wrote %s", imgFile)

		displayFrameStats(r.Stats())
	}

	return nil
}

func schedulerByName(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown block scheduler %q", name)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d rays", stats.PrimaryRays), "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics for %s\n%s", stats.Camera, buf.String())
}
