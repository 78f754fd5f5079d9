package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/glint/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the host cpu that tracers will run on.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	dev, err := cpu.Probe()
	if err != nil {
		logger.Warningf("%s; using defaults", err.Error())
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Cores", "Speed", "Total memory", "Available memory"})
	table.Append([]string{
		dev.Name,
		fmt.Sprintf("%d", dev.Cores),
		fmt.Sprintf("%d MHz", dev.Speed),
		fmtBytes(dev.TotalMemory),
		fmtBytes(dev.AvailableMemory),
	})
	table.Render()

	logger.Noticef("available devices\n%s", buf.String())
	return nil
}

func fmtBytes(v uint64) string {
	switch {
	case v == 0:
		return "n/a"
	case v < 1<<20:
		return fmt.Sprintf("%d kb", v>>10)
	case v < 1<<30:
		return fmt.Sprintf("%d mb", v>>20)
	}
	return fmt.Sprintf("%.1f gb", float64(v)/float64(1<<30))
}
