package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"ssao-engine/renderer"
)

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Draws", "Texture writes", "Culled", "Time"})
	for _, p := range stats.Graph.Passes {
		table.Append([]string{
			p.Name,
			fmt.Sprintf("%d", p.Draws),
			fmt.Sprintf("%d", p.TextureWrites),
			fmt.Sprintf("%t", p.Culled),
			p.Duration.String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("frame %d", stats.Frame),
		fmt.Sprintf("%d", stats.Graph.Draws),
		fmt.Sprintf("%d", stats.Graph.TextureWrites),
		fmt.Sprintf("%d triangles", stats.Triangles),
		stats.Duration.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
