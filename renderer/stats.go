package renderer

import (
	"time"

	"ssao-engine/rendergraph"
)

// FrameStats is the profiling record of one Render call.
type FrameStats struct {
	Frame     uint64
	Graph     rendergraph.Stats
	Nodes     int
	Triangles int
	Duration  time.Duration
}

// Pass returns the stats of the first pass named name.
func (s FrameStats) Pass(name string) (rendergraph.PassStats, bool) {
	for _, p := range s.Graph.Passes {
		if p.Name == name {
			return p, true
		}
	}
	return rendergraph.PassStats{}, false
}
