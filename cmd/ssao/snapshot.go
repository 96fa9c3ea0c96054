package main

import (
	"ssao-engine/config"
	"ssao-engine/renderer"
	"ssao-engine/rendergraph"
	"ssao-engine/textures"
)

const snapshotPassName = "Snapshot Color"

// snapshotFeature copies the camera color into a CPU texture before any
// later pass of the same event overwrites it.
type snapshotFeature struct {
	event config.Event
	dst   *textures.Texture
}

func newSnapshotFeature(event config.Event, width, height int) *snapshotFeature {
	return &snapshotFeature{
		event: event,
		dst: textures.New(textures.Desc{
			Name:   snapshotPassName,
			Width:  width,
			Height: height,
			Format: textures.FormatRGBA8,
		}),
	}
}

func (f *snapshotFeature) Create() {}

func (f *snapshotFeature) AddRenderPasses(p renderer.Pipeline) {
	p.EnqueuePass(f)
}

func (f *snapshotFeature) Name() string { return snapshotPassName }

func (f *snapshotFeature) Event() config.Event { return f.event }

func (f *snapshotFeature) Input() renderer.PassInput { return renderer.InputColor }

func (f *snapshotFeature) RecordRenderGraph(g *rendergraph.Graph, frame *rendergraph.FrameData) error {
	dst := g.ImportTexture(f.dst)
	g.AddCopyPass(frame.Resources.CameraColor, dst)
	return nil
}
