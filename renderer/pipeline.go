package renderer

import (
	"errors"

	"ssao-engine/config"
	"ssao-engine/log"
	"ssao-engine/rendergraph"
)

var logger = log.New("renderer")

var (
	ErrNoScene = errors.New("renderer: no scene or camera")
	ErrSize    = errors.New("renderer: target size must be positive")
)

// PassInput lists the camera buffers a pass needs the pipeline to produce.
type PassInput int

const (
	InputNone  PassInput = 0
	InputDepth PassInput = 1 << iota
	InputNormal
	InputColor
)

// RenderPass records graph passes for one frame.
type RenderPass interface {
	Name() string
	Event() config.Event
	Input() PassInput
	RecordRenderGraph(g *rendergraph.Graph, frame *rendergraph.FrameData) error
}

// Pipeline accepts passes for the frame being built.
type Pipeline interface {
	EnqueuePass(pass RenderPass)
}

// Feature is a pluggable renderer extension. Create runs once when the
// feature is added; AddRenderPasses runs every frame.
type Feature interface {
	Create()
	AddRenderPasses(pipeline Pipeline)
}
