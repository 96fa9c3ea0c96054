package occlusion

import (
	"ssao-engine/kernel"
	"ssao-engine/math"
)

// Params is the per-draw constant block. It is built fresh for every draw and
// passed by value, so no two draws share state.
type Params struct {
	Variant Variant

	Radius      float32
	SampleCount int

	// V1
	BiasV1 float32

	// V2
	Scale   float32
	BiasV2  float32
	PowerV2 float32

	// V3
	FullThreshold float32
	NoThreshold   float32
	PowerV3       float32

	Kernel [kernel.MaxSamples]math.Vec4
}

// SetKernel copies samples into the kernel array and sets SampleCount.
// Entries past kernel.MaxSamples are dropped.
func (p *Params) SetKernel(samples []math.Vec4) {
	n := copy(p.Kernel[:], samples)
	p.SampleCount = n
}
