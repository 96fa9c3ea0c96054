package occlusion

import "ssao-engine/math"

// minRangeDelta keeps the V2 range attenuation finite when the scene depth
// matches the origin.
const minRangeDelta = 1e-4

// Tap is the depth information gathered for one kernel sample. All values
// are view-space z, negative in front of the camera.
type Tap struct {
	OriginZ float32 // shaded point
	SampleZ float32 // offset kernel point
	SceneZ  float32 // reconstructed scene depth under the projected sample
}

// Diff is positive when the scene lies closer to the camera than the sample.
func (t Tap) Diff() float32 {
	return t.SceneZ - t.SampleZ
}

type scoreFunc func(t Tap, p *Params) float32

// ScoreV1 returns 1 when the scene occludes the sample by more than BiasV1
// and the occluder is within Radius of the origin.
func ScoreV1(t Tap, p *Params) float32 {
	if t.Diff() > p.BiasV1 && math.Abs(t.OriginZ-t.SceneZ) <= p.Radius {
		return 1
	}
	return 0
}

// ScoreV2 is a continuous version of ScoreV1.
func ScoreV2(t Tap, p *Params) float32 {
	occlusion := math.Pow(math.Saturate((t.Diff()-p.BiasV2)*p.Scale/p.Radius), p.PowerV2)

	delta := math.Abs(t.OriginZ - t.SceneZ)
	if delta < minRangeDelta {
		delta = minRangeDelta
	}
	return occlusion * math.Smoothstep(0, 1, p.Radius/delta)
}

// ScoreV3 ramps from full occlusion at FullThreshold down to none at
// NoThreshold.
func ScoreV3(t Tap, p *Params) float32 {
	d := t.Diff()
	switch {
	case d <= 0:
		return 0
	case d <= p.FullThreshold:
		return 1
	case d >= p.NoThreshold:
		return 0
	}
	return math.Pow(1-(d-p.FullThreshold)/(p.NoThreshold-p.FullThreshold), p.PowerV3)
}
