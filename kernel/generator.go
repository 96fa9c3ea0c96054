package kernel

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/chewxy/math32"

	"ssao-engine/math"
)

// MaxSamples is the capacity of the kernel storage. It is allocated once and
// never grows.
const MaxSamples = 128

// degenerateLength is the squared length under which a raw draw is rejected
// before normalization.
const degenerateLength = 1e-8

var (
	ErrSampleCountOutOfRange = errors.New("kernel: sample count out of range")
	ErrUnknownMethod         = errors.New("kernel: unknown distribution method")
)

// Generator produces sample kernels and memoizes the last one by
// (sample count, method). It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	samples [MaxSamples]math.Vec4

	count  int
	method Method
	valid  bool

	generations uint64
}

// NewGenerator returns a generator whose draws are fully determined by seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Get returns the first sampleCount kernel entries for method. A call with
// the same key as the previous one returns the memoized kernel; a new key
// regenerates slots [0, sampleCount) in place. The returned slice is a copy.
func (g *Generator) Get(sampleCount int, method Method) ([]math.Vec4, error) {
	if sampleCount < 1 || sampleCount > MaxSamples {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrSampleCountOutOfRange, sampleCount, MaxSamples)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.valid || g.count != sampleCount || g.method != method {
		switch method {
		case Spherical:
			g.fillSpherical(sampleCount)
		case Hemispherical:
			g.fillHemispherical(sampleCount)
		}
		g.count = sampleCount
		g.method = method
		g.valid = true
		g.generations++
	}

	out := make([]math.Vec4, sampleCount)
	copy(out, g.samples[:sampleCount])
	return out, nil
}

// Invalidate drops the memoized kernel so the next Get regenerates it.
func (g *Generator) Invalidate() {
	g.mu.Lock()
	g.valid = false
	g.mu.Unlock()
}

// Generations returns how many times a kernel has been (re)generated.
func (g *Generator) Generations() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generations
}

func (g *Generator) fillSpherical(n int) {
	for i := 0; i < n; i++ {
		dir := g.direction(true)
		g.samples[i] = dir.ToVec4(1)
	}
}

func (g *Generator) fillHemispherical(n int) {
	for i := 0; i < n; i++ {
		sample := g.direction(false).Mul(g.rng.Float32())

		// Quadratic falloff pulls most samples close to the origin.
		scale := float32(i) / float32(n)
		sample = sample.Mul(math.Lerp(0.1, 1.0, scale*scale))

		g.samples[i] = sample.ToVec4(1)
	}
}

// direction draws a random unit vector. With fullSphere unset the z component
// is drawn from [0, 1] instead of [-1, 1].
func (g *Generator) direction(fullSphere bool) math.Vec3 {
	for {
		v := math.Vec3{
			X: g.rng.Float32()*2 - 1,
			Y: g.rng.Float32()*2 - 1,
			Z: g.rng.Float32(),
		}
		if fullSphere {
			v.Z = v.Z*2 - 1
		}

		if lenSq := v.LengthSqr(); lenSq > degenerateLength {
			return v.Mul(1 / math32.Sqrt(lenSq))
		}
	}
}
