package occlusion

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"ssao-engine/kernel"
	"ssao-engine/math"
	"ssao-engine/textures"
)

var (
	ErrMissingDepth       = errors.New("occlusion: depth buffer is required")
	ErrMissingNormals     = errors.New("occlusion: normal buffer is required for hemispherical sampling")
	ErrTargetSize         = errors.New("occlusion: target size does not match depth buffer")
	ErrInvalidSampleCount = errors.New("occlusion: invalid sample count")
)

// Inputs are the per-frame buffers and camera matrices an estimate reads.
type Inputs struct {
	Depth   *textures.DepthBuffer
	Normals *textures.NormalBuffer

	Projection    math.Mat4
	InvProjection math.Mat4
}

// RowRunner executes fn over disjoint row bands of [0, height).
type RowRunner interface {
	ForRows(height int, fn func(y0, y1 int))
}

type serialRows struct{}

func (serialRows) ForRows(height int, fn func(y0, y1 int)) { fn(0, height) }

// basisFunc orients a kernel sample around the shaded point.
type basisFunc func(sample, normal, random math.Vec3) math.Vec3

// specialization is one compiled permutation of the estimator.
type specialization struct {
	basis       basisFunc
	score       scoreFunc
	needsNormal bool
}

// Program is the occlusion estimator. Its specialization table holds one
// entry per (method, version) pair.
type Program struct {
	// Rotation, when set, replaces the per-pixel hash with a tiled jitter
	// texture (see textures.GenerateRotationTexture).
	Rotation *textures.Texture

	table map[Variant]specialization
}

func NewProgram() *Program {
	bases := map[kernel.Method]basisFunc{
		kernel.Spherical:     reflectBasis,
		kernel.Hemispherical: tangentBasis,
	}
	scores := map[Version]scoreFunc{
		V1: ScoreV1,
		V2: ScoreV2,
		V3: ScoreV3,
	}

	p := &Program{table: make(map[Variant]specialization, len(bases)*len(scores))}
	for method, basis := range bases {
		for version, score := range scores {
			p.table[Variant{Method: method, Version: version}] = specialization{
				basis:       basis,
				score:       score,
				needsNormal: method == kernel.Hemispherical,
			}
		}
	}
	return p
}

// Variants returns the number of compiled specializations.
func (p *Program) Variants() int {
	return len(p.table)
}

// Draw evaluates the estimator for every texel of dst and writes the
// visibility (1 - occlusion) into RGB with A = 1. rows may be nil.
func (p *Program) Draw(dst *textures.Texture, in Inputs, params Params, rows RowRunner) error {
	impl, ok := p.table[params.Variant]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, params.Variant)
	}
	if params.SampleCount < 1 || params.SampleCount > kernel.MaxSamples {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, params.SampleCount)
	}
	if in.Depth == nil {
		return ErrMissingDepth
	}
	if impl.needsNormal && in.Normals == nil {
		return ErrMissingNormals
	}
	if dst.Width != in.Depth.Width || dst.Height != in.Depth.Height {
		return fmt.Errorf("%w: target %dx%d, depth %dx%d", ErrTargetSize, dst.Width, dst.Height, in.Depth.Width, in.Depth.Height)
	}
	if rows == nil {
		rows = serialRows{}
	}

	// Rows write disjoint texels of dst; everything else is read-only.
	rows.ForRows(dst.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < dst.Width; x++ {
				v := p.shade(impl, &in, &params, x, y)
				dst.Set(x, y, math.Vec4{X: v, Y: v, Z: v, W: 1})
			}
		}
	})
	return nil
}

// Estimate returns the visibility at a single pixel.
func (p *Program) Estimate(in Inputs, params Params, x, y int) (float32, error) {
	impl, ok := p.table[params.Variant]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownVariant, params.Variant)
	}
	if in.Depth == nil {
		return 0, ErrMissingDepth
	}
	if impl.needsNormal && in.Normals == nil {
		return 0, ErrMissingNormals
	}
	return p.shade(impl, &in, &params, x, y), nil
}

func (p *Program) shade(impl specialization, in *Inputs, params *Params, x, y int) float32 {
	w, h := in.Depth.Width, in.Depth.Height
	depth := in.Depth.At(x, y)
	if depth >= backgroundDepth {
		return 1
	}

	origin := ViewPosition(in.InvProjection, x, y, w, h, depth)

	normal := math.Vec3Front
	if in.Normals != nil {
		if n := in.Normals.At(x, y); n.LengthSqr() > 0 {
			normal = n
		}
	}
	random := p.randomVector(x, y)

	var occlusion float32
	for i := 0; i < params.SampleCount; i++ {
		offset := impl.basis(params.Kernel[i].ToVec3(), normal, random)
		sample := origin.Add(offset.Mul(params.Radius))

		clip := sample.ToVec4(1).MulMat(in.Projection)
		if clip.W <= 0 {
			continue
		}
		sx, sy := NDCToPixel(clip.ToVec3DivW(), w, h)
		sx = math.ClampInt(sx, 0, w-1)
		sy = math.ClampInt(sy, 0, h-1)

		scene := ViewPosition(in.InvProjection, sx, sy, w, h, in.Depth.At(sx, sy))
		occlusion += impl.score(Tap{OriginZ: origin.Z, SampleZ: sample.Z, SceneZ: scene.Z}, params)
	}

	return 1 - occlusion/float32(params.SampleCount)
}

func (p *Program) randomVector(x, y int) math.Vec3 {
	if p.Rotation != nil {
		return textures.RotationAt(p.Rotation, x, y).Normalize()
	}
	return hashVector(x, y)
}

// hashVector derives a unit XY vector from the pixel coordinates.
func hashVector(x, y int) math.Vec3 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16

	angle := float32(h) / float32(1<<32) * 2 * math32.Pi
	return math.Vec3{X: math32.Cos(angle), Y: math32.Sin(angle)}
}

func reflectBasis(sample, _, random math.Vec3) math.Vec3 {
	return sample.Reflect(random)
}

// tangentBasis builds a Gram-Schmidt TBN frame from the normal and the
// random vector and moves the sample into it.
func tangentBasis(sample, normal, random math.Vec3) math.Vec3 {
	tangent := random.Sub(normal.Mul(random.Dot(normal)))
	if tangent.LengthSqr() < 1e-8 {
		// random is parallel to the normal; any perpendicular axis will do.
		axis := math.Vec3Right
		if math32.Abs(normal.X) > 0.9 {
			axis = math.Vec3Up
		}
		tangent = axis.Sub(normal.Mul(axis.Dot(normal)))
	}
	tangent = tangent.Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Mul(sample.X).Add(bitangent.Mul(sample.Y)).Add(normal.Mul(sample.Z))
}
