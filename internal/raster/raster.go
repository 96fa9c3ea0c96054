// Package raster draws scene geometry into the camera color, depth and
// view-space normal buffers on the CPU.
package raster

import (
	"errors"

	"github.com/chewxy/math32"

	"ssao-engine/core"
	"ssao-engine/math"
	"ssao-engine/scene"
	"ssao-engine/textures"
)

var (
	ErrNoCamera   = errors.New("raster: scene has no camera")
	ErrTargetSize = errors.New("raster: target buffers differ in size")
)

// RowRunner splits [0, height) into disjoint row bands.
type RowRunner interface {
	ForRows(height int, fn func(y0, y1 int))
}

// Target is the set of buffers one Draw call fills. Depth is window depth
// in [0, 1]; Normals are unit view-space vectors and may be nil.
type Target struct {
	Color   *textures.Texture
	Depth   *textures.DepthBuffer
	Normals *textures.NormalBuffer
}

func (t Target) size() (int, int, error) {
	if t.Color == nil || t.Depth == nil {
		return 0, 0, ErrTargetSize
	}
	w, h := t.Color.Width, t.Color.Height
	if t.Depth.Width != w || t.Depth.Height != h {
		return 0, 0, ErrTargetSize
	}
	if t.Normals != nil && (t.Normals.Width != w || t.Normals.Height != h) {
		return 0, 0, ErrTargetSize
	}
	return w, h, nil
}

// Stats counts what one Draw call submitted.
type Stats struct {
	Nodes     int
	Triangles int
}

type clipVertex struct {
	clip   math.Vec4
	normal math.Vec3
}

type triangle struct {
	screen [3]math.Vec3 // pixels x/y, window depth z
	invW   [3]float32
	normal [3]math.Vec3 // pre-divided by w
	albedo core.Color
	area   float32

	minX, maxX, minY, maxY int
}

type light struct {
	dir   math.Vec3 // view space, towards the light
	color core.Color
}

// Rasterizer is a depth-tested triangle rasterizer with Lambert shading.
type Rasterizer struct {
	rows RowRunner
}

// New returns a Rasterizer that shades row bands through rows. A nil rows
// draws on the caller goroutine.
func New(rows RowRunner) *Rasterizer {
	return &Rasterizer{rows: rows}
}

// Draw clears t and renders every visible node of s through s.Camera.
func (r *Rasterizer) Draw(s *scene.Scene, t Target) (Stats, error) {
	var stats Stats
	if s == nil || s.Camera == nil {
		return stats, ErrNoCamera
	}
	width, height, err := t.size()
	if err != nil {
		return stats, err
	}

	cam := s.Camera
	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix()

	t.Color.Clear(s.SkyColor.ToVec4())
	t.Depth.Clear(1)
	if t.Normals != nil {
		t.Normals.Clear()
	}

	frustum := scene.FrustumFromVP(cam.GetViewProjectionMatrix())
	nodes := s.GetVisibleNodes(&frustum)
	stats.Nodes = len(nodes)

	var tris []triangle
	for _, node := range nodes {
		worldView := node.GetWorldMatrix().Mul(view)
		normalMatrix := worldView.Inverse().Transpose()
		albedo := node.Mesh.SurfaceMaterial().Albedo
		tris = appendMesh(tris, node.Mesh, worldView.Mul(proj), normalMatrix, albedo, width, height)
	}
	stats.Triangles = len(tris)

	lights := make([]light, 0, len(s.Lights))
	for _, l := range s.Lights {
		lights = append(lights, light{
			dir:   view.MulDir(l.Direction.Negate()).Normalize(),
			color: l.Color.Scale(l.Intensity),
		})
	}

	shade := func(y0, y1 int) {
		for i := range tris {
			rasterize(&tris[i], t, y0, y1, s.Ambient, lights)
		}
	}
	if r.rows == nil {
		shade(0, height)
	} else {
		r.rows.ForRows(height, shade)
	}
	return stats, nil
}

func appendMesh(tris []triangle, mesh *scene.Mesh, mvp, normalMatrix math.Mat4, albedo core.Color, width, height int) []triangle {
	verts := make([]clipVertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = clipVertex{
			clip:   v.Position.ToVec4(1).MulMat(mvp),
			normal: normalMatrix.MulDir(v.Normal),
		}
	}

	var poly [4]clipVertex
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(max(i0, i1, i2)) >= len(verts) {
			continue
		}
		n := clipNear([3]clipVertex{verts[i0], verts[i1], verts[i2]}, &poly)
		for k := 1; k+1 < n; k++ {
			if tri, ok := setup(poly[0], poly[k], poly[k+1], albedo, width, height); ok {
				tris = append(tris, tri)
			}
		}
	}
	return tris
}

// clipNear clips a triangle against z >= -w and writes the resulting
// polygon (0, 3 or 4 vertices) into out.
func clipNear(in [3]clipVertex, out *[4]clipVertex) int {
	dist := func(v clipVertex) float32 { return v.clip.Z + v.clip.W }
	n := 0
	for i := 0; i < 3; i++ {
		a, b := in[i], in[(i+1)%3]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out[n] = a
			n++
		}
		if (da >= 0) != (db >= 0) {
			f := da / (da - db)
			out[n] = clipVertex{
				clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(f)),
				normal: a.normal.Lerp(b.normal, f),
			}
			n++
		}
	}
	return n
}

func setup(a, b, c clipVertex, albedo core.Color, width, height int) (triangle, bool) {
	tri := triangle{albedo: albedo}
	for i, v := range [3]clipVertex{a, b, c} {
		if v.clip.W <= 0 {
			return tri, false
		}
		iw := 1 / v.clip.W
		ndc := v.clip.ToVec3().Mul(iw)
		tri.screen[i] = math.Vec3{
			X: (ndc.X + 1) * 0.5 * float32(width),
			Y: (1 - ndc.Y) * 0.5 * float32(height),
			Z: ndc.Z*0.5 + 0.5,
		}
		tri.invW[i] = iw
		tri.normal[i] = v.normal.Mul(iw)
	}

	s := tri.screen
	tri.area = edge(s[0], s[1], s[2].X, s[2].Y)
	if math32.Abs(tri.area) < 1e-8 {
		return tri, false
	}

	minX := min(s[0].X, s[1].X, s[2].X)
	maxX := max(s[0].X, s[1].X, s[2].X)
	minY := min(s[0].Y, s[1].Y, s[2].Y)
	maxY := max(s[0].Y, s[1].Y, s[2].Y)

	// Pixel x covers the sample point x+0.5.
	tri.minX = max(int(math32.Ceil(minX-0.5)), 0)
	tri.maxX = min(int(math32.Floor(maxX-0.5)), width-1)
	tri.minY = max(int(math32.Ceil(minY-0.5)), 0)
	tri.maxY = min(int(math32.Floor(maxY-0.5)), height-1)
	return tri, tri.minX <= tri.maxX && tri.minY <= tri.maxY
}

func edge(a, b math.Vec3, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

func rasterize(tri *triangle, t Target, y0, y1 int, ambient core.Color, lights []light) {
	lo := max(tri.minY, y0)
	hi := min(tri.maxY, y1-1)
	s := tri.screen

	for y := lo; y <= hi; y++ {
		py := float32(y) + 0.5
		for x := tri.minX; x <= tri.maxX; x++ {
			px := float32(x) + 0.5
			b0 := edge(s[1], s[2], px, py) / tri.area
			b1 := edge(s[2], s[0], px, py) / tri.area
			b2 := 1 - b0 - b1
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			depth := b0*s[0].Z + b1*s[1].Z + b2*s[2].Z
			if depth < 0 || depth > 1 || depth >= t.Depth.At(x, y) {
				continue
			}

			iw := b0*tri.invW[0] + b1*tri.invW[1] + b2*tri.invW[2]
			n := tri.normal[0].Mul(b0).Add(tri.normal[1].Mul(b1)).Add(tri.normal[2].Mul(b2)).Div(iw).Normalize()

			t.Depth.Set(x, y, depth)
			if t.Normals != nil {
				t.Normals.Set(x, y, n)
			}
			t.Color.Set(x, y, lambert(tri.albedo, n, ambient, lights).ToVec4())
		}
	}
}

func lambert(albedo core.Color, n math.Vec3, ambient core.Color, lights []light) core.Color {
	c := ambient
	for _, l := range lights {
		if d := n.Dot(l.dir); d > 0 {
			c = c.Add(l.color.Scale(d))
		}
	}
	c.A = 1
	return albedo.Modulate(c)
}
