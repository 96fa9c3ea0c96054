package scene

import "ssao-engine/math"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection matrix.
// Points are row vectors (clip = p * vp), so clip component j is the dot
// product of p with column j of vp.
func FrustumFromVP(vp math.Mat4) Frustum {
	col := func(j int) math.Vec4 {
		return math.Vec4{X: vp[0][j], Y: vp[1][j], Z: vp[2][j], W: vp[3][j]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = normalizePlane(c3.Add(c0))
	f.Planes[1] = normalizePlane(c3.Sub(c0))
	f.Planes[2] = normalizePlane(c3.Add(c1))
	f.Planes[3] = normalizePlane(c3.Sub(c1))
	f.Planes[4] = normalizePlane(c3.Add(c2))
	f.Planes[5] = normalizePlane(c3.Sub(c2))
	return f
}

func normalizePlane(p math.Vec4) Plane {
	n := p.ToVec3()
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Div(l), D: p.W / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Extend grows the box to contain p.
func (box AABB) Extend(p math.Vec3) AABB {
	box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
	box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
	return box
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// For each plane the corner most aligned with the normal is tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := range f.Planes {
		p := f.Planes[i]
		pv := box.Max
		if p.Normal.X < 0 {
			pv.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			pv.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			pv.Z = box.Min.Z
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
func ComputeAABB(mesh *Mesh, worldMatrix math.Mat4) AABB {
	if mesh.HasLocalAABB {
		return transformAABB(mesh.LocalAABB, worldMatrix)
	}
	if len(mesh.Vertices) == 0 {
		return AABB{}
	}
	first := worldMatrix.MulVec3(mesh.Vertices[0].Position)
	out := AABB{Min: first, Max: first}
	for _, v := range mesh.Vertices[1:] {
		out = out.Extend(worldMatrix.MulVec3(v.Position))
	}
	return out
}

func transformAABB(local AABB, m math.Mat4) AABB {
	mn, mx := local.Min, local.Max
	first := m.MulVec3(mn)
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		c := mn
		if i&1 != 0 {
			c.X = mx.X
		}
		if i&2 != 0 {
			c.Y = mx.Y
		}
		if i&4 != 0 {
			c.Z = mx.Z
		}
		out = out.Extend(m.MulVec3(c))
	}
	return out
}
