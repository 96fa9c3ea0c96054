package scene

import (
	"github.com/chewxy/math32"

	"ssao-engine/core"
	"ssao-engine/math"
)

var primitiveColor = core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertices := make([]core.Vertex, 0, (rings+1)*(segments+1))
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
				Color:    primitiveColor,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateCylinder generates a capped cylinder mesh
func CreateCylinder(radius, height float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []core.Vertex
	var indices []uint32
	halfHeight := height / 2

	for i := 0; i <= segments; i++ {
		sinT, cosT := sincos(float32(i) * 2 * math32.Pi / float32(segments))
		normal := math.Vec3{X: cosT, Z: sinT}
		u := float32(i) / float32(segments)

		vertices = append(vertices,
			core.Vertex{Position: math.Vec3{X: cosT * radius, Y: -halfHeight, Z: sinT * radius}, Normal: normal, UV: math.Vec2{X: u}, Color: primitiveColor},
			core.Vertex{Position: math.Vec3{X: cosT * radius, Y: halfHeight, Z: sinT * radius}, Normal: normal, UV: math.Vec2{X: u, Y: 1}, Color: primitiveColor},
		)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base+2, base+1, base+3)
	}

	for _, y := range []float32{halfHeight, -halfHeight} {
		normal := math.Vec3Up
		if y < 0 {
			normal = math.Vec3Down
		}
		center := uint32(len(vertices))
		vertices = append(vertices, core.Vertex{Position: math.Vec3{Y: y}, Normal: normal, UV: math.Vec2{X: 0.5, Y: 0.5}, Color: primitiveColor})
		for i := 0; i <= segments; i++ {
			sinT, cosT := sincos(float32(i) * 2 * math32.Pi / float32(segments))
			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: cosT * radius, Y: y, Z: sinT * radius},
				Normal:   normal,
				UV:       math.Vec2{X: cosT*0.5 + 0.5, Y: sinT*0.5 + 0.5},
				Color:    primitiveColor,
			})
		}
		for i := uint32(0); i < uint32(segments); i++ {
			if y > 0 {
				indices = append(indices, center, center+1+i, center+2+i)
			} else {
				indices = append(indices, center, center+2+i, center+1+i)
			}
		}
	}

	return CreateMeshFromData("Cylinder", vertices, indices)
}

// CreatePlane generates a flat plane mesh in the XZ plane facing +Y
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: -halfW + u*width, Z: -halfD + v*depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
				Color:    primitiveColor,
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}

func sincos(a float32) (float32, float32) {
	return math32.Sin(a), math32.Cos(a)
}
