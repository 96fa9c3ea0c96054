package scene

import (
	"ssao-engine/core"
	"ssao-engine/math"
)

// Scene manages a collection of nodes, a directional light and the active camera
type Scene struct {
	Root     *Node
	Camera   *Camera
	Lights   []*Light
	Ambient  core.Color
	SkyColor core.Color
}

// Light is a directional light. Direction points from the light into the scene.
type Light struct {
	Direction math.Vec3
	Color     core.Color
	Intensity float32
}

func NewScene() *Scene {
	return &Scene{
		Root:     NewNode("Root"),
		Lights:   make([]*Light, 0),
		Ambient:  core.Color{R: 0.25, G: 0.25, B: 0.25, A: 1.0},
		SkyColor: core.Color{R: 0.5, G: 0.7, B: 1.0, A: 1.0},
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// GetVisibleNodes returns visible mesh nodes whose bounds touch the frustum.
// A nil frustum disables culling.
func (s *Scene) GetVisibleNodes(frustum *Frustum) []*Node {
	var visible []*Node
	s.Root.Traverse(func(node *Node) {
		if !node.Visible || node.Mesh == nil {
			return
		}
		if frustum != nil && !ComputeAABB(node.Mesh, node.GetWorldMatrix()).IntersectsFrustum(frustum) {
			return
		}
		visible = append(visible, node)
	})
	return visible
}

// Bounds returns the world-space box around every visible mesh node, false
// when the scene holds no geometry.
func (s *Scene) Bounds() (AABB, bool) {
	var box AABB
	found := false
	for _, node := range s.GetVisibleNodes(nil) {
		b := ComputeAABB(node.Mesh, node.GetWorldMatrix())
		if !found {
			box, found = b, true
			continue
		}
		box = box.Extend(b.Min).Extend(b.Max)
	}
	return box, found
}

// CreateDemoScene builds a ground plane with a few primitives packed close
// together so contact creases show up in the occlusion buffer.
func CreateDemoScene(aspect float32) (*Scene, *OrbitCamera) {
	s := NewScene()

	orbit := NewOrbitCamera(math.Vec3{X: 0, Y: 0.6, Z: 0}, 6, 1.0472, aspect) // 60 degrees FOV
	orbit.Yaw = 0.5
	orbit.UpdatePosition()
	s.SetCamera(&orbit.Camera)

	s.AddLight(&Light{
		Direction: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 0.9,
	})

	ground := CreatePlane(12, 12, 4)
	ground.Material = NewMaterial("Ground", core.Color{R: 0.75, G: 0.75, B: 0.72, A: 1})
	s.AddNode(NewMeshNode("Ground", ground, math.Vec3Zero))

	cube := CreateCube(1)
	cube.Material = NewMaterial("Red", core.Color{R: 0.8, G: 0.3, B: 0.25, A: 1})
	s.AddNode(NewMeshNode("Cube", cube, math.Vec3{X: 0, Y: 0.5, Z: 0}))

	top := NewMeshNode("CubeTop", CreateCube(0.5), math.Vec3{X: 0.1, Y: 1.25, Z: 0.1})
	top.Rotate(math.Vec3Up, 0.6)
	s.AddNode(top)

	sphere := CreateSphere(0.6, 32, 16)
	sphere.Material = NewMaterial("Blue", core.Color{R: 0.3, G: 0.45, B: 0.85, A: 1})
	s.AddNode(NewMeshNode("Sphere", sphere, math.Vec3{X: 1.15, Y: 0.6, Z: 0.3}))

	pillar := CreateCylinder(0.35, 1.8, 24)
	pillar.Material = NewMaterial("Green", core.Color{R: 0.35, G: 0.7, B: 0.35, A: 1})
	s.AddNode(NewMeshNode("Pillar", pillar, math.Vec3{X: -1.1, Y: 0.9, Z: -0.4}))

	return s, orbit
}
