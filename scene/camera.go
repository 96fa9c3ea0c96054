package scene

import (
	"github.com/chewxy/math32"

	"ssao-engine/math"
)

// Camera is a perspective camera aimed at a target point.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	invProjMatrix    math.Mat4
	viewProjMatrix   math.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    math.Vec3{X: 0, Y: 0, Z: 5},
		Target:      math.Vec3Zero,
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) Translate(delta math.Vec3) {
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
	c.dirty = true
}

func (c *Camera) LookAt(target, up math.Vec3) {
	c.Target = target
	c.Up = up
	c.dirty = true
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	c.update()
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	c.update()
	return c.projectionMatrix
}

// GetInverseProjectionMatrix maps clip space back to view space.
func (c *Camera) GetInverseProjectionMatrix() math.Mat4 {
	c.update()
	return c.invProjMatrix
}

func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	c.update()
	return c.viewProjMatrix
}

func (c *Camera) GetForward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.viewMatrix = math.Mat4LookAt(c.Position, c.Target, c.Up)
	c.projectionMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.invProjMatrix = c.projectionMatrix.Inverse()
	c.viewProjMatrix = c.viewMatrix.Mul(c.projectionMatrix)
	c.dirty = false
}

// OrbitCamera circles a target at a fixed distance.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target math.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Distance: distance,
		Pitch:    0.3,
	}
	c.Camera = *NewCamera(fov, aspectRatio, 0.1, 100.0)
	c.Target = target
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = math.Clamp(c.Pitch, -1.5, 1.5)

	cosPitch := math32.Cos(c.Pitch)
	offset := math.Vec3{
		X: c.Distance * cosPitch * math32.Sin(c.Yaw),
		Y: c.Distance * math32.Sin(c.Pitch),
		Z: c.Distance * cosPitch * math32.Cos(c.Yaw),
	}
	c.Position = c.Target.Add(offset)
	c.dirty = true
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 0.5 {
		c.Distance = 0.5
	}
	c.UpdatePosition()
}
