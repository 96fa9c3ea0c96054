package scene

import "ssao-engine/core"

// Material describes the diffuse surface color of a mesh.
type Material struct {
	Name   string
	Albedo core.Color
}

// DefaultMaterial returns a plain light-gray matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:   "Default",
		Albedo: core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
	}
}

func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{Name: name, Albedo: albedo}
}
