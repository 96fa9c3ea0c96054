package raster

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"ssao-engine/core"
	"ssao-engine/internal/parallel"
	"ssao-engine/math"
	"ssao-engine/occlusion"
	"ssao-engine/scene"
	"ssao-engine/textures"
)

const size = 48

func newTarget(w, h int) Target {
	return Target{
		Color:   textures.New(textures.Desc{Name: "color", Width: w, Height: h, Format: textures.FormatRGBA8}),
		Depth:   textures.NewDepthBuffer(w, h),
		Normals: textures.NewNormalBuffer(w, h),
	}
}

// wallScene puts a camera-facing quad five units in front of the camera that
// covers the whole view.
func wallScene() *scene.Scene {
	s := scene.NewScene()
	s.SetCamera(scene.NewCamera(math32.Pi/3, 1, 0.1, 100))
	wall := scene.NewMeshNode("wall", scene.CreateQuad(), math.Vec3Zero)
	wall.SetScale(math.Vec3{X: 40, Y: 40, Z: 1})
	s.AddNode(wall)
	return s
}

func TestDrawWallMatchesReconstruction(t *testing.T) {
	s := wallScene()
	target := newTarget(size, size)

	stats, err := New(nil).Draw(s, target)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if stats.Nodes != 1 || stats.Triangles != 2 {
		t.Errorf("expected 1 node and 2 triangles, got %+v", stats)
	}

	inv := s.Camera.GetInverseProjectionMatrix()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := target.Depth.At(x, y)
			if d >= 1 {
				t.Fatalf("pixel (%d,%d) not covered", x, y)
			}
			p := occlusion.ViewPosition(inv, x, y, size, size, d)
			if math32.Abs(p.Z+5) > 1e-3 {
				t.Fatalf("pixel (%d,%d): reconstructed z %v, expected -5", x, y, p.Z)
			}
			n := target.Normals.At(x, y)
			if math32.Abs(n.Z-1) > 1e-4 {
				t.Fatalf("pixel (%d,%d): expected view normal +Z, got %v", x, y, n)
			}
		}
	}
}

func TestDrawClipsGeometryBehindCamera(t *testing.T) {
	s := scene.NewScene()
	s.SetCamera(scene.NewCamera(math32.Pi/3, 1, 0.1, 100))

	behind := scene.CreateMeshFromData("behind", []core.Vertex{
		{Position: math.Vec3{X: -1, Y: -1, Z: 8}, Normal: math.Vec3Front},
		{Position: math.Vec3{X: 1, Y: -1, Z: 8}, Normal: math.Vec3Front},
		{Position: math.Vec3{X: 0, Y: 1, Z: 8}, Normal: math.Vec3Front},
	}, []uint32{0, 1, 2})
	n := scene.NewMeshNode("behind", behind, math.Vec3Zero)
	s.AddNode(n)

	target := newTarget(size, size)
	if _, err := New(nil).Draw(s, target); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for i, d := range target.Depth.Data {
		if d != 1 {
			t.Fatalf("texel %d written with depth %v", i, d)
		}
	}
}

func TestDrawClipsNearPlaneCrossing(t *testing.T) {
	s := scene.NewScene()
	s.SetCamera(scene.NewCamera(math32.Pi/3, 1, 0.1, 100))
	// The floor runs from behind the camera to well in front of it.
	s.AddNode(scene.NewMeshNode("floor", scene.CreatePlane(4, 40, 1), math.Vec3{Y: -1}))

	target := newTarget(size, size)
	if _, err := New(nil).Draw(s, target); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	covered := 0
	for _, d := range target.Depth.Data {
		if d < 0 {
			t.Fatalf("depth %v below the near plane", d)
		}
		if d < 1 {
			covered++
		}
	}
	if covered == 0 || covered == len(target.Depth.Data) {
		t.Errorf("expected the floor to cover part of the view, covered %d", covered)
	}
	// The bottom row looks at the floor right in front of the camera.
	if target.Depth.At(size/2, size-1) >= 1 {
		t.Error("bottom center pixel should hit the floor")
	}
}

func TestDrawBandsMatchSerial(t *testing.T) {
	s, _ := scene.CreateDemoScene(1)
	serial := newTarget(size, size)
	banded := newTarget(size, size)

	if _, err := New(nil).Draw(s, serial); err != nil {
		t.Fatalf("serial Draw: %v", err)
	}
	if _, err := New(parallel.NewPool(4, 5)).Draw(s, banded); err != nil {
		t.Fatalf("banded Draw: %v", err)
	}
	for i := range serial.Depth.Data {
		if serial.Depth.Data[i] != banded.Depth.Data[i] || serial.Normals.Data[i] != banded.Normals.Data[i] {
			t.Fatalf("texel %d differs between serial and banded draws", i)
		}
	}
	for i := range serial.Color.Pix {
		if serial.Color.Pix[i] != banded.Color.Pix[i] {
			t.Fatalf("color byte %d differs between serial and banded draws", i)
		}
	}
}

func TestDrawErrors(t *testing.T) {
	s := wallScene()
	tests := []struct {
		name   string
		scene  *scene.Scene
		target Target
		want   error
	}{
		{"no camera", scene.NewScene(), newTarget(size, size), ErrNoCamera},
		{"nil scene", nil, newTarget(size, size), ErrNoCamera},
		{"missing buffer", s, Target{Color: newTarget(size, size).Color}, ErrTargetSize},
		{"size mismatch", s, Target{
			Color:   newTarget(size, size).Color,
			Depth:   textures.NewDepthBuffer(size, size),
			Normals: textures.NewNormalBuffer(size, size/2),
		}, ErrTargetSize},
	}
	for _, tt := range tests {
		if _, err := New(nil).Draw(tt.scene, tt.target); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}
