package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFitMatrix(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		dstW, dstH   int
		wantX, wantY float32
	}{
		{"same aspect", 640, 360, 1280, 720, 1, 1},
		{"wide frame", 200, 100, 100, 100, 1, 0.5},
		{"tall frame", 100, 200, 100, 100, 0.5, 1},
		{"pillarbox", 100, 100, 200, 100, 0.5, 1},
	}
	for _, tt := range tests {
		m := FitMatrix(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
		corner := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
		if !mgl32.FloatEqual(corner.X(), tt.wantX) || !mgl32.FloatEqual(corner.Y(), tt.wantY) {
			t.Errorf("%s: corner maps to (%v, %v), want (%v, %v)", tt.name, corner.X(), corner.Y(), tt.wantX, tt.wantY)
		}
		if corner.Z() != 0 || corner.W() != 1 {
			t.Errorf("%s: z/w changed: %v", tt.name, corner)
		}
	}
}
