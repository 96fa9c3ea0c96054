package kernel

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"ssao-engine/math"
)

func TestSphericalKernelIsUnitLength(t *testing.T) {
	g := NewGenerator(1)
	samples, err := g.Get(64, Spherical)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(samples))
	}

	for i, s := range samples {
		if s.W != 1 {
			t.Errorf("sample %d: expected w = 1, got %v", i, s.W)
		}
		if l := s.ToVec3().Length(); math32.Abs(l-1) > 1e-4 {
			t.Errorf("sample %d: expected unit length, got %v", i, l)
		}
	}
}

func TestHemisphericalKernelBounds(t *testing.T) {
	g := NewGenerator(7)
	n := 128
	samples, err := g.Get(n, Hemispherical)
	if err != nil {
		t.Fatal(err)
	}

	for i, s := range samples {
		v := s.ToVec3()
		if v.IsNaN() {
			t.Fatalf("sample %d is not finite: %v", i, v)
		}
		if v.Z < 0 {
			t.Errorf("sample %d: expected z >= 0, got %v", i, v.Z)
		}

		f := float32(i) / float32(n)
		maxLen := math.Lerp(0.1, 1, f*f)
		if l := v.Length(); l > maxLen+1e-5 {
			t.Errorf("sample %d: length %v exceeds falloff bound %v", i, l, maxLen)
		}
		if s.W != 1 {
			t.Errorf("sample %d: expected w = 1, got %v", i, s.W)
		}
	}
}

func TestGetIsMemoized(t *testing.T) {
	g := NewGenerator(3)
	first, err := g.Get(32, Spherical)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Get(32, Spherical)
	if err != nil {
		t.Fatal(err)
	}

	if g.Generations() != 1 {
		t.Errorf("expected a single generation, got %d", g.Generations())
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d changed between identical calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestGetRegeneratesOnKeyChange(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		method Method
	}{
		{"sample count", 16, Spherical},
		{"method", 32, Hemispherical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(5)
			if _, err := g.Get(32, Spherical); err != nil {
				t.Fatal(err)
			}
			samples, err := g.Get(tt.count, tt.method)
			if err != nil {
				t.Fatal(err)
			}
			if len(samples) != tt.count {
				t.Errorf("expected %d samples, got %d", tt.count, len(samples))
			}
			if g.Generations() != 2 {
				t.Errorf("expected regeneration, generations = %d", g.Generations())
			}
		})
	}
}

func TestHemisphericalAfterSphericalHasNoNegativeZ(t *testing.T) {
	g := NewGenerator(11)
	if _, err := g.Get(32, Spherical); err != nil {
		t.Fatal(err)
	}
	samples, err := g.Get(32, Hemispherical)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range samples {
		if s.Z < 0 {
			t.Fatalf("sample %d kept a spherical value: %v", i, s)
		}
	}
}

func TestInvalidate(t *testing.T) {
	g := NewGenerator(9)
	if _, err := g.Get(8, Spherical); err != nil {
		t.Fatal(err)
	}
	g.Invalidate()
	if _, err := g.Get(8, Spherical); err != nil {
		t.Fatal(err)
	}
	if g.Generations() != 2 {
		t.Errorf("expected Invalidate to force regeneration, generations = %d", g.Generations())
	}
}

func TestSameSeedSameKernel(t *testing.T) {
	a, _ := NewGenerator(42).Get(24, Hemispherical)
	b, _ := NewGenerator(42).Get(24, Hemispherical)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for equal seeds: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGetRejectsBadInput(t *testing.T) {
	g := NewGenerator(1)

	for _, n := range []int{0, -1, MaxSamples + 1} {
		if _, err := g.Get(n, Spherical); !errors.Is(err, ErrSampleCountOutOfRange) {
			t.Errorf("Get(%d): expected ErrSampleCountOutOfRange, got %v", n, err)
		}
	}
	if _, err := g.Get(16, Method(7)); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if g.Generations() != 0 {
		t.Errorf("rejected calls must not generate, generations = %d", g.Generations())
	}
}

func TestMethodText(t *testing.T) {
	for _, m := range []Method{Spherical, Hemispherical} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Method
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != m {
			t.Errorf("expected %v, got %v", m, got)
		}
	}

	var m Method
	if err := m.UnmarshalText([]byte("cubic")); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}
