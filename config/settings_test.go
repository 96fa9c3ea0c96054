package config

import (
	"errors"
	"path/filepath"
	"testing"

	"ssao-engine/kernel"
	"ssao-engine/occlusion"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Method != kernel.Spherical || s.Version != occlusion.V1 || s.Event != AfterRenderingOpaques {
		t.Errorf("unexpected default enums: %v %v %v", s.Method, s.Version, s.Event)
	}
	if s.Radius != 0.5 || s.SampleCount != 32 || s.BlurSpread != 10 {
		t.Errorf("unexpected default ranges: radius %v samples %d spread %v", s.Radius, s.SampleCount, s.BlurSpread)
	}
	if s.ShowAO || s.ApplyBlur {
		t.Error("ShowAO and ApplyBlur should default to false")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		in     Settings
		radius float32
		count  int
		spread float32
	}{
		{"below", Settings{Radius: 0, SampleCount: 1, BlurSpread: 0}, MinRadius, MinSampleCount, MinBlurSpread},
		{"above", Settings{Radius: 9, SampleCount: 500, BlurSpread: 200}, MaxRadius, MaxSampleCount, MaxBlurSpread},
		{"inside", Settings{Radius: 1, SampleCount: 64, BlurSpread: 4}, 1, 64, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.in
			s.Clamp()
			if s.Radius != tt.radius || s.SampleCount != tt.count || s.BlurSpread != tt.spread {
				t.Errorf("Clamp() = (%v, %d, %v), want (%v, %d, %v)",
					s.Radius, s.SampleCount, s.BlurSpread, tt.radius, tt.count, tt.spread)
			}
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`{
		"kernelMethod": "hemispherical",
		"occlusionFunctionVersion": "v3",
		"renderPassEvent": "before-post-process",
		"sampleCount": 400,
		"applyBlur": true
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if s.Method != kernel.Hemispherical || s.Version != occlusion.V3 || s.Event != BeforeRenderingPostProcessing {
		t.Errorf("enums not decoded: %v %v %v", s.Method, s.Version, s.Event)
	}
	if s.SampleCount != MaxSampleCount {
		t.Errorf("sample count not clamped: %d", s.SampleCount)
	}
	if !s.ApplyBlur || s.Radius != 0.5 {
		t.Errorf("expected blur on and default radius, got %+v", s)
	}
}

func TestParseRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"method", `{"kernelMethod": "cubic"}`, ErrInvalidMethod},
		{"version", `{"occlusionFunctionVersion": "v9"}`, ErrInvalidVersion},
		{"event", `{"renderPassEvent": "whenever"}`, ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.json)); !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	s := Default()
	s.Method = kernel.Method(5)
	s.Version = occlusion.Version(-1)

	err := s.Validate()
	if !errors.Is(err, ErrInvalidMethod) || !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Validate() = %v, want both method and version errors", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssao.json")

	s := Default()
	s.Method = kernel.Hemispherical
	s.Version = occlusion.V2
	s.ShowAO = true
	s.RotationTexture = "rot.tiff"
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != s {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
