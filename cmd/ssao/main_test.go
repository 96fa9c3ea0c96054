package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"ssao-engine/config"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
	"ssao-engine/textures"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"ssao"}, args...))
	return buf.String(), err
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(file, []byte(`{"showAO": false, "radius": 2, "occlusionFunctionVersion": "v3"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, s config.Settings)
	}{
		{"defaults", nil, func(t *testing.T, s config.Settings) {
			if !s.ShowAO {
				t.Error("ShowAO should default to true without a settings file")
			}
			if s.Method != kernel.Spherical || s.SampleCount != 32 {
				t.Errorf("unexpected defaults %+v", s)
			}
		}},
		{"flags clamp", []string{"--method", "hemispherical", "--samples", "500", "--blur"}, func(t *testing.T, s config.Settings) {
			if s.Method != kernel.Hemispherical {
				t.Errorf("Method = %v, want hemispherical", s.Method)
			}
			if s.SampleCount != config.MaxSampleCount {
				t.Errorf("SampleCount = %d, want %d", s.SampleCount, config.MaxSampleCount)
			}
			if !s.ApplyBlur {
				t.Error("ApplyBlur should be set")
			}
		}},
		{"file kept", []string{"--config", file}, func(t *testing.T, s config.Settings) {
			if s.ShowAO || s.Radius != 2 || s.Version != occlusion.V3 {
				t.Errorf("file values lost: %+v", s)
			}
		}},
		{"flag over file", []string{"--config", file, "--radius", "1", "--show-ao"}, func(t *testing.T, s config.Settings) {
			if s.Radius != 1 || !s.ShowAO || s.Version != occlusion.V3 {
				t.Errorf("unexpected merge %+v", s)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"config"}, tt.args...)...)
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			s, err := config.Parse([]byte(out))
			if err != nil {
				t.Fatalf("Parse(%q): %v", out, err)
			}
			tt.check(t, s)
		})
	}
}

func TestConfigRejectsUnknownMethod(t *testing.T) {
	_, err := runApp(t, "config", "--method", "cubic")
	if !errors.Is(err, config.ErrInvalidMethod) {
		t.Fatalf("expected %v, got %v", config.ErrInvalidMethod, err)
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if _, err := runApp(t, "config", "--occlusion-version", "v2", path); err != nil {
		t.Fatalf("config: %v", err)
	}
	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Version != occlusion.V2 {
		t.Errorf("Version = %v, want v2", s.Version)
	}
}

func TestRotationTextureCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rot.tiff")
	if _, err := runApp(t, "rotation-texture", "--size", "8", "--seed", "3", path); err != nil {
		t.Fatalf("rotation-texture: %v", err)
	}
	tex, err := textures.LoadRotationTexture(path)
	if err != nil {
		t.Fatalf("LoadRotationTexture: %v", err)
	}
	if tex.Width != 8 || tex.Height != 8 {
		t.Errorf("size = %dx%d, want 8x8", tex.Width, tex.Height)
	}
}

func TestRenderWritesBuffers(t *testing.T) {
	dir := t.TempDir()
	rot := filepath.Join(dir, "rot.tiff")
	if _, err := runApp(t, "rotation-texture", rot); err != nil {
		t.Fatalf("rotation-texture: %v", err)
	}

	outputs := map[string]string{
		"--out":         filepath.Join(dir, "ao.png"),
		"--color-out":   filepath.Join(dir, "color.png"),
		"--depth-out":   filepath.Join(dir, "depth.png"),
		"--normals-out": filepath.Join(dir, "normals.png"),
	}
	args := []string{"render", "--width", "40", "--height", "24", "--workers", "2",
		"--method", "hemispherical", "--blur", "--rotation-texture", rot}
	for flag, path := range outputs {
		args = append(args, flag, path)
	}
	if _, err := runApp(t, args...); err != nil {
		t.Fatalf("render: %v", err)
	}

	for flag, path := range outputs {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("%s: %v", flag, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: decode: %v", flag, err)
		}
		if cfg.Width != 40 || cfg.Height != 24 {
			t.Errorf("%s: size %dx%d, want 40x24", flag, cfg.Width, cfg.Height)
		}
	}
}

func TestRenderColorSnapshotPrecedesOcclusion(t *testing.T) {
	dir := t.TempDir()
	ao := filepath.Join(dir, "ao.png")
	color := filepath.Join(dir, "color.png")
	if _, err := runApp(t, "render", "--width", "32", "--height", "32", "--out", ao, "--color-out", color); err != nil {
		t.Fatalf("render: %v", err)
	}
	a, err := textures.LoadImage(ao)
	if err != nil {
		t.Fatal(err)
	}
	c, err := textures.LoadImage(color)
	if err != nil {
		t.Fatal(err)
	}
	// The occlusion buffer is gray; the shaded frame carries the sky tint.
	gray := true
	for i := 0; i+3 < len(a.Pix); i += 4 {
		if a.Pix[i] != a.Pix[i+1] || a.Pix[i+1] != a.Pix[i+2] {
			gray = false
			break
		}
	}
	if !gray {
		t.Error("published frame should be the grayscale occlusion buffer")
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("color snapshot should differ from the occlusion buffer")
	}
}

func TestRenderEmptyOBJFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.obj")
	if err := os.WriteFile(path, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runApp(t, "render", "--obj", path, "--out", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected an error for an empty obj scene")
	}
}

func TestSettingsOutputIsJSON(t *testing.T) {
	out, err := runApp(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if m["kernelMethod"] != "spherical" {
		t.Errorf("kernelMethod = %v, want spherical", m["kernelMethod"])
	}
}
