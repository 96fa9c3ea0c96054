package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ssao-engine/blur"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
)

// Accepted ranges. Values outside are clamped by Clamp.
const (
	MinRadius      = 0.01
	MaxRadius      = 5.0
	MinSampleCount = 8
	MaxSampleCount = kernel.MaxSamples
	MinBlurSpread  = 0.1
	MaxBlurSpread  = 80.0
)

var (
	ErrInvalidMethod  = errors.New("config: invalid kernel method")
	ErrInvalidVersion = errors.New("config: invalid occlusion function version")
	ErrInvalidEvent   = errors.New("config: invalid render pass event")
)

// Settings configures one SSAO renderer feature. A Settings value is treated
// as immutable while a frame is recorded.
type Settings struct {
	Event  Event `json:"renderPassEvent"`
	ShowAO bool  `json:"showAO"`

	Method      kernel.Method `json:"kernelMethod"`
	Radius      float32       `json:"radius"`
	SampleCount int           `json:"sampleCount"`

	Version occlusion.Version `json:"occlusionFunctionVersion"`

	// V1
	BiasV1 float32 `json:"occlusionBiasV1"`

	// V2
	Scale   float32 `json:"occlusionScale"`
	BiasV2  float32 `json:"occlusionBiasV2"`
	PowerV2 float32 `json:"occlusionPowerV2"`

	// V3
	FullOcclusionThreshold float32 `json:"fullOcclusionThreshold"`
	NoOcclusionThreshold   float32 `json:"noOcclusionThreshold"`
	PowerV3                float32 `json:"occlusionPowerV3"`

	ApplyBlur  bool    `json:"applyBlur"`
	BlurSpread float32 `json:"blurSpread"`

	// KernelSeed seeds the kernel generator.
	KernelSeed int64 `json:"kernelSeed"`

	// RotationTexture is an optional path to a jitter tile produced by the
	// rotation-texture command.
	RotationTexture string `json:"rotationTexture,omitempty"`

	// Programs are wired at runtime. A nil SSAOProgram disables the feature;
	// a nil BlurProgram skips the blur passes.
	SSAOProgram *occlusion.Program `json:"-"`
	BlurProgram *blur.Program      `json:"-"`
}

// Default returns the stock settings. Programs are left nil.
func Default() Settings {
	return Settings{
		Event:                  AfterRenderingOpaques,
		ShowAO:                 false,
		Method:                 kernel.Spherical,
		Radius:                 0.5,
		SampleCount:            32,
		Version:                occlusion.V1,
		BiasV1:                 0.025,
		Scale:                  1.0,
		BiasV2:                 0.025,
		PowerV2:                2.0,
		FullOcclusionThreshold: 0.2,
		NoOcclusionThreshold:   0.5,
		PowerV3:                2.0,
		ApplyBlur:              false,
		BlurSpread:             10.0,
		KernelSeed:             42,
	}
}

// Clamp forces the ranged fields into their accepted intervals.
func (s *Settings) Clamp() {
	s.Radius = clampf(s.Radius, MinRadius, MaxRadius)
	s.BlurSpread = clampf(s.BlurSpread, MinBlurSpread, MaxBlurSpread)
	if s.SampleCount < MinSampleCount {
		s.SampleCount = MinSampleCount
	}
	if s.SampleCount > MaxSampleCount {
		s.SampleCount = MaxSampleCount
	}
}

// Validate reports enum values that do not name a known option. Unknown
// values are never replaced with a default.
func (s *Settings) Validate() error {
	var errs []error
	if !s.Method.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMethod, int(s.Method)))
	}
	if !s.Version.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidVersion, int(s.Version)))
	}
	if !s.Event.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidEvent, int(s.Event)))
	}
	return errors.Join(errs...)
}

// Variant returns the estimator permutation selected by the settings.
func (s *Settings) Variant() occlusion.Variant {
	return occlusion.Variant{Method: s.Method, Version: s.Version}
}

// GridSize returns the blur tap count derived from BlurSpread.
func (s *Settings) GridSize() int {
	return blur.GridSize(s.BlurSpread)
}

// Load reads a JSON settings file over the defaults and clamps the result.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes JSON settings over the defaults and clamps the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		switch {
		case errors.Is(err, kernel.ErrUnknownMethod):
			return Settings{}, fmt.Errorf("%w: %w", ErrInvalidMethod, err)
		case errors.Is(err, occlusion.ErrUnknownVersion):
			return Settings{}, fmt.Errorf("%w: %w", ErrInvalidVersion, err)
		}
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	s.Clamp()
	return s, nil
}

// Save writes the settings as indented JSON.
func (s Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: write %q: %w", path, err)
	}
	return nil
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
