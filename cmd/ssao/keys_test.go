package main

import (
	"testing"

	"ssao-engine/config"
	"ssao-engine/core"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
)

func TestApplyKey(t *testing.T) {
	s := config.Default()
	steps := []struct {
		key    int
		want   viewAction
		verify func(s config.Settings) bool
	}{
		{core.KeySpace, actionChanged, func(s config.Settings) bool { return s.ShowAO }},
		{core.KeyB, actionChanged, func(s config.Settings) bool { return s.ApplyBlur }},
		{core.KeyM, actionChanged, func(s config.Settings) bool { return s.Method == kernel.Hemispherical }},
		{core.KeyM, actionChanged, func(s config.Settings) bool { return s.Method == kernel.Spherical }},
		{core.Key3, actionChanged, func(s config.Settings) bool { return s.Version == occlusion.V3 }},
		{core.Key2, actionChanged, func(s config.Settings) bool { return s.Version == occlusion.V2 }},
		{core.Key1, actionChanged, func(s config.Settings) bool { return s.Version == occlusion.V1 }},
		{core.KeyP, actionPrintStats, func(config.Settings) bool { return true }},
		{core.KeyEscape, actionQuit, func(config.Settings) bool { return true }},
		{core.KeyUp, actionNone, func(config.Settings) bool { return true }},
	}
	for i, step := range steps {
		if got := applyKey(&s, step.key); got != step.want {
			t.Errorf("step %d: action = %v, want %v", i, got, step.want)
		}
		if !step.verify(s) {
			t.Errorf("step %d: unexpected settings %+v", i, s)
		}
	}
}

func TestViewTitle(t *testing.T) {
	tests := []struct {
		showAO, blur bool
		want         string
	}{
		{false, true, "SSAO (off)"},
		{true, false, "SSAO spherical/v1"},
		{true, true, "SSAO spherical/v1 + blur"},
	}
	for _, tt := range tests {
		if got := viewTitle(tt.showAO, tt.blur, "spherical/v1"); got != tt.want {
			t.Errorf("viewTitle(%v, %v) = %q, want %q", tt.showAO, tt.blur, got, tt.want)
		}
	}
}
