package main

import (
	"ssao-engine/config"
	"ssao-engine/core"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
)

type viewAction int

const (
	actionNone viewAction = iota
	actionChanged
	actionPrintStats
	actionQuit
)

// applyKey maps a viewer key press onto the settings.
func applyKey(s *config.Settings, key int) viewAction {
	switch key {
	case core.KeySpace:
		s.ShowAO = !s.ShowAO
	case core.KeyB:
		s.ApplyBlur = !s.ApplyBlur
	case core.KeyM:
		if s.Method == kernel.Spherical {
			s.Method = kernel.Hemispherical
		} else {
			s.Method = kernel.Spherical
		}
	case core.Key1:
		s.Version = occlusion.V1
	case core.Key2:
		s.Version = occlusion.V2
	case core.Key3:
		s.Version = occlusion.V3
	case core.KeyP:
		return actionPrintStats
	case core.KeyEscape:
		return actionQuit
	default:
		return actionNone
	}
	return actionChanged
}
