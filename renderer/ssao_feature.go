package renderer

import "ssao-engine/config"

// SSAOFeature plugs the SSAO pass into a pipeline. It disables itself when
// the settings carry no occlusion program.
type SSAOFeature struct {
	settings *config.Settings
	pass     *SSAOPass
}

func NewSSAOFeature(settings *config.Settings) *SSAOFeature {
	return &SSAOFeature{settings: settings}
}

// Create builds the pass. A missing occlusion program is a configuration
// error: it is logged once and the feature never enqueues anything.
func (f *SSAOFeature) Create() {
	f.pass = nil
	if f.settings.SSAOProgram == nil {
		logger.Errorf("%s: occlusion program is not set, feature disabled", SSAOPassName)
		return
	}
	f.pass = NewSSAOPass(f.settings)
}

// AddRenderPasses enqueues the pass requesting depth and normals.
func (f *SSAOFeature) AddRenderPasses(pipeline Pipeline) {
	if f.pass == nil {
		return
	}
	f.pass.ConfigureInput(InputNormal | InputDepth)
	pipeline.EnqueuePass(f.pass)
}

// Settings returns the live settings. Changes apply from the next frame.
func (f *SSAOFeature) Settings() *config.Settings { return f.settings }

// Pass returns the created pass, nil while disabled.
func (f *SSAOFeature) Pass() *SSAOPass { return f.pass }
