package renderer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"ssao-engine/blur"
	"ssao-engine/config"
	"ssao-engine/internal/parallel"
	"ssao-engine/kernel"
	"ssao-engine/log"
	"ssao-engine/math"
	"ssao-engine/occlusion"
	"ssao-engine/rendergraph"
	"ssao-engine/scene"
)

const size = 32

func testSettings() *config.Settings {
	s := config.Default()
	s.ShowAO = true
	s.Method = kernel.Hemispherical
	s.SSAOProgram = occlusion.NewProgram()
	s.BlurProgram = blur.NewProgram()
	return &s
}

// wallScene is a camera-facing plane covering the whole view.
func wallScene() *scene.Scene {
	s := scene.NewScene()
	s.SetCamera(scene.NewCamera(math32.Pi/3, 1, 0.1, 100))
	wall := scene.NewMeshNode("wall", scene.CreateQuad(), math.Vec3Zero)
	wall.SetScale(math.Vec3{X: 40, Y: 40, Z: 1})
	s.AddNode(wall)
	return s
}

func newEngine(t *testing.T, settings *config.Settings) (*RenderEngine, *SSAOFeature) {
	t.Helper()
	re, err := NewRenderEngine(size, size, parallel.NewPool(2, 8))
	if err != nil {
		t.Fatalf("NewRenderEngine: %v", err)
	}
	re.SetScene(wallScene())
	feature := NewSSAOFeature(settings)
	re.AddFeature(feature)
	return re, feature
}

func passNames(stats FrameStats) []string {
	var names []string
	for _, p := range stats.Graph.Passes {
		names = append(names, p.Name)
	}
	return names
}

func TestRenderSkipsWithoutRecording(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(re *RenderEngine, s *config.Settings)
	}{
		{"back buffer", func(re *RenderEngine, _ *config.Settings) { re.BackBuffer = true }},
		{"ao hidden", func(_ *RenderEngine, s *config.Settings) { s.ShowAO = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			re, _ := newEngine(t, settings)
			tt.mutate(re, settings)

			stats, err := re.Render(context.Background())
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got := passNames(stats); len(got) != 1 || got[0] != OpaquePassName {
				t.Fatalf("expected only %q, got %v", OpaquePassName, got)
			}
			if _, ok := stats.Pass(SSAOPassName); ok {
				t.Errorf("%q should not be recorded", SSAOPassName)
			}
			// The opaque pass accounts for the single draw and write.
			if stats.Graph.Draws != 1 || stats.Graph.TextureWrites != 1 || stats.Graph.Allocations != 0 {
				t.Errorf("expected 1 draw, 1 write, 0 allocations, got %+v", stats.Graph)
			}
		})
	}
}

func TestRenderFlatWallIsUnoccluded(t *testing.T) {
	// V3 has no bias term, so rasterizer depth jitter can flip single taps;
	// it is covered on exact buffers in the occlusion package.
	for _, version := range []occlusion.Version{occlusion.V1, occlusion.V2} {
		t.Run(version.String(), func(t *testing.T) {
			settings := testSettings()
			settings.Version = version
			re, _ := newEngine(t, settings)

			stats, err := re.Render(context.Background())
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			want := []string{OpaquePassName, SSAOPassName, "Copy Pass"}
			if got := passNames(stats); strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("passes = %v, want %v", got, want)
			}
			if stats.Graph.Allocations != 1 {
				t.Errorf("expected 1 transient allocation, got %d", stats.Graph.Allocations)
			}

			color := re.Color()
			for i, v := range color.Pix {
				if v != 255 {
					t.Fatalf("byte %d = %d, want 255 (no occlusion on a flat wall)", i, v)
				}
			}
		})
	}
}

func TestRenderBlurPasses(t *testing.T) {
	settings := testSettings()
	settings.ApplyBlur = true
	settings.BlurSpread = 1
	re, _ := newEngine(t, settings)

	stats, err := re.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{OpaquePassName, SSAOPassName, BlurHPassName, BlurVPassName, "Copy Pass"}
	if got := passNames(stats); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("passes = %v, want %v", got, want)
	}
	if stats.Graph.Allocations != 2 {
		t.Errorf("expected AO and blur scratch allocations, got %d", stats.Graph.Allocations)
	}
	for _, name := range []string{BlurHPassName, BlurVPassName} {
		p, _ := stats.Pass(name)
		if p.Draws != 1 || p.TextureWrites != 1 || p.Culled {
			t.Errorf("%s: unexpected stats %+v", name, p)
		}
	}
	for i, v := range re.Color().Pix {
		if v != 255 {
			t.Fatalf("byte %d = %d: blurring a uniform buffer must keep it uniform", i, v)
		}
	}

	// Without a blur program the blur passes are elided.
	settings.BlurProgram = nil
	stats, err = re.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := stats.Pass(BlurHPassName); ok {
		t.Error("blur passes should be elided without a blur program")
	}
}

func TestFeatureWithoutProgramNeverRegisters(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(os.Stdout)

	settings := testSettings()
	settings.SSAOProgram = nil
	re, feature := newEngine(t, settings)

	for i := 0; i < 3; i++ {
		stats, err := re.Render(context.Background())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if len(stats.Graph.Passes) != 1 {
			t.Fatalf("frame %d: expected only the opaque pass, got %v", i, passNames(stats))
		}
	}
	if feature.Pass() != nil {
		t.Error("feature should not create a pass without a program")
	}
	if n := strings.Count(buf.String(), "occlusion program is not set"); n != 1 {
		t.Errorf("expected the configuration error logged once, got %d", n)
	}
}

func TestRenderUnknownMethodFailsExecute(t *testing.T) {
	settings := testSettings()
	settings.Method = kernel.Method(7)
	re, _ := newEngine(t, settings)

	if _, err := re.Render(context.Background()); !errors.Is(err, kernel.ErrUnknownMethod) {
		t.Fatalf("expected %v, got %v", kernel.ErrUnknownMethod, err)
	}
}

func TestKernelRegeneratesOnlyOnKeyChange(t *testing.T) {
	settings := testSettings()
	re, feature := newEngine(t, settings)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := re.Render(ctx); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if got := feature.Pass().Kernel().Generations(); got != 1 {
		t.Errorf("expected one generation for a stable key, got %d", got)
	}

	settings.SampleCount = 16
	if _, err := re.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := feature.Pass().Kernel().Generations(); got != 2 {
		t.Errorf("expected regeneration after a sample count change, got %d", got)
	}
}

func TestNormalsImportedOnlyWhenRequested(t *testing.T) {
	re, err := NewRenderEngine(size, size, nil)
	if err != nil {
		t.Fatalf("NewRenderEngine: %v", err)
	}
	re.SetScene(wallScene())
	if _, err := re.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := re.graph.ResourceCount(); got != 2 {
		t.Errorf("without passes expected color and depth only, got %d resources", got)
	}

	re.AddFeature(NewSSAOFeature(testSettings()))
	if _, err := re.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// color, depth, normals and the AO transient
	if got := re.graph.ResourceCount(); got != 4 {
		t.Errorf("with SSAO expected 4 resources, got %d", got)
	}
}

type probePass struct {
	name   string
	event  config.Event
	record *[]string
	seen   *[]int
}

func (p *probePass) Name() string        { return p.name }
func (p *probePass) Event() config.Event { return p.event }
func (p *probePass) Input() PassInput    { return InputNone }
func (p *probePass) RecordRenderGraph(g *rendergraph.Graph, _ *rendergraph.FrameData) error {
	*p.record = append(*p.record, p.name)
	*p.seen = append(*p.seen, g.PassCount())
	return nil
}

type probeFeature struct{ passes []*probePass }

func (f *probeFeature) Create() {}
func (f *probeFeature) AddRenderPasses(p Pipeline) {
	for _, pass := range f.passes {
		p.EnqueuePass(pass)
	}
}

func TestPassesRecordInEventOrder(t *testing.T) {
	var order []string
	var seen []int
	mk := func(name string, e config.Event) *probePass {
		return &probePass{name: name, event: e, record: &order, seen: &seen}
	}

	re, err := NewRenderEngine(size, size, nil)
	if err != nil {
		t.Fatalf("NewRenderEngine: %v", err)
	}
	re.SetScene(wallScene())
	re.AddFeature(&probeFeature{passes: []*probePass{
		mk("post", config.AfterRenderingPostProcessing),
		mk("early", config.BeforeRenderingOpaques),
		mk("late", config.AfterRenderingOpaques),
	}})

	if _, err := re.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := strings.Join(order, ","); got != "early,late,post" {
		t.Errorf("record order = %s, want early,late,post", got)
	}
	// The opaque pass is recorded between the early pass and the rest.
	if seen[0] != 0 || seen[1] != 1 {
		t.Errorf("graph pass counts at record time = %v, want [0 1 1]", seen)
	}
}

func TestNewRenderEngineRejectsEmptyTarget(t *testing.T) {
	if _, err := NewRenderEngine(0, 10, nil); !errors.Is(err, ErrSize) {
		t.Errorf("expected %v, got %v", ErrSize, err)
	}
	re, _ := NewRenderEngine(4, 4, nil)
	if _, err := re.Render(context.Background()); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected %v, got %v", ErrNoScene, err)
	}
}
