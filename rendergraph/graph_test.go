package rendergraph

import (
	"context"
	"errors"
	"testing"

	"ssao-engine/internal/parallel"
	"ssao-engine/math"
	"ssao-engine/textures"
)

type fillData struct {
	value float32
}

func colorDesc(name string) textures.Desc {
	return textures.Desc{Name: name, Width: 4, Height: 3, Format: textures.FormatRGBA8, Filter: textures.FilterBilinear}
}

// addFill records a pass that writes value into dst.
func addFill(g *Graph, name string, dst TextureHandle, value float32, cullable bool) {
	b, data := AddRasterPass[fillData](g, name)
	data.value = value
	b.SetRenderAttachment(dst, 0, AccessWriteAll)
	b.AllowPassCulling(cullable)
	b.SetRenderFunc(func(d *fillData, ctx *RasterContext) error {
		tex, err := ctx.Attachment(0)
		if err != nil {
			return err
		}
		return ctx.Draw(func() error {
			ctx.ForRows(tex.Height, func(y0, y1 int) {
				for y := y0; y < y1; y++ {
					for x := 0; x < tex.Width; x++ {
						tex.Set(x, y, math.Vec4{X: d.value, Y: d.value, Z: d.value, W: 1})
					}
				}
			})
			return nil
		})
	})
}

func TestExecuteRunsPassesAndCopies(t *testing.T) {
	g := New(parallel.NewPool(2, 1))
	target := textures.New(colorDesc("camera"))
	dst := g.ImportTexture(target)
	tmp := g.CreateTexture(colorDesc("tmp"))

	addFill(g, "fill", tmp, 1, true)
	g.AddCopyPass(tmp, dst)

	stats, err := g.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if got := target.At(3, 2); got.X != 1 || got.W != 1 {
		t.Errorf("copied texel = %v, want white", got)
	}
	if stats.Draws != 2 || stats.TextureWrites != 2 {
		t.Errorf("stats = %d draws / %d writes, want 2 / 2", stats.Draws, stats.TextureWrites)
	}
	if len(stats.Passes) != 2 || stats.Passes[0].Name != "fill" || stats.Passes[1].Name != "Copy Pass" {
		t.Errorf("unexpected pass order: %+v", stats.Passes)
	}
	if stats.Allocations != 1 {
		t.Errorf("expected one transient allocation, got %d", stats.Allocations)
	}
}

func TestCulling(t *testing.T) {
	tests := []struct {
		name     string
		cullable bool
		culled   bool
	}{
		{"cullable unused pass", true, true},
		{"pinned unused pass", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			tmp := g.CreateTexture(colorDesc("unused"))
			addFill(g, "orphan", tmp, 0.5, tt.cullable)

			stats, err := g.Execute(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if stats.Passes[0].Culled != tt.culled {
				t.Errorf("Culled = %v, want %v", stats.Passes[0].Culled, tt.culled)
			}
			wantDraws := 1
			if tt.culled {
				wantDraws = 0
			}
			if stats.Draws != wantDraws {
				t.Errorf("draws = %d, want %d", stats.Draws, wantDraws)
			}
		})
	}
}

func TestPingPongChainSurvivesCulling(t *testing.T) {
	g := New(nil)
	target := textures.New(colorDesc("camera"))
	dst := g.ImportTexture(target)
	a := g.CreateTexture(colorDesc("a"))
	b := g.CreateTexture(colorDesc("b"))

	addFill(g, "produce", a, 0.25, true)

	blit := func(name string, src, to TextureHandle) {
		pb, _ := AddRasterPass[struct{}](g, name)
		pb.UseTexture(src, AccessRead)
		pb.SetRenderAttachment(to, 0, AccessWriteAll)
		pb.SetRenderFunc(func(_ *struct{}, ctx *RasterContext) error {
			from, err := ctx.Texture(src)
			if err != nil {
				return err
			}
			out, err := ctx.Attachment(0)
			if err != nil {
				return err
			}
			return ctx.Draw(func() error { return out.CopyFrom(from) })
		})
	}
	blit("h", a, b)
	blit("v", b, a)
	g.AddCopyPass(a, dst)

	stats, err := g.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, ps := range stats.Passes {
		if ps.Culled {
			t.Errorf("pass %q should not be culled", ps.Name)
		}
	}
	if got := target.At(0, 0).X; got < 0.24 || got > 0.26 {
		t.Errorf("final texel = %v, want 0.25", got)
	}
}

func TestReadBeforeWrite(t *testing.T) {
	g := New(nil)
	dst := g.ImportTexture(textures.New(colorDesc("camera")))
	never := g.CreateTexture(colorDesc("never"))
	g.AddCopyPass(never, dst)

	if _, err := g.Execute(context.Background()); !errors.Is(err, ErrReadBeforeWrite) {
		t.Errorf("Execute error = %v, want ErrReadBeforeWrite", err)
	}
}

func TestUndeclaredAccess(t *testing.T) {
	g := New(nil)
	hidden := g.ImportTexture(textures.New(colorDesc("hidden")))
	out := g.ImportTexture(textures.New(colorDesc("out")))

	b, _ := AddRasterPass[struct{}](g, "sneaky")
	b.SetRenderAttachment(out, 0, AccessWriteAll)
	b.SetRenderFunc(func(_ *struct{}, ctx *RasterContext) error {
		_, err := ctx.Texture(hidden)
		return err
	})

	if _, err := g.Execute(context.Background()); !errors.Is(err, ErrUndeclared) {
		t.Errorf("Execute error = %v, want ErrUndeclared", err)
	}
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name   string
		record func(g *Graph)
		want   error
	}{
		{"no render func", func(g *Graph) {
			AddRasterPass[struct{}](g, "empty")
		}, ErrNoRenderFunc},
		{"invalid handle", func(g *Graph) {
			b, _ := AddRasterPass[struct{}](g, "bad")
			b.UseTexture(NullHandle, AccessRead)
			b.SetRenderFunc(func(*struct{}, *RasterContext) error { return nil })
		}, ErrInvalidHandle},
		{"depth attachment", func(g *Graph) {
			d := g.ImportDepth("depth", textures.NewDepthBuffer(4, 3))
			b, _ := AddRasterPass[struct{}](g, "bad")
			b.SetRenderAttachment(d, 0, AccessWriteAll)
			b.SetRenderFunc(func(*struct{}, *RasterContext) error { return nil })
		}, ErrWrongKind},
		{"read write hazard", func(g *Graph) {
			h := g.ImportTexture(textures.New(colorDesc("both")))
			b, _ := AddRasterPass[struct{}](g, "bad")
			b.UseTexture(h, AccessRead)
			b.SetRenderAttachment(h, 0, AccessWriteAll)
			b.SetRenderFunc(func(*struct{}, *RasterContext) error { return nil })
		}, ErrHazard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			tt.record(g)
			if _, err := g.Execute(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("Execute error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	g := New(nil)
	dst := g.ImportTexture(textures.New(colorDesc("camera")))
	addFill(g, "fill", dst, 1, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := g.Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
	if stats.Draws != 0 {
		t.Errorf("no pass should run after cancellation, got %d draws", stats.Draws)
	}
}

func TestResetRecyclesTransients(t *testing.T) {
	g := New(nil)
	var seen []*textures.Texture

	record := func() {
		dst := g.ImportTexture(textures.New(colorDesc("camera")))
		tmp := g.CreateTexture(colorDesc("tmp"))
		addFill(g, "fill", tmp, 1, true)

		b, _ := AddRasterPass[struct{}](g, "capture")
		b.UseTexture(tmp, AccessRead)
		b.SetRenderAttachment(dst, 0, AccessWriteAll)
		b.SetRenderFunc(func(_ *struct{}, ctx *RasterContext) error {
			tex, err := ctx.Texture(tmp)
			seen = append(seen, tex)
			return err
		})
	}

	record()
	if _, err := g.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	g.Reset()
	if g.PassCount() != 0 || g.ResourceCount() != 0 {
		t.Fatalf("Reset left %d passes and %d resources", g.PassCount(), g.ResourceCount())
	}

	record()
	if _, err := g.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != seen[1] {
		t.Errorf("expected the transient texture to be reused across frames")
	}
}

func TestGetTextureDesc(t *testing.T) {
	g := New(nil)
	h := g.CreateTexture(colorDesc("CustomSSAO_AO"))
	desc, err := g.GetTextureDesc(h)
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name != "CustomSSAO_AO" || desc.Width != 4 || desc.Height != 3 {
		t.Errorf("unexpected desc %+v", desc)
	}
	if _, err := g.GetTextureDesc(TextureHandle{id: 99}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}
