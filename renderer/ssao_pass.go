package renderer

import (
	"fmt"

	"ssao-engine/blur"
	"ssao-engine/config"
	"ssao-engine/kernel"
	"ssao-engine/occlusion"
	"ssao-engine/rendergraph"
	"ssao-engine/textures"
)

const (
	AOTextureName   = "CustomSSAO_AO"
	BlurTextureName = "CustomSSAO_Blur"

	SSAOPassName  = "Custom SSAO"
	BlurHPassName = "Custom SSAO Blur H"
	BlurVPassName = "Custom SSAO Blur V"
)

const colorSlot = 0

type ssaoPassData struct {
	program *occlusion.Program
	kernel  *kernel.Generator
	params  occlusion.Params

	depth   rendergraph.TextureHandle
	normals rendergraph.TextureHandle
	camera  rendergraph.CameraData
}

type blurPassData struct {
	program *blur.Program
	params  blur.Params
	src     rendergraph.TextureHandle
}

// SSAOPass records the occlusion estimate, the optional separable blur and
// the copy into the active color target.
type SSAOPass struct {
	settings *config.Settings
	kernel   *kernel.Generator
	input    PassInput
}

// NewSSAOPass creates a pass reading settings at record time. The pass owns
// the kernel cache.
func NewSSAOPass(settings *config.Settings) *SSAOPass {
	return &SSAOPass{
		settings: settings,
		kernel:   kernel.NewGenerator(settings.KernelSeed),
	}
}

func (p *SSAOPass) Name() string { return SSAOPassName }

func (p *SSAOPass) Event() config.Event { return p.settings.Event }

func (p *SSAOPass) Input() PassInput { return p.input }

// ConfigureInput declares the camera buffers the pass reads.
func (p *SSAOPass) ConfigureInput(in PassInput) { p.input = in }

// Kernel exposes the sample kernel cache.
func (p *SSAOPass) Kernel() *kernel.Generator { return p.kernel }

// RecordRenderGraph declares this frame's passes. Nothing is recorded when
// AO is hidden, the program is missing or the target is the back buffer.
func (p *SSAOPass) RecordRenderGraph(g *rendergraph.Graph, frame *rendergraph.FrameData) error {
	s := *p.settings
	if !s.ShowAO || s.SSAOProgram == nil {
		return nil
	}
	res := frame.Resources
	if res.IsActiveTargetBackBuffer {
		return nil
	}

	colorDesc, err := g.GetTextureDesc(res.ActiveColor)
	if err != nil {
		return fmt.Errorf("active color: %w", err)
	}
	aoDesc := textures.Desc{
		Name:   AOTextureName,
		Width:  colorDesc.Width,
		Height: colorDesc.Height,
		Format: textures.FormatRGBA8,
		Filter: textures.FilterBilinear,
		Wrap:   textures.WrapClamp,
	}
	ao := g.CreateTexture(aoDesc)

	builder, data := rendergraph.AddRasterPass[ssaoPassData](g, SSAOPassName)
	data.program = s.SSAOProgram
	data.kernel = p.kernel
	data.params = occlusionParams(&s)
	data.depth = res.CameraDepth
	data.normals = res.CameraNormals
	data.camera = frame.Camera

	builder.UseTexture(res.CameraDepth, rendergraph.AccessRead)
	if res.CameraNormals.IsValid() {
		builder.UseTexture(res.CameraNormals, rendergraph.AccessRead)
	}
	builder.SetRenderAttachment(ao, colorSlot, rendergraph.AccessWrite)
	builder.AllowPassCulling(false)
	builder.SetRenderFunc(executeSSAO)

	if s.ApplyBlur && s.BlurProgram != nil {
		blurDesc := aoDesc
		blurDesc.Name = BlurTextureName
		scratch := g.CreateTexture(blurDesc)

		params := blur.Params{Spread: s.BlurSpread, GridSize: s.GridSize()}
		recordBlur(g, BlurHPassName, s.BlurProgram, params, blur.Horizontal, ao, scratch)
		recordBlur(g, BlurVPassName, s.BlurProgram, params, blur.Vertical, scratch, ao)
	}

	g.AddCopyPass(ao, res.ActiveColor)
	return nil
}

func recordBlur(g *rendergraph.Graph, name string, program *blur.Program, params blur.Params, axis blur.Axis, src, dst rendergraph.TextureHandle) {
	builder, data := rendergraph.AddRasterPass[blurPassData](g, name)
	data.program = program
	data.params = params
	data.params.Axis = axis
	data.src = src

	builder.UseTexture(src, rendergraph.AccessRead)
	builder.SetRenderAttachment(dst, colorSlot, rendergraph.AccessWriteAll)
	builder.AllowPassCulling(false)
	builder.SetRenderFunc(executeBlur)
}

func executeSSAO(data *ssaoPassData, ctx *rendergraph.RasterContext) error {
	method := data.params.Variant.Method
	before := data.kernel.Generations()
	samples, err := data.kernel.Get(data.params.SampleCount, method)
	if err != nil {
		return err
	}
	if data.kernel.Generations() != before {
		logger.Debugf("regenerated %s kernel with %d samples", method, len(samples))
	}
	data.params.SetKernel(samples)

	in := occlusion.Inputs{
		Projection:    data.camera.Projection,
		InvProjection: data.camera.InvProjection,
	}
	if in.Depth, err = ctx.Depth(data.depth); err != nil {
		return err
	}
	if data.normals.IsValid() {
		if in.Normals, err = ctx.Normals(data.normals); err != nil {
			return err
		}
	}
	dst, err := ctx.Attachment(colorSlot)
	if err != nil {
		return err
	}

	return ctx.Draw(func() error {
		return data.program.Draw(dst, in, data.params, ctx)
	})
}

func executeBlur(data *blurPassData, ctx *rendergraph.RasterContext) error {
	src, err := ctx.Texture(data.src)
	if err != nil {
		return err
	}
	dst, err := ctx.Attachment(colorSlot)
	if err != nil {
		return err
	}
	return ctx.Draw(func() error {
		return data.program.Draw(dst, src, data.params, ctx)
	})
}

func occlusionParams(s *config.Settings) occlusion.Params {
	return occlusion.Params{
		Variant:       s.Variant(),
		Radius:        s.Radius,
		SampleCount:   s.SampleCount,
		BiasV1:        s.BiasV1,
		Scale:         s.Scale,
		BiasV2:        s.BiasV2,
		PowerV2:       s.PowerV2,
		FullThreshold: s.FullOcclusionThreshold,
		NoThreshold:   s.NoOcclusionThreshold,
		PowerV3:       s.PowerV3,
	}
}
