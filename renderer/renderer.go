package renderer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ssao-engine/config"
	"ssao-engine/internal/parallel"
	"ssao-engine/internal/raster"
	"ssao-engine/rendergraph"
	"ssao-engine/scene"
	"ssao-engine/textures"
)

const (
	OpaquePassName = "Draw Opaques"

	CameraColorName   = "CameraColor"
	CameraDepthName   = "CameraDepth"
	CameraNormalsName = "CameraNormals"
)

// RenderEngine is the host pipeline. Each frame it rasterizes the scene into
// the camera targets, then records and executes the enqueued passes through
// a render graph.
type RenderEngine struct {
	Scene *scene.Scene

	// BackBuffer marks the camera color target as the swapchain image.
	// Passes that need to read it skip themselves.
	BackBuffer bool

	width, height int
	pool          *parallel.Pool
	graph         *rendergraph.Graph
	raster        *raster.Rasterizer

	features []Feature
	queue    []RenderPass

	color   *textures.Texture
	depth   *textures.DepthBuffer
	normals *textures.NormalBuffer

	frames uint64
	last   FrameStats
}

type opaquePassData struct {
	scene   *scene.Scene
	raster  *raster.Rasterizer
	depth   rendergraph.TextureHandle
	normals rendergraph.TextureHandle
	stats   *raster.Stats
}

// NewRenderEngine creates an engine with camera targets of the given size.
// pool may be nil to run everything on the caller goroutine.
func NewRenderEngine(width, height int, pool *parallel.Pool) (*RenderEngine, error) {
	re := &RenderEngine{
		pool:   pool,
		graph:  rendergraph.New(pool),
		raster: raster.New(pool),
	}
	if err := re.Resize(width, height); err != nil {
		return nil, err
	}
	logger.Infof("render engine initialized (%dx%d, %d workers)", width, height, pool.Workers())
	return re, nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
	re.syncCamera()
}

// AddFeature creates f and adds it to the per-frame feature list.
func (re *RenderEngine) AddFeature(f Feature) {
	f.Create()
	re.features = append(re.features, f)
}

// EnqueuePass implements Pipeline.
func (re *RenderEngine) EnqueuePass(pass RenderPass) {
	re.queue = append(re.queue, pass)
}

// Resize reallocates the camera targets.
func (re *RenderEngine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	re.width, re.height = width, height
	re.color = textures.New(textures.Desc{
		Name:   CameraColorName,
		Width:  width,
		Height: height,
		Format: textures.FormatRGBA8,
		Filter: textures.FilterBilinear,
	})
	re.depth = textures.NewDepthBuffer(width, height)
	re.normals = textures.NewNormalBuffer(width, height)
	re.syncCamera()
	return nil
}

func (re *RenderEngine) syncCamera() {
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(re.width), float32(re.height))
	}
}

// Size returns the camera target dimensions.
func (re *RenderEngine) Size() (int, int) { return re.width, re.height }

// Color is the camera color target holding the last published frame.
func (re *RenderEngine) Color() *textures.Texture { return re.color }

func (re *RenderEngine) Depth() *textures.DepthBuffer { return re.depth }

func (re *RenderEngine) Normals() *textures.NormalBuffer { return re.normals }

// Render draws one frame. Passes are recorded in event order around the
// opaque pass and executed in that order.
func (re *RenderEngine) Render(ctx context.Context) (FrameStats, error) {
	if re.Scene == nil || re.Scene.Camera == nil {
		return FrameStats{}, ErrNoScene
	}
	start := time.Now()

	re.queue = re.queue[:0]
	for _, f := range re.features {
		f.AddRenderPasses(re)
	}
	sort.SliceStable(re.queue, func(i, j int) bool {
		return re.queue[i].Event() < re.queue[j].Event()
	})
	var input PassInput
	for _, p := range re.queue {
		input |= p.Input()
	}

	re.graph.Reset()
	frame := re.importTargets(input)

	var drawStats raster.Stats
	i := 0
	for ; i < len(re.queue) && re.queue[i].Event() == config.BeforeRenderingOpaques; i++ {
		if err := re.record(re.queue[i], frame); err != nil {
			return FrameStats{}, err
		}
	}
	re.recordOpaques(frame, &drawStats)
	for ; i < len(re.queue); i++ {
		if err := re.record(re.queue[i], frame); err != nil {
			return FrameStats{}, err
		}
	}

	graphStats, err := re.graph.Execute(ctx)
	if err != nil {
		return FrameStats{}, fmt.Errorf("frame %d: %w", re.frames, err)
	}

	re.frames++
	re.last = FrameStats{
		Frame:     re.frames,
		Graph:     graphStats,
		Nodes:     drawStats.Nodes,
		Triangles: drawStats.Triangles,
		Duration:  time.Since(start),
	}
	logger.Infof("frame %d: %d passes, %d draws, %d triangles in %v",
		re.last.Frame, len(graphStats.Passes), graphStats.Draws, drawStats.Triangles, re.last.Duration)
	return re.last, nil
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() FrameStats { return re.last }

func (re *RenderEngine) importTargets(input PassInput) *rendergraph.FrameData {
	cam := re.Scene.Camera
	color := re.graph.ImportTexture(re.color)

	res := rendergraph.ResourceData{
		CameraColor:              color,
		ActiveColor:              color,
		CameraDepth:              re.graph.ImportDepth(CameraDepthName, re.depth),
		CameraNormals:            rendergraph.NullHandle,
		IsActiveTargetBackBuffer: re.BackBuffer,
	}
	if input&InputNormal != 0 {
		res.CameraNormals = re.graph.ImportNormals(CameraNormalsName, re.normals)
	}

	return &rendergraph.FrameData{
		Resources: res,
		Camera: rendergraph.CameraData{
			Width:         re.width,
			Height:        re.height,
			View:          cam.GetViewMatrix(),
			Projection:    cam.GetProjectionMatrix(),
			InvProjection: cam.GetInverseProjectionMatrix(),
		},
	}
}

func (re *RenderEngine) record(pass RenderPass, frame *rendergraph.FrameData) error {
	if err := pass.RecordRenderGraph(re.graph, frame); err != nil {
		return fmt.Errorf("record %q: %w", pass.Name(), err)
	}
	return nil
}

func (re *RenderEngine) recordOpaques(frame *rendergraph.FrameData, stats *raster.Stats) {
	res := frame.Resources
	builder, data := rendergraph.AddRasterPass[opaquePassData](re.graph, OpaquePassName)
	data.scene = re.Scene
	data.raster = re.raster
	data.depth = res.CameraDepth
	data.normals = res.CameraNormals
	data.stats = stats

	builder.UseTexture(res.CameraDepth, rendergraph.AccessWriteAll)
	if res.CameraNormals.IsValid() {
		builder.UseTexture(res.CameraNormals, rendergraph.AccessWriteAll)
	}
	builder.SetRenderAttachment(res.CameraColor, colorSlot, rendergraph.AccessWriteAll)
	builder.AllowPassCulling(false)
	builder.SetRenderFunc(func(d *opaquePassData, ctx *rendergraph.RasterContext) error {
		var t raster.Target
		var err error
		if t.Color, err = ctx.Attachment(colorSlot); err != nil {
			return err
		}
		if t.Depth, err = ctx.Depth(d.depth); err != nil {
			return err
		}
		if d.normals.IsValid() {
			if t.Normals, err = ctx.Normals(d.normals); err != nil {
				return err
			}
		}
		return ctx.Draw(func() error {
			s, err := d.raster.Draw(d.scene, t)
			*d.stats = s
			return err
		})
	})
}
