package rendergraph

import (
	"errors"
	"fmt"

	"ssao-engine/internal/parallel"
	"ssao-engine/log"
	"ssao-engine/textures"
)

var (
	ErrInvalidHandle   = errors.New("rendergraph: invalid texture handle")
	ErrWrongKind       = errors.New("rendergraph: resource has the wrong kind")
	ErrReadBeforeWrite = errors.New("rendergraph: transient resource read before any pass wrote it")
	ErrUndeclared      = errors.New("rendergraph: resource access was not declared by the pass")
	ErrNoRenderFunc    = errors.New("rendergraph: raster pass has no render function")
	ErrAttachment      = errors.New("rendergraph: render attachment slot is already bound")
	ErrHazard          = errors.New("rendergraph: resource is both read and written by one pass")
)

var logger = log.New("rendergraph")

// Graph records passes for one frame and executes them in declaration order.
// Transient textures live in a frame-scoped arena and are recycled by Reset.
type Graph struct {
	pool *parallel.Pool

	resources []*resource
	passes    []*pass

	free []*textures.Texture
}

// New creates an empty graph. pool may be nil for single-threaded execution.
func New(pool *parallel.Pool) *Graph {
	return &Graph{pool: pool}
}

// CreateTexture declares a transient color texture. Memory is assigned when
// the graph executes.
func (g *Graph) CreateTexture(desc textures.Desc) TextureHandle {
	return g.add(&resource{name: desc.Name, kind: KindColor, desc: desc})
}

// ImportTexture registers an externally owned color texture.
func (g *Graph) ImportTexture(tex *textures.Texture) TextureHandle {
	return g.add(&resource{name: tex.Name, kind: KindColor, desc: tex.Desc, imported: true, color: tex})
}

// ImportDepth registers an externally owned depth buffer.
func (g *Graph) ImportDepth(name string, depth *textures.DepthBuffer) TextureHandle {
	return g.add(&resource{
		name:     name,
		kind:     KindDepth,
		desc:     textures.Desc{Name: name, Width: depth.Width, Height: depth.Height, Format: textures.FormatRGBAFloat},
		imported: true,
		depth:    depth,
	})
}

// ImportNormals registers an externally owned view-space normal buffer.
func (g *Graph) ImportNormals(name string, normals *textures.NormalBuffer) TextureHandle {
	return g.add(&resource{
		name:     name,
		kind:     KindNormals,
		desc:     textures.Desc{Name: name, Width: normals.Width, Height: normals.Height, Format: textures.FormatRGBAFloat},
		imported: true,
		normals:  normals,
	})
}

// GetTextureDesc returns the descriptor a handle was created or imported with.
func (g *Graph) GetTextureDesc(h TextureHandle) (textures.Desc, error) {
	res, err := g.lookup(h)
	if err != nil {
		return textures.Desc{}, err
	}
	return res.desc, nil
}

// PassCount returns the number of recorded passes.
func (g *Graph) PassCount() int {
	return len(g.passes)
}

// ResourceCount returns the number of declared resources.
func (g *Graph) ResourceCount() int {
	return len(g.resources)
}

// Reset forgets all recorded passes and resources. Transient textures are
// kept for reuse by the next frame.
func (g *Graph) Reset() {
	for _, res := range g.resources {
		if !res.imported && res.color != nil {
			g.free = append(g.free, res.color)
		}
	}
	g.resources = g.resources[:0]
	g.passes = g.passes[:0]
}

func (g *Graph) add(res *resource) TextureHandle {
	g.resources = append(g.resources, res)
	return TextureHandle{id: len(g.resources)}
}

func (g *Graph) lookup(h TextureHandle) (*resource, error) {
	if h.id < 1 || h.id > len(g.resources) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return g.resources[h.id-1], nil
}

// allocate binds memory to a transient, reusing a recycled texture with a
// matching size and format when one exists. Reused contents are undefined.
func (g *Graph) allocate(res *resource) {
	if res.color != nil {
		return
	}
	for i, tex := range g.free {
		if tex.Width == res.desc.Width && tex.Height == res.desc.Height && tex.Format == res.desc.Format {
			g.free = append(g.free[:i], g.free[i+1:]...)
			tex.Desc = res.desc
			res.color = tex
			return
		}
	}
	res.color = textures.New(res.desc)
}
