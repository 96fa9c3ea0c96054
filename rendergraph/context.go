package rendergraph

import (
	"fmt"

	"ssao-engine/textures"
)

// RasterContext gives a render function access to the resources its pass
// declared, plus the worker pool for row-band dispatch.
type RasterContext struct {
	graph *Graph
	pass  *pass
	stats *PassStats
}

// Texture returns the color texture behind h.
func (c *RasterContext) Texture(h TextureHandle) (*textures.Texture, error) {
	res, err := c.resolve(h, KindColor)
	if err != nil {
		return nil, err
	}
	return res.color, nil
}

// Depth returns the depth buffer behind h.
func (c *RasterContext) Depth(h TextureHandle) (*textures.DepthBuffer, error) {
	res, err := c.resolve(h, KindDepth)
	if err != nil {
		return nil, err
	}
	return res.depth, nil
}

// Normals returns the normal buffer behind h.
func (c *RasterContext) Normals(h TextureHandle) (*textures.NormalBuffer, error) {
	res, err := c.resolve(h, KindNormals)
	if err != nil {
		return nil, err
	}
	return res.normals, nil
}

// Attachment returns the texture bound to slot index.
func (c *RasterContext) Attachment(index int) (*textures.Texture, error) {
	a, ok := c.pass.attachments[index]
	if !ok {
		return nil, fmt.Errorf("%w: no attachment in slot %d", ErrUndeclared, index)
	}
	return c.Texture(a.handle)
}

// ForRows splits [0, height) into bands over the graph's worker pool.
func (c *RasterContext) ForRows(height int, fn func(y0, y1 int)) {
	c.graph.pool.ForRows(height, fn)
}

// Draw records one draw call. On success every attachment of the pass
// counts as written.
func (c *RasterContext) Draw(fn func() error) error {
	c.stats.Draws++
	if err := fn(); err != nil {
		return err
	}
	c.stats.TextureWrites += len(c.pass.attachments)
	return nil
}

func (c *RasterContext) resolve(h TextureHandle, kind ResourceKind) (*resource, error) {
	res, err := c.graph.lookup(h)
	if err != nil {
		return nil, err
	}
	if !c.pass.declares(h) {
		return nil, fmt.Errorf("%w: %s %q in pass %q", ErrUndeclared, res.kind, res.name, c.pass.name)
	}
	if res.kind != kind {
		return nil, fmt.Errorf("%w: %q is %s, want %s", ErrWrongKind, res.name, res.kind, kind)
	}
	return res, nil
}
