package rendergraph

import "fmt"

type passKind int

const (
	passRaster passKind = iota
	passCopy
)

type access struct {
	handle TextureHandle
	flags  AccessFlags
}

type pass struct {
	name string
	kind passKind

	uses        []access
	attachments map[int]access
	cullable    bool

	execute func(ctx *RasterContext) error
	err     error
}

func (p *pass) reads() []TextureHandle {
	var out []TextureHandle
	for _, u := range p.uses {
		if u.flags&AccessRead != 0 {
			out = append(out, u.handle)
		}
	}
	for _, a := range p.attachments {
		if a.flags&AccessRead != 0 {
			out = append(out, a.handle)
		}
	}
	return out
}

func (p *pass) writes() []TextureHandle {
	var out []TextureHandle
	for _, u := range p.uses {
		if u.flags&AccessWrite != 0 {
			out = append(out, u.handle)
		}
	}
	for _, a := range p.attachments {
		if a.flags&AccessWrite != 0 {
			out = append(out, a.handle)
		}
	}
	return out
}

func (p *pass) declares(h TextureHandle) bool {
	for _, u := range p.uses {
		if u.handle == h {
			return true
		}
	}
	for _, a := range p.attachments {
		if a.handle == h {
			return true
		}
	}
	return false
}

// RasterPassBuilder declares the resources, attachments and render function
// of a raster pass. T is the pass data type handed to the render function.
type RasterPassBuilder[T any] struct {
	graph *Graph
	pass  *pass
	data  *T
}

// AddRasterPass appends a raster pass named name and returns its builder
// along with a zeroed pass data value to fill in.
func AddRasterPass[T any](g *Graph, name string) (*RasterPassBuilder[T], *T) {
	p := &pass{name: name, kind: passRaster, attachments: make(map[int]access), cullable: true}
	g.passes = append(g.passes, p)

	data := new(T)
	return &RasterPassBuilder[T]{graph: g, pass: p, data: data}, data
}

// UseTexture declares a non-attachment access to h.
func (b *RasterPassBuilder[T]) UseTexture(h TextureHandle, flags AccessFlags) {
	if _, err := b.graph.lookup(h); err != nil {
		b.fail(err)
		return
	}
	b.pass.uses = append(b.pass.uses, access{handle: h, flags: flags})
}

// SetRenderAttachment binds a color texture to attachment slot index.
func (b *RasterPassBuilder[T]) SetRenderAttachment(h TextureHandle, index int, flags AccessFlags) {
	res, err := b.graph.lookup(h)
	if err != nil {
		b.fail(err)
		return
	}
	if res.kind != KindColor {
		b.fail(fmt.Errorf("%w: attachment %d is %s", ErrWrongKind, index, res.kind))
		return
	}
	if _, bound := b.pass.attachments[index]; bound {
		b.fail(fmt.Errorf("%w: slot %d", ErrAttachment, index))
		return
	}
	b.pass.attachments[index] = access{handle: h, flags: flags | AccessWrite}
}

// AllowPassCulling controls whether the pass may be dropped when nothing
// reads its outputs. Passes are cullable by default.
func (b *RasterPassBuilder[T]) AllowPassCulling(allow bool) {
	b.pass.cullable = allow
}

// SetRenderFunc sets the function executed for the pass.
func (b *RasterPassBuilder[T]) SetRenderFunc(fn func(data *T, ctx *RasterContext) error) {
	data := b.data
	b.pass.execute = func(ctx *RasterContext) error {
		return fn(data, ctx)
	}
}

// fail records the first declaration error; Execute reports it.
func (b *RasterPassBuilder[T]) fail(err error) {
	if b.pass.err == nil {
		b.pass.err = err
	}
}

// AddCopyPass appends a pass that copies src into dst. Copies are never
// culled when dst is imported.
func (g *Graph) AddCopyPass(src, dst TextureHandle) {
	p := &pass{
		name:        "Copy Pass",
		kind:        passCopy,
		attachments: make(map[int]access),
		cullable:    true,
	}
	p.uses = append(p.uses, access{handle: src, flags: AccessRead})
	p.attachments[0] = access{handle: dst, flags: AccessWriteAll}

	for _, h := range []TextureHandle{src, dst} {
		if res, err := g.lookup(h); err != nil {
			p.err = err
			break
		} else if res.kind != KindColor {
			p.err = fmt.Errorf("%w: copy of %s resource", ErrWrongKind, res.kind)
			break
		}
	}

	p.execute = func(ctx *RasterContext) error {
		from, err := ctx.Texture(src)
		if err != nil {
			return err
		}
		to, err := ctx.Attachment(0)
		if err != nil {
			return err
		}
		return ctx.Draw(func() error {
			return to.CopyFrom(from)
		})
	}
	g.passes = append(g.passes, p)
}
