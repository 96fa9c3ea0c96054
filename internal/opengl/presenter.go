// Package opengl shows CPU-rendered frames in an OpenGL 4.1 core context.
package opengl

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"ssao-engine/log"
	"ssao-engine/textures"
)

var logger = log.New("opengl")

var ErrFormat = errors.New("opengl: only RGBA8 frames can be presented")

// Presenter uploads a frame texture and draws it over the default
// framebuffer. It must be used on the goroutine owning the GL context.
type Presenter struct {
	program uint32
	vao     uint32
	tex     uint32

	fitLoc   int32
	frameLoc int32

	texW, texH int
}

// NewPresenter loads the GL function pointers and builds the present program.
// A GL context must be current.
func NewPresenter() (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(presentVertSrc, presentFragSrc)
	if err != nil {
		return nil, fmt.Errorf("present shader: %w", err)
	}
	p := &Presenter{
		program:  prog,
		fitLoc:   gl.GetUniformLocation(prog, gl.Str("fit\x00")),
		frameLoc: gl.GetUniformLocation(prog, gl.Str("frame\x00")),
	}
	gl.GenVertexArrays(1, &p.vao)

	gl.GenTextures(1, &p.tex)
	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return p, nil
}

// Present uploads frame and draws it letterboxed into a viewport of the
// given framebuffer size.
func (p *Presenter) Present(frame *textures.Texture, fbWidth, fbHeight int) error {
	if frame.Format != textures.FormatRGBA8 {
		return ErrFormat
	}
	if frame.Width == 0 || frame.Height == 0 || fbWidth <= 0 || fbHeight <= 0 {
		return nil
	}

	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	filter := int32(gl.NEAREST)
	if frame.Filter == textures.FilterBilinear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if frame.Width != p.texW || frame.Height != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(frame.Width), int32(frame.Height),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
		p.texW, p.texH = frame.Width, frame.Height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(frame.Width), int32(frame.Height),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	}

	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.DEPTH_TEST)

	fit := FitMatrix(frame.Width, frame.Height, fbWidth, fbHeight)
	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.fitLoc, 1, false, &fit[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.frameLoc, 0)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// FitMatrix scales clip space so a srcW x srcH image fills as much of a
// dstW x dstH viewport as it can without distortion.
func FitMatrix(srcW, srcH, dstW, dstH int) mgl32.Mat4 {
	src := float32(srcW) / float32(srcH)
	dst := float32(dstW) / float32(dstH)
	if src > dst {
		return mgl32.Scale3D(1, dst/src, 1)
	}
	return mgl32.Scale3D(src/dst, 1, 1)
}

func (p *Presenter) Destroy() {
	if p.tex != 0 {
		gl.DeleteTextures(1, &p.tex)
		p.tex = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
