package textures

import (
	"image"
	"image/color"

	"ssao-engine/math"
)

// DepthBuffer stores window-space depth in [0, 1]; 1 is the far plane.
type DepthBuffer struct {
	Width  int
	Height int
	Data   []float32
}

// NewDepthBuffer allocates a depth buffer cleared to the far plane.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Width: width, Height: height, Data: make([]float32, width*height)}
	d.Clear(1)
	return d
}

func (d *DepthBuffer) Clear(v float32) {
	for i := range d.Data {
		d.Data[i] = v
	}
}

func (d *DepthBuffer) At(x, y int) float32 {
	return d.Data[y*d.Width+x]
}

func (d *DepthBuffer) Set(x, y int, v float32) {
	d.Data[y*d.Width+x] = v
}

// Fetch reads the depth at (x, y) with clamp addressing.
func (d *DepthBuffer) Fetch(x, y int) float32 {
	return d.At(math.ClampInt(x, 0, d.Width-1), math.ClampInt(y, 0, d.Height-1))
}

// ToImage renders the depth as grayscale, near = black.
func (d *DepthBuffer) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	for i, v := range d.Data {
		img.Pix[i] = uint8(math.Saturate(v)*255 + 0.5)
	}
	return img
}

// NormalBuffer stores unit view-space normals. The zero vector marks texels
// no geometry covered.
type NormalBuffer struct {
	Width  int
	Height int
	Data   []math.Vec3
}

func NewNormalBuffer(width, height int) *NormalBuffer {
	return &NormalBuffer{Width: width, Height: height, Data: make([]math.Vec3, width*height)}
}

// Clear resets every texel to the zero vector.
func (n *NormalBuffer) Clear() {
	clear(n.Data)
}

func (n *NormalBuffer) At(x, y int) math.Vec3 {
	return n.Data[y*n.Width+x]
}

func (n *NormalBuffer) Set(x, y int, v math.Vec3) {
	n.Data[y*n.Width+x] = v
}

// Fetch reads the normal at (x, y) with clamp addressing.
func (n *NormalBuffer) Fetch(x, y int) math.Vec3 {
	return n.At(math.ClampInt(x, 0, n.Width-1), math.ClampInt(y, 0, n.Height-1))
}

// ToImage encodes normals as n*0.5+0.5 in RGB.
func (n *NormalBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n.Width, n.Height))
	for y := 0; y < n.Height; y++ {
		for x := 0; x < n.Width; x++ {
			v := n.At(x, y).Mul(0.5).Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
			img.SetRGBA(x, y, color.RGBA{R: unorm8(v.X), G: unorm8(v.Y), B: unorm8(v.Z), A: 255})
		}
	}
	return img
}
