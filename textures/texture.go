package textures

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chewxy/math32"

	"ssao-engine/math"
)

// Format is the texel storage of a Texture.
type Format int

const (
	// FormatRGBA8 stores four unsigned normalized bytes per texel.
	FormatRGBA8 Format = iota
	// FormatRGBAFloat stores four float32 values per texel.
	FormatRGBAFloat
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "R8G8B8A8_UNorm"
	case FormatRGBAFloat:
		return "RGBAFloat"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

type Filter int

const (
	FilterPoint Filter = iota
	FilterBilinear
)

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

var ErrSizeMismatch = errors.New("textures: size mismatch")

// Desc describes a texture allocation.
type Desc struct {
	Name   string
	Width  int
	Height int
	Format Format
	Filter Filter
	Wrap   Wrap
}

// Texture holds CPU-side texel data, row-major, row 0 at the top.
// Pix is used by FormatRGBA8 and Data by FormatRGBAFloat.
type Texture struct {
	Desc

	Pix  []uint8
	Data []float32
}

// New allocates a zeroed texture for desc.
func New(desc Desc) *Texture {
	if desc.Width < 0 || desc.Height < 0 {
		desc.Width, desc.Height = 0, 0
	}
	t := &Texture{Desc: desc}
	n := desc.Width * desc.Height * 4
	switch desc.Format {
	case FormatRGBAFloat:
		t.Data = make([]float32, n)
	default:
		t.Pix = make([]uint8, n)
	}
	return t
}

// At returns the texel at (x, y) as normalized floats. The coordinates must
// be inside the texture.
func (t *Texture) At(x, y int) math.Vec4 {
	i := (y*t.Width + x) * 4
	if t.Format == FormatRGBAFloat {
		return math.Vec4{X: t.Data[i], Y: t.Data[i+1], Z: t.Data[i+2], W: t.Data[i+3]}
	}
	return math.Vec4{
		X: float32(t.Pix[i]) / 255,
		Y: float32(t.Pix[i+1]) / 255,
		Z: float32(t.Pix[i+2]) / 255,
		W: float32(t.Pix[i+3]) / 255,
	}
}

// Set stores v at (x, y). RGBA8 textures saturate and round each channel.
func (t *Texture) Set(x, y int, v math.Vec4) {
	i := (y*t.Width + x) * 4
	if t.Format == FormatRGBAFloat {
		t.Data[i], t.Data[i+1], t.Data[i+2], t.Data[i+3] = v.X, v.Y, v.Z, v.W
		return
	}
	t.Pix[i] = unorm8(v.X)
	t.Pix[i+1] = unorm8(v.Y)
	t.Pix[i+2] = unorm8(v.Z)
	t.Pix[i+3] = unorm8(v.W)
}

// Fetch returns the texel at (x, y) after applying the wrap mode.
func (t *Texture) Fetch(x, y int) math.Vec4 {
	return t.At(t.address(x, t.Width), t.address(y, t.Height))
}

// Sample filters the texture at normalized coordinates uv, (0, 0) being the
// top-left corner.
func (t *Texture) Sample(uv math.Vec2) math.Vec4 {
	if t.Width == 0 || t.Height == 0 {
		return math.Vec4{}
	}

	fx := uv.X*float32(t.Width) - 0.5
	fy := uv.Y*float32(t.Height) - 0.5

	if t.Filter == FilterPoint {
		return t.Fetch(int(math32.Floor(fx+0.5)), int(math32.Floor(fy+0.5)))
	}

	x0 := math32.Floor(fx)
	y0 := math32.Floor(fy)
	tx := fx - x0
	ty := fy - y0
	ix, iy := int(x0), int(y0)

	top := t.Fetch(ix, iy).Mul(1 - tx).Add(t.Fetch(ix+1, iy).Mul(tx))
	bottom := t.Fetch(ix, iy+1).Mul(1 - tx).Add(t.Fetch(ix+1, iy+1).Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

// Clear fills every texel with v.
func (t *Texture) Clear(v math.Vec4) {
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			t.Set(x, y, v)
		}
	}
}

// CopyFrom copies src into t texel by texel, converting formats as needed.
func (t *Texture) CopyFrom(src *Texture) error {
	if src.Width != t.Width || src.Height != t.Height {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrSizeMismatch, src.Width, src.Height, t.Width, t.Height)
	}
	if src.Format == t.Format {
		copy(t.Pix, src.Pix)
		copy(t.Data, src.Data)
		return nil
	}
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			t.Set(x, y, src.At(x, y))
		}
	}
	return nil
}

// ToImage converts the texture to an 8-bit RGBA image.
func (t *Texture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	if t.Format == FormatRGBA8 {
		copy(img.Pix, t.Pix)
		return img
	}
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			v := t.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: unorm8(v.X), G: unorm8(v.Y), B: unorm8(v.Z), A: unorm8(v.W)})
		}
	}
	return img
}

// FromImage converts any image into an RGBA8 texture.
func FromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	t := New(Desc{Name: name, Width: bounds.Dx(), Height: bounds.Dy(), Format: FormatRGBA8, Filter: FilterBilinear})
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			i := (y*t.Width + x) * 4
			t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return t
}

// LoadImage reads a PNG, JPEG or TIFF file into an RGBA8 texture.
func LoadImage(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return FromImage(path, img), nil
}

// WritePNG encodes the texture as an 8-bit PNG.
func (t *Texture) WritePNG(w io.Writer) error {
	return png.Encode(w, t.ToImage())
}

// SavePNG writes the texture to path as a PNG file.
func (t *Texture) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := t.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return f.Close()
}

func (t *Texture) address(c, size int) int {
	if t.Wrap == WrapRepeat {
		c %= size
		if c < 0 {
			c += size
		}
		return c
	}
	return math.ClampInt(c, 0, size-1)
}

func unorm8(v float32) uint8 {
	return uint8(math.Saturate(v)*255 + 0.5)
}
