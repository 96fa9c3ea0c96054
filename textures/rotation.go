package textures

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math/rand"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/image/tiff"

	"ssao-engine/math"
)

// RotationTextureSize is the tile size the estimator expects.
const RotationTextureSize = 4

// RotationTextureName is the default asset file name for a generated tile.
func RotationTextureName(size int) string {
	return fmt.Sprintf("ssao2DRot_%dx%d_Texture.tiff", size, size)
}

// GenerateRotationTexture builds a size x size tile of random unit vectors in
// the XY plane, encoded as v*0.5+0.5 in RGB with A = 1. The texture is float,
// point filtered and repeating.
func GenerateRotationTexture(size int, seed int64) *Texture {
	rng := rand.New(rand.NewSource(seed))
	tex := New(Desc{
		Name:   RotationTextureName(size),
		Width:  size,
		Height: size,
		Format: FormatRGBAFloat,
		Filter: FilterPoint,
		Wrap:   WrapRepeat,
	})

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var v math.Vec3
			for {
				v = math.Vec3{X: rng.Float32()*2 - 1, Y: rng.Float32()*2 - 1}
				if v.LengthSqr() > 1e-8 {
					break
				}
			}
			v = v.Normalize().Mul(0.5)
			tex.Set(x, y, math.Vec4{X: v.X + 0.5, Y: v.Y + 0.5, Z: v.Z + 0.5, W: 1})
		}
	}
	return tex
}

// RotationAt decodes the jitter vector stored at texel (x, y), wrapping.
func RotationAt(tex *Texture, x, y int) math.Vec3 {
	v := tex.Fetch(x, y).ToVec3()
	return v.Mul(2).Sub(math.Vec3One)
}

// WriteRotationTIFF encodes tex as an uncompressed 16 bit per channel TIFF.
func WriteRotationTIFF(w io.Writer, tex *Texture) error {
	img := image.NewNRGBA64(image.Rect(0, 0, tex.Width, tex.Height))
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			v := tex.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{R: unorm16(v.X), G: unorm16(v.Y), B: unorm16(v.Z), A: unorm16(v.W)})
		}
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
}

// SaveRotationTexture writes tex to path; see WriteRotationTIFF.
func SaveRotationTexture(path string, tex *Texture) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rotation texture %q: %w", path, err)
	}
	if err := WriteRotationTIFF(f, tex); err != nil {
		f.Close()
		return fmt.Errorf("encode rotation texture %q: %w", path, err)
	}
	return f.Close()
}

// ReadRotationTIFF decodes a rotation tile. The result is imported as linear
// float data without mips, point filtered and repeating.
func ReadRotationTIFF(r io.Reader, name string) (*Texture, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode rotation texture %q: %w", name, err)
	}

	bounds := img.Bounds()
	tex := New(Desc{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: FormatRGBAFloat,
		Filter: FilterPoint,
		Wrap:   WrapRepeat,
	})
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			tex.Set(x, y, math.Vec4{
				X: float32(c.R) / 0xffff,
				Y: float32(c.G) / 0xffff,
				Z: float32(c.B) / 0xffff,
				W: float32(c.A) / 0xffff,
			})
		}
	}
	return tex, nil
}

// LoadRotationTexture reads a rotation tile from path.
func LoadRotationTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rotation texture %q: %w", path, err)
	}
	defer f.Close()
	return ReadRotationTIFF(f, path)
}

func unorm16(v float32) uint16 {
	return uint16(math32.Floor(math.Saturate(v)*0xffff + 0.5))
}
