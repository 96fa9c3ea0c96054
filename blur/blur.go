package blur

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"ssao-engine/math"
	"ssao-engine/textures"
)

// Axis is the direction of one separable blur invocation.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

var (
	ErrInvalidGrid  = errors.New("blur: grid size must be a positive odd number")
	ErrSizeMismatch = errors.New("blur: source and destination sizes differ")
	ErrSameTexture  = errors.New("blur: source and destination must be distinct")
)

// Params is the per-draw constant block for one blur invocation.
type Params struct {
	Spread   float32
	GridSize int
	Axis     Axis
}

// GridSize returns the tap count for a Gaussian of standard deviation
// spread: about six sigma, rounded up to the next odd integer so the grid
// has a center texel.
func GridSize(spread float32) int {
	size := int(math32.Ceil(spread * 6))
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	return size
}

// Weights returns the normalized Gaussian weights for gridSize taps ordered
// from -(gridSize-1)/2 to +(gridSize-1)/2.
func Weights(spread float32, gridSize int) []float32 {
	weights := make([]float32, gridSize)
	half := (gridSize - 1) / 2
	sigma2 := 2 * spread * spread

	var sum float32
	for i := range weights {
		x := float32(i - half)
		w := float32(1)
		if sigma2 > 0 {
			w = math32.Exp(-(x * x) / sigma2)
		}
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// RowRunner executes fn over disjoint row bands of [0, height).
type RowRunner interface {
	ForRows(height int, fn func(y0, y1 int))
}

type serialRows struct{}

func (serialRows) ForRows(height int, fn func(y0, y1 int)) { fn(0, height) }

// Program is the one-dimensional Gaussian blur. It has a horizontal and a
// vertical pass selected by Params.Axis.
type Program struct{}

func NewProgram() *Program {
	return &Program{}
}

// Draw filters src along params.Axis into dst with clamp addressing. All four
// channels are filtered. rows may be nil.
func (p *Program) Draw(dst, src *textures.Texture, params Params, rows RowRunner) error {
	if params.GridSize < 1 || params.GridSize%2 == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGrid, params.GridSize)
	}
	if dst == src {
		return ErrSameTexture
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, src.Width, src.Height, dst.Width, dst.Height)
	}
	if rows == nil {
		rows = serialRows{}
	}

	weights := Weights(params.Spread, params.GridSize)
	half := (params.GridSize - 1) / 2
	dx, dy := 1, 0
	if params.Axis == Vertical {
		dx, dy = 0, 1
	}

	rows.ForRows(dst.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < dst.Width; x++ {
				var acc math.Vec4
				for i, w := range weights {
					o := i - half
					sx := math.ClampInt(x+o*dx, 0, src.Width-1)
					sy := math.ClampInt(y+o*dy, 0, src.Height-1)
					acc = acc.Add(src.At(sx, sy).Mul(w))
				}
				dst.Set(x, y, acc)
			}
		}
	})
	return nil
}

// Blur runs a single axis pass over src and returns the result in a new
// texture with the same descriptor.
func Blur(src *textures.Texture, spread float32, gridSize int, axis Axis) (*textures.Texture, error) {
	dst := textures.New(src.Desc)
	if err := NewProgram().Draw(dst, src, Params{Spread: spread, GridSize: gridSize, Axis: axis}, nil); err != nil {
		return nil, err
	}
	return dst, nil
}
