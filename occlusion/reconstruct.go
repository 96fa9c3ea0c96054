package occlusion

import (
	"github.com/chewxy/math32"

	"ssao-engine/math"
)

// backgroundDepth is the window depth at or beyond which a texel is treated
// as sky and left unoccluded.
const backgroundDepth = 0.9999

// PixelToNDC maps the center of pixel (x, y) and a window depth in [0, 1] to
// normalized device coordinates. Row 0 is the top of the image.
func PixelToNDC(x, y, width, height int, depth float32) math.Vec3 {
	return math.Vec3{
		X: 2*(float32(x)+0.5)/float32(width) - 1,
		Y: 1 - 2*(float32(y)+0.5)/float32(height),
		Z: depth*2 - 1,
	}
}

// NDCToPixel returns the pixel that contains the NDC position. The result may
// be outside the image.
func NDCToPixel(ndc math.Vec3, width, height int) (int, int) {
	px := (ndc.X*0.5 + 0.5) * float32(width)
	py := (0.5 - ndc.Y*0.5) * float32(height)
	return int(math32.Floor(px)), int(math32.Floor(py))
}

// ViewPosition reconstructs the view-space position of pixel (x, y) at the
// given window depth.
func ViewPosition(invProj math.Mat4, x, y, width, height int, depth float32) math.Vec3 {
	return invProj.MulVec3(PixelToNDC(x, y, width, height, depth))
}
