package rendergraph

import (
	"fmt"

	"ssao-engine/math"
	"ssao-engine/textures"
)

// ResourceKind distinguishes the buffer types a handle can refer to.
type ResourceKind int

const (
	KindColor ResourceKind = iota + 1
	KindDepth
	KindNormals
)

func (k ResourceKind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindDepth:
		return "depth"
	case KindNormals:
		return "normals"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// TextureHandle refers to a graph resource for the lifetime of one recorded
// frame. The zero value is the null handle.
type TextureHandle struct {
	id int
}

// NullHandle is the invalid handle.
var NullHandle = TextureHandle{}

func (h TextureHandle) IsValid() bool {
	return h.id > 0
}

func (h TextureHandle) String() string {
	if !h.IsValid() {
		return "TextureHandle(null)"
	}
	return fmt.Sprintf("TextureHandle(%d)", h.id)
}

// AccessFlags declares how a pass uses a resource.
type AccessFlags int

const (
	AccessRead AccessFlags = 1 << iota
	AccessWrite
	// AccessDiscard marks previous contents as irrelevant.
	AccessDiscard

	AccessReadWrite = AccessRead | AccessWrite
	AccessWriteAll  = AccessWrite | AccessDiscard
)

type resource struct {
	name     string
	kind     ResourceKind
	desc     textures.Desc
	imported bool

	color   *textures.Texture
	depth   *textures.DepthBuffer
	normals *textures.NormalBuffer
}

// ResourceData carries the camera targets of the frame being recorded.
type ResourceData struct {
	CameraColor   TextureHandle
	ActiveColor   TextureHandle
	CameraDepth   TextureHandle
	CameraNormals TextureHandle

	// IsActiveTargetBackBuffer is set when the active color target is the
	// swapchain image, which graph passes cannot read.
	IsActiveTargetBackBuffer bool
}

// CameraData carries the camera matrices of the frame being recorded.
type CameraData struct {
	Width  int
	Height int

	View          math.Mat4
	Projection    math.Mat4
	InvProjection math.Mat4
}

// FrameData is handed to every pass while it records.
type FrameData struct {
	Resources ResourceData
	Camera    CameraData
}
