package scene

import (
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// CameraKind identifies a projection family.
type CameraKind uint8

const (
	CameraOrthographic CameraKind = iota
	CameraPerspective
	CameraOblique
)

var cameraKindNames = [...]string{"orthographic", "perspective", "oblique"}

func (k CameraKind) String() string {
	if int(k) < len(cameraKindNames) {
		return cameraKindNames[k]
	}
	return fmt.Sprintf("CameraKind(%d)", uint8(k))
}

// ParseCameraKind maps a wire type tag to a CameraKind.
func ParseCameraKind(s string) (CameraKind, bool) {
	for i, name := range cameraKindNames {
		if name == s {
			return CameraKind(i), true
		}
	}
	return 0, false
}

// Projection is an immutable set of projection parameters. Implementations
// are Orthographic, Perspective and Oblique.
type Projection interface {
	CameraKind() CameraKind
	Matrix() math.Mat4
	// WithZoom returns a copy with the zoom factor replaced.
	WithZoom(zoom float32) Projection
	// WithAspect returns a copy adapted to a new viewport aspect ratio.
	WithAspect(aspect float32) Projection
}

func zoomOrOne(z float32) float32 {
	if z <= 0 {
		return 1
	}
	return z
}

// Orthographic is a box projection. Zoom scales the half extents around
// the box center.
type Orthographic struct {
	Left, Right, Top, Bottom float32
	Near, Far                float32
	Zoom                     float32
}

func (Orthographic) CameraKind() CameraKind { return CameraOrthographic }

func (p Orthographic) Matrix() math.Mat4 {
	zoom := zoomOrOne(p.Zoom)
	dx := (p.Right - p.Left) / (2 * zoom)
	dy := (p.Top - p.Bottom) / (2 * zoom)
	cx := (p.Right + p.Left) / 2
	cy := (p.Top + p.Bottom) / 2
	return math.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, p.Near, p.Far)
}

func (p Orthographic) WithZoom(zoom float32) Projection {
	p.Zoom = zoom
	return p
}

// WithAspect widens or narrows the box horizontally around its center,
// keeping the vertical extent.
func (p Orthographic) WithAspect(aspect float32) Projection {
	if aspect <= 0 {
		return p
	}
	cx := (p.Right + p.Left) / 2
	half := (p.Top - p.Bottom) * aspect / 2
	p.Left, p.Right = cx-half, cx+half
	return p
}

// Perspective is a symmetric frustum from a vertical field of view in degrees.
type Perspective struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
	Zoom   float32
}

func (Perspective) CameraKind() CameraKind { return CameraPerspective }

func (p Perspective) Matrix() math.Mat4 {
	top := p.Near * tan(math.DegToRad(p.FOV/2)) / zoomOrOne(p.Zoom)
	height := 2 * top
	width := p.Aspect * height
	left := -width / 2
	return math.Frustum(left, left+width, top-height, top, p.Near, p.Far)
}

func (p Perspective) WithZoom(zoom float32) Projection {
	p.Zoom = zoom
	return p
}

func (p Perspective) WithAspect(aspect float32) Projection {
	if aspect > 0 {
		p.Aspect = aspect
	}
	return p
}

// Oblique is a perspective projection followed by a shear of tan(Angle)
// (degrees) applied along z, producing a cabinet-style view.
type Oblique struct {
	Perspective
	Angle float32
}

func (Oblique) CameraKind() CameraKind { return CameraOblique }

func (p Oblique) Matrix() math.Mat4 {
	return math.Shear(math.DegToRad(p.Angle)).Mul(p.Perspective.Matrix())
}

func (p Oblique) WithZoom(zoom float32) Projection {
	p.Zoom = zoom
	return p
}

func (p Oblique) WithAspect(aspect float32) Projection {
	if aspect > 0 {
		p.Aspect = aspect
	}
	return p
}
