package scene

import (
	stdmath "math"

	"github.com/Faultbox/scenery/pkg/math"
)

// Camera is a node with a projection. Its view-projection matrix is kept in
// step with both the world matrix and the projection.
type Camera struct {
	Node

	projection       Projection
	projectionMatrix math.Mat4
	viewProjection   math.Mat4
}

// NewCamera creates a camera with the given projection.
func NewCamera(name string, p Projection) *Camera {
	c := &Camera{}
	c.init(c, name)
	c.SetProjection(p)
	return c
}

// NewPerspectiveCamera creates a perspective camera with zoom 1.
func NewPerspectiveCamera(name string, fov, aspect, near, far float32) *Camera {
	return NewCamera(name, Perspective{FOV: fov, Aspect: aspect, Near: near, Far: far, Zoom: 1})
}

// NewOrthographicCamera creates an orthographic camera with zoom 1.
func NewOrthographicCamera(name string, left, right, top, bottom, near, far float32) *Camera {
	return NewCamera(name, Orthographic{
		Left: left, Right: right, Top: top, Bottom: bottom,
		Near: near, Far: far, Zoom: 1,
	})
}

// NewObliqueCamera creates an oblique camera with zoom 1.
func NewObliqueCamera(name string, fov, aspect, near, far, angle float32) *Camera {
	return NewCamera(name, Oblique{
		Perspective: Perspective{FOV: fov, Aspect: aspect, Near: near, Far: far, Zoom: 1},
		Angle:       angle,
	})
}

func (c *Camera) Kind() Kind { return KindCamera }

// CameraKind returns the projection family.
func (c *Camera) CameraKind() CameraKind { return c.projection.CameraKind() }

// Projection returns the current projection parameters.
func (c *Camera) Projection() Projection { return c.projection }

// SetProjection replaces the projection parameters and recomputes the
// projection and view-projection matrices. The world matrix is untouched.
func (c *Camera) SetProjection(p Projection) {
	c.projection = p
	c.projectionMatrix = p.Matrix()
	c.updateViewProjection()
}

// SetZoom changes only the zoom factor.
func (c *Camera) SetZoom(zoom float32) {
	c.SetProjection(c.projection.WithZoom(zoom))
}

// SetAspect adapts the projection to a viewport aspect ratio.
func (c *Camera) SetAspect(aspect float32) {
	c.SetProjection(c.projection.WithAspect(aspect))
}

// ProjectionMatrix returns the cached projection matrix.
func (c *Camera) ProjectionMatrix() math.Mat4 { return c.projectionMatrix }

// ViewMatrix returns the inverse of the world matrix.
func (c *Camera) ViewMatrix() math.Mat4 { return c.worldMatrix.Inverse() }

// ViewProjectionMatrix returns projection * inverse(world), mapping world
// space to clip space.
func (c *Camera) ViewProjectionMatrix() math.Mat4 { return c.viewProjection }

// UpdateWorldMatrix refreshes the world matrix like Node.UpdateWorldMatrix
// and then the view-projection matrix.
func (c *Camera) UpdateWorldMatrix(updateParents, updateChildren bool) {
	c.updateSelf(updateParents)
	c.updateViewProjection()
	if updateChildren {
		for _, child := range c.children {
			child.UpdateWorldMatrix(false, true)
		}
	}
}

func (c *Camera) updateViewProjection() {
	c.viewProjection = c.projectionMatrix.Mul(c.worldMatrix.Inverse())
}

// LookAt rotates the camera so it looks down -Z at target (world space).
func (c *Camera) LookAt(target math.Vec3) {
	c.lookAt(target, true)
}

func tan(rad float32) float32 {
	return float32(stdmath.Tan(float64(rad)))
}
