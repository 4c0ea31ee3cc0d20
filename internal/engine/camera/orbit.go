// Package camera provides controllers that move scene cameras.
package camera

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/pkg/math"
)

// Orbit circles a target point on a sphere. The radius follows zoom
// requests through a critically damped spring, so zooming eases in
// instead of jumping.
type Orbit struct {
	Target math.Vec3

	// Constraints
	MinRadius float32
	MaxRadius float32

	// Sensitivity
	RotateSensitivity float32
	ZoomSensitivity   float32

	// TurntableSpeed spins the azimuth in radians per second during Update.
	TurntableSpeed float32

	spherical  math.Spherical
	goalRadius float32
	velocity   float64

	spring harmonica.Spring
	step   float64
	acc    float64
}

// NewOrbit creates an orbit controller whose spring is stepped fps times
// per simulated second.
func NewOrbit(fps int) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	o := &Orbit{
		MinRadius:         0.1,
		MaxRadius:         1000,
		RotateSensitivity: 1,
		ZoomSensitivity:   0.1,
		spring:            harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		step:              harmonica.FPS(fps),
	}
	o.Set(math.Spherical{Radius: 10, Phi: gomath.Pi / 3})
	return o
}

// Set jumps to s with no easing.
func (o *Orbit) Set(s math.Spherical) {
	o.spherical = s.MakeSafe()
	o.spherical.Radius = o.clampRadius(s.Radius)
	o.goalRadius = o.spherical.Radius
	o.velocity = 0
}

// Spherical returns the current offset from the target.
func (o *Orbit) Spherical() math.Spherical { return o.spherical }

// GoalRadius returns the radius the spring is easing towards.
func (o *Orbit) GoalRadius() float32 { return o.goalRadius }

// FromCamera takes the camera's world position as the starting point of
// an orbit around target.
func (o *Orbit) FromCamera(cam *scene.Camera, target math.Vec3) {
	o.Target = target
	o.Set(math.SphericalFromVec3(cam.WorldPosition().Sub(target)))
}

// Position returns the orbiting point in world space.
func (o *Orbit) Position() math.Vec3 {
	return o.Target.Add(o.spherical.Vec3())
}

// Rotate moves around the target by azimuth and polar deltas in radians.
// The polar angle stays clear of the poles.
func (o *Orbit) Rotate(dTheta, dPhi float32) {
	o.spherical.Theta += dTheta * o.RotateSensitivity
	o.spherical.Phi += dPhi * o.RotateSensitivity
	o.spherical = o.spherical.MakeSafe()
}

// Zoom scales the goal radius; positive delta moves closer.
func (o *Orbit) Zoom(delta float32) {
	o.goalRadius = o.clampRadius(o.goalRadius - delta*o.goalRadius*o.ZoomSensitivity)
}

func (o *Orbit) clampRadius(r float32) float32 {
	if r < o.MinRadius {
		return o.MinRadius
	}
	if r > o.MaxRadius {
		return o.MaxRadius
	}
	return r
}

// Update advances the turntable by dt seconds and steps the zoom spring
// once per elapsed spring frame.
func (o *Orbit) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if o.TurntableSpeed != 0 {
		o.spherical.Theta += o.TurntableSpeed * float32(dt)
	}

	o.acc += dt
	r := float64(o.spherical.Radius)
	for o.acc >= o.step {
		o.acc -= o.step
		r, o.velocity = o.spring.Update(r, o.velocity, float64(o.goalRadius))
	}
	o.spherical.Radius = float32(r)
}

// Apply moves cam to the orbit position and turns it towards the target.
// A camera with a parent is positioned in its parent's space.
func (o *Orbit) Apply(cam *scene.Camera) {
	pos := o.Position()
	if p := cam.Parent(); p != nil {
		pos = p.Base().WorldToLocal(pos)
	}
	cam.SetPosition(pos)
	cam.LookAt(o.Target)
}

// Fit centers the orbit on a box and backs off far enough to see all of
// it, keeping the current direction.
func (o *Orbit) Fit(lo, hi math.Vec3) {
	o.Target = lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length()
	if radius <= 0 {
		radius = 1
	}
	s := o.spherical
	s.Radius = radius * 1.5
	o.Set(s)
}

// Bounds returns the world-space box around every mesh vertex of s.
func Bounds(s *scene.Scene) (lo, hi math.Vec3, ok bool) {
	s.UpdateWorldMatrix(false, true)
	inf := float32(gomath.Inf(1))
	lo = math.Vec3{X: inf, Y: inf, Z: inf}
	hi = lo.Negate()
	s.Traverse(func(obj scene.Object) {
		mesh, isMesh := obj.(*scene.Mesh)
		if !isMesh || mesh.Geometry == nil {
			return
		}
		pos := mesh.Geometry.Attribute(geometry.AttrPosition)
		if pos == nil {
			return
		}
		world := mesh.WorldMatrix()
		for i := 0; i+2 < len(pos.Data); i += 3 {
			p := world.TransformVec3(math.Vec3{X: pos.Data[i], Y: pos.Data[i+1], Z: pos.Data[i+2]})
			lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
			hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
			ok = true
		}
	})
	return lo, hi, ok
}
