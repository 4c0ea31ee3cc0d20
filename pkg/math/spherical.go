package math

import "math"

// Spherical is a point in spherical coordinates. Phi is the polar angle
// measured from +Y, Theta the azimuth around Y measured from +Z towards +X.
// Angles are in radians.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVec3 converts a cartesian point to spherical coordinates.
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  float32(math.Atan2(float64(v.X), float64(v.Z))),
		Phi:    float32(math.Acos(clamp(float64(v.Y/r), -1, 1))),
	}
}

// Vec3 converts back to cartesian coordinates.
func (s Spherical) Vec3() Vec3 {
	sinPhi := math.Sin(float64(s.Phi))
	r := float64(s.Radius)
	return Vec3{
		X: float32(r * sinPhi * math.Sin(float64(s.Theta))),
		Y: float32(r * math.Cos(float64(s.Phi))),
		Z: float32(r * sinPhi * math.Cos(float64(s.Theta))),
	}
}

// MakeSafe keeps Phi strictly between the poles so a look-at basis built
// from it never degenerates.
func (s Spherical) MakeSafe() Spherical {
	const eps = 0.000001
	s.Phi = float32(clamp(float64(s.Phi), eps, math.Pi-eps))
	return s
}
