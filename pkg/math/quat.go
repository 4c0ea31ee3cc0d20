package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromEuler creates a quaternion from Euler angles in the given order.
func QuatFromEuler(e Euler) Quat {
	c1 := math.Cos(float64(e.X) / 2)
	c2 := math.Cos(float64(e.Y) / 2)
	c3 := math.Cos(float64(e.Z) / 2)
	s1 := math.Sin(float64(e.X) / 2)
	s2 := math.Sin(float64(e.Y) / 2)
	s3 := math.Sin(float64(e.Z) / 2)

	var x, y, z, w float64
	switch e.Order {
	case OrderYXZ:
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	case OrderZXY:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	case OrderZYX:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	case OrderYZX:
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	case OrderXZY:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	default: // OrderXYZ
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	}
	return Quat{X: float32(x), Y: float32(y), Z: float32(z), W: float32(w)}
}

// QuatFromRotationMatrix extracts a quaternion from the upper 3x3 of m.
// The 3x3 part must be a pure rotation (unscaled).
func QuatFromRotationMatrix(m Mat4) Quat {
	m11, m12, m13 := float64(m[0]), float64(m[4]), float64(m[8])
	m21, m22, m23 := float64(m[1]), float64(m[5]), float64(m[9])
	m31, m32, m33 := float64(m[2]), float64(m[6]), float64(m[10])

	trace := m11 + m22 + m33
	var x, y, z, w float64

	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		w = 0.25 / s
		x = (m32 - m23) * s
		y = (m13 - m31) * s
		z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s := 2.0 * math.Sqrt(1.0+m11-m22-m33)
		w = (m32 - m23) / s
		x = 0.25 * s
		y = (m12 + m21) / s
		z = (m13 + m31) / s
	case m22 > m33:
		s := 2.0 * math.Sqrt(1.0+m22-m11-m33)
		w = (m13 - m31) / s
		x = (m12 + m21) / s
		y = 0.25 * s
		z = (m23 + m32) / s
	default:
		s := 2.0 * math.Sqrt(1.0+m33-m11-m22)
		w = (m21 - m12) / s
		x = (m13 + m31) / s
		y = (m23 + m32) / s
		z = 0.25 * s
	}
	return Quat{X: float32(x), Y: float32(y), Z: float32(z), W: float32(w)}
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Conjugate returns the conjugate, which is the inverse for unit quaternions.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Inverse returns the multiplicative inverse.
func (q Quat) Inverse() Quat {
	d := q.Dot(q)
	if d == 0 {
		return QuatIdentity()
	}
	c := q.Conjugate()
	return Quat{X: c.X / d, Y: c.Y / d, Z: c.Z / d, W: c.W / d}
}

// Slerp performs spherical linear interpolation between two quaternions.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	dot := q.Dot(other)

	// Take the shorter path
	if dot < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		dot = -dot
	}

	if dot > 0.9995 {
		return Quat{
			X: q.X + t*(other.X-q.X),
			Y: q.Y + t*(other.Y-q.Y),
			Z: q.Z + t*(other.Z-q.Z),
			W: q.W + t*(other.W-q.W),
		}.Normalize()
	}

	theta0 := float32(math.Acos(float64(dot)))
	theta := theta0 * t
	sinTheta := float32(math.Sin(float64(theta)))
	sinTheta0 := float32(math.Sin(float64(theta0)))

	s0 := float32(math.Cos(float64(theta))) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quat{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return Compose(Vec3{}, q.Normalize(), Vec3{1, 1, 1})
}

// Mul multiplies two quaternions (q * other applies other first).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Premultiply returns other * q.
func (q Quat) Premultiply(other Quat) Quat {
	return other.Mul(q)
}

// Rotate rotates v by the quaternion.
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v); v' = v + w*t + cross(q.xyz, t)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// SameRotation reports whether q and other describe the same rotation
// within eps, treating q and -q as equal.
func (q Quat) SameRotation(other Quat, eps float32) bool {
	return 1-abs32(q.Normalize().Dot(other.Normalize())) <= eps
}

// LerpVec3 performs linear interpolation between two 3D vectors.
func LerpVec3(a, b Vec3, t float32) Vec3 {
	return Vec3{
		a.X + t*(b.X-a.X),
		a.Y + t*(b.Y-a.Y),
		a.Z + t*(b.Z-a.Z),
	}
}
