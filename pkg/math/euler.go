package math

import (
	"fmt"
	"math"
)

// EulerOrder names the axis sequence of an Euler rotation by matrix product:
// OrderXYZ means R = Rx * Ry * Rz.
type EulerOrder uint8

const (
	OrderXYZ EulerOrder = iota
	OrderYXZ
	OrderZXY
	OrderZYX
	OrderYZX
	OrderXZY
)

// DefaultOrder composes R = Rz * Ry * Rx, which rotates about X first.
const DefaultOrder = OrderZYX

var orderNames = [...]string{"XYZ", "YXZ", "ZXY", "ZYX", "YZX", "XZY"}

func (o EulerOrder) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("EulerOrder(%d)", uint8(o))
}

// ParseEulerOrder parses an order name such as "XYZ".
// The empty string yields DefaultOrder.
func ParseEulerOrder(s string) (EulerOrder, error) {
	if s == "" {
		return DefaultOrder, nil
	}
	for i, name := range orderNames {
		if name == s {
			return EulerOrder(i), nil
		}
	}
	return 0, fmt.Errorf("unknown euler order %q", s)
}

// Euler holds rotation angles in radians around X, Y and Z.
type Euler struct {
	X, Y, Z float32
	Order   EulerOrder
}

// EulerFromQuat derives Euler angles for the given order from a quaternion.
func EulerFromQuat(q Quat, order EulerOrder) Euler {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		return Euler{Order: order}
	}
	x, y, z, w = x/n, y/n, z/n, w/n
	return eulerFromRotation(rotation3{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}, order)
}

// EulerFromRotationMatrix derives Euler angles from the upper 3x3 of m,
// which must be unscaled.
func EulerFromRotationMatrix(m Mat4, order EulerOrder) Euler {
	var r rotation3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row][col] = float64(m[col*4+row])
		}
	}
	return eulerFromRotation(r, order)
}

// rotation3 is a row-major 3x3 rotation.
type rotation3 [3][3]float64

// The middle angle of each order comes from atan2 against the cosine
// recovered from its row or column, which stays accurate near ±90°.
func eulerFromRotation(r rotation3, order EulerOrder) Euler {
	m11, m12, m13 := r[0][0], r[0][1], r[0][2]
	m21, m22, m23 := r[1][0], r[1][1], r[1][2]
	m31, m32, m33 := r[2][0], r[2][1], r[2][2]

	const gimbal = 1e-6
	var x, y, z float64

	switch order {
	case OrderYXZ:
		c := math.Hypot(m13, m33)
		x = math.Atan2(-m23, c)
		if c > gimbal {
			y = math.Atan2(m13, m33)
			z = math.Atan2(m21, m22)
		} else {
			y = math.Atan2(-m31, m11)
		}
	case OrderZXY:
		c := math.Hypot(m31, m33)
		x = math.Atan2(m32, c)
		if c > gimbal {
			y = math.Atan2(-m31, m33)
			z = math.Atan2(-m12, m22)
		} else {
			z = math.Atan2(m21, m11)
		}
	case OrderZYX:
		c := math.Hypot(m32, m33)
		y = math.Atan2(-m31, c)
		if c > gimbal {
			x = math.Atan2(m32, m33)
			z = math.Atan2(m21, m11)
		} else {
			z = math.Atan2(-m12, m22)
		}
	case OrderYZX:
		c := math.Hypot(m23, m22)
		z = math.Atan2(m21, c)
		if c > gimbal {
			x = math.Atan2(-m23, m22)
			y = math.Atan2(-m31, m11)
		} else {
			y = math.Atan2(m13, m33)
		}
	case OrderXZY:
		c := math.Hypot(m32, m22)
		z = math.Atan2(-m12, c)
		if c > gimbal {
			x = math.Atan2(m32, m22)
			y = math.Atan2(m13, m11)
		} else {
			x = math.Atan2(-m23, m33)
		}
	default: // OrderXYZ
		c := math.Hypot(m23, m33)
		y = math.Atan2(m13, c)
		if c > gimbal {
			x = math.Atan2(-m23, m33)
			z = math.Atan2(-m12, m11)
		} else {
			x = math.Atan2(m32, m22)
		}
	}
	return Euler{X: float32(x), Y: float32(y), Z: float32(z), Order: order}
}

// Quat converts the Euler angles to a quaternion.
func (e Euler) Quat() Quat {
	return QuatFromEuler(e)
}

// Vec3 returns the angles as a vector, dropping the order.
func (e Euler) Vec3() Vec3 {
	return Vec3{e.X, e.Y, e.Z}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
