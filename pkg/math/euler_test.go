package math

import (
	"math"
	"testing"
)

var allOrders = []EulerOrder{OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY}

// sameOrientation compares where two rotations send the basis axes.
func sameOrientation(a, b Quat, eps float32) bool {
	for _, axis := range []Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		if !a.Rotate(axis).ApproxEqual(b.Rotate(axis), eps) {
			return false
		}
	}
	return true
}

func TestEulerQuatRoundTrip(t *testing.T) {
	angles := [][3]float32{
		{0.1, 0.2, 0.3},
		{-1.2, 0.7, 2.5},
		{0.5, -1.0, -0.25},
		{0, 0, 0},
	}
	for _, order := range allOrders {
		for _, a := range angles {
			e := Euler{X: a[0], Y: a[1], Z: a[2], Order: order}
			q := e.Quat()
			back := EulerFromQuat(q, order)
			if back.Order != order || !sameOrientation(back.Quat(), q, 1e-5) {
				t.Errorf("%v %v: round trip gave %v", order, a, back)
			}
		}
	}
}

func TestEulerMiddleAngleInRange(t *testing.T) {
	e := Euler{X: 0.3, Y: 0.4, Z: 0.5}
	for _, order := range allOrders {
		e.Order = order
		back := EulerFromQuat(e.Quat(), order)
		if !back.Vec3().ApproxEqual(e.Vec3(), 1e-5) {
			t.Errorf("%v: got %v, want %v", order, back, e)
		}
	}
}

func TestEulerNearGimbalLock(t *testing.T) {
	half := float32(math.Pi / 2)
	quarter := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/4)
	q := quarter.Mul(quarter)

	got := EulerFromQuat(q, OrderZYX)
	if abs32(got.Y-half) > 1e-6 || abs32(got.X) > 1e-6 || abs32(got.Z) > 1e-6 {
		t.Errorf("two eighth turns about Y = %v, want Y=pi/2", got)
	}
	if !sameOrientation(got.Quat(), q, 1e-5) {
		t.Errorf("euler %v does not reproduce %v", got, q)
	}

	middles := map[EulerOrder]Euler{
		OrderXYZ: {X: 0.2, Y: half, Z: 0},
		OrderYXZ: {X: -half, Y: 0.3, Z: 0},
		OrderZXY: {X: half, Y: 0, Z: -0.4},
		OrderZYX: {X: 0, Y: -half, Z: 0.5},
		OrderYZX: {X: 0, Y: 0.6, Z: half},
		OrderXZY: {X: -0.7, Y: 0, Z: -half},
	}
	for order, e := range middles {
		e.Order = order
		q := e.Quat()
		back := EulerFromQuat(q, order)
		if !sameOrientation(back.Quat(), q, 1e-5) {
			t.Errorf("%v at gimbal lock: %v does not reproduce %v", order, back, e)
		}
	}
}

func TestEulerFromRotationMatrixMatchesQuat(t *testing.T) {
	e := Euler{X: 0.4, Y: -0.9, Z: 1.3}
	for _, order := range allOrders {
		e.Order = order
		q := e.Quat()
		fromMatrix := EulerFromRotationMatrix(q.ToMat4(), order)
		if !fromMatrix.Vec3().ApproxEqual(e.Vec3(), 1e-5) {
			t.Errorf("%v: from matrix %v, want %v", order, fromMatrix, e)
		}
	}
}

func TestEulerOrderMatchesMatrixProduct(t *testing.T) {
	e := Euler{X: 0.4, Y: -0.9, Z: 1.3}
	rx, ry, rz := RotateX(e.X), RotateY(e.Y), RotateZ(e.Z)

	products := map[EulerOrder]Mat4{
		OrderXYZ: rx.Mul(ry).Mul(rz),
		OrderYXZ: ry.Mul(rx).Mul(rz),
		OrderZXY: rz.Mul(rx).Mul(ry),
		OrderZYX: rz.Mul(ry).Mul(rx),
		OrderYZX: ry.Mul(rz).Mul(rx),
		OrderXZY: rx.Mul(rz).Mul(ry),
	}
	for order, want := range products {
		e.Order = order
		if got := e.Quat().ToMat4(); !got.ApproxEqual(want, 1e-5) {
			t.Errorf("%v: quaternion matrix %v, want %v", order, got, want)
		}
	}
}

func TestParseEulerOrder(t *testing.T) {
	for _, order := range allOrders {
		got, err := ParseEulerOrder(order.String())
		if err != nil || got != order {
			t.Errorf("ParseEulerOrder(%q) = %v, %v", order.String(), got, err)
		}
	}
	if got, _ := ParseEulerOrder(""); got != DefaultOrder {
		t.Errorf("empty order = %v, want %v", got, DefaultOrder)
	}
	if _, err := ParseEulerOrder("XXY"); err == nil {
		t.Error("expected error for unknown order")
	}
}
