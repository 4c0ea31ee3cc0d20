package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	if r := q1.Slerp(q2, 0); !r.SameRotation(q1, 1e-6) {
		t.Errorf("Slerp at t=0 should equal q1, got %v", r)
	}
	if r := q1.Slerp(q2, 1); !r.SameRotation(q2, 1e-6) {
		t.Errorf("Slerp at t=1 should equal q2, got %v", r)
	}

	// Halfway through 90 degrees is 45 degrees
	result5 := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(float64(math.Pi / 8)))
	if math.Abs(float64(result5.W-expectedW)) > 0.01 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, result5.W)
	}
}

func TestQuatToMat4MatchesMathgl(t *testing.T) {
	axis := Vec3{1, 2, -1}.Normalize()
	q := QuatFromAxisAngle(axis, 0.9)
	ref := mgl32.QuatRotate(0.9, mgl32.Vec3{axis.X, axis.Y, axis.Z}).Mat4()

	if !q.ToMat4().ApproxEqual(Mat4(ref), 1e-5) {
		t.Errorf("ToMat4() = %v, want %v", q.ToMat4(), ref)
	}
}

func TestQuatFromRotationMatrix(t *testing.T) {
	for _, angle := range []float32{0.3, 1.7, 3.0} {
		for _, axis := range []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, Vec3{1, 1, 1}.Normalize()} {
			q := QuatFromAxisAngle(axis, angle)
			got := QuatFromRotationMatrix(q.ToMat4())
			if !got.SameRotation(q, 1e-5) {
				t.Errorf("axis %v angle %v: got %v, want %v", axis, angle, got, q)
			}
		}
	}
}

func TestQuatRotateAndInverse(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/2))
	v := q.Rotate(Vec3{1, 0, 0})
	if !v.ApproxEqual(Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("Rotate((1,0,0)) = %v, want (0,1,0)", v)
	}
	if back := q.Inverse().Rotate(v); !back.ApproxEqual(Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("Inverse().Rotate() = %v, want (1,0,0)", back)
	}
}

func TestLerpVec3(t *testing.T) {
	result := LerpVec3(Vec3{}, Vec3{10, 20, 30}, 0.5)
	if !result.ApproxEqual(Vec3{5, 10, 15}, 0.001) {
		t.Errorf("LerpVec3 = %v, want (5,10,15)", result)
	}
}
