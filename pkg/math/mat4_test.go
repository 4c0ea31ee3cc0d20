package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in elements 12, 13, 14
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{12, 24, 36}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint([3]float32{1, 0, 0})

	// (1,0,0) turns into (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestProjectionsMatchMathgl(t *testing.T) {
	top := float32(0.1 * math.Tan(0.4))
	tests := []struct {
		name string
		got  Mat4
		want mgl32.Mat4
	}{
		{"symmetric frustum", Frustum(-1.5*top, 1.5*top, -top, top, 0.1, 100), mgl32.Perspective(0.8, 1.5, 0.1, 100)},
		{"frustum", Frustum(-2, 1, -1, 3, 0.5, 50), mgl32.Frustum(-2, 1, -1, 3, 0.5, 50)},
		{"ortho", Ortho(-3, 1, -2, 4, 0.1, 20), mgl32.Ortho(-3, 1, -2, 4, 0.1, 20)},
	}
	for _, tt := range tests {
		if !tt.got.ApproxEqual(Mat4(tt.want), 1e-5) {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestInverseDeterminantTranspose(t *testing.T) {
	m := Translate(1, -2, 3).Mul(RotateAxis(Vec3{0.6, 0, 0.8}, 0.7)).Mul(Scale(2, 0.5, 3))
	ref := mgl32.Mat4(m)

	if got, want := m.Determinant(), ref.Det(); abs(got-want) > 1e-4 {
		t.Errorf("Determinant() = %v, want %v", got, want)
	}
	if !m.Inverse().ApproxEqual(Mat4(ref.Inv()), 1e-4) {
		t.Errorf("Inverse() = %v, want %v", m.Inverse(), ref.Inv())
	}
	if m.Transpose() != Mat4(ref.Transpose()) {
		t.Errorf("Transpose() = %v, want %v", m.Transpose(), ref.Transpose())
	}
	if !m.Mul(m.Inverse()).ApproxEqual(Identity(), 1e-5) {
		t.Error("M * inverse(M) should be identity")
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse() = %v, want identity", got)
	}
}

func TestComposeDecompose(t *testing.T) {
	pos := Vec3{4, -1, 2}
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, 1.1).Mul(QuatFromAxisAngle(Vec3{1, 0, 0}, 0.4))
	scale := Vec3{2, 3, 0.5}

	m := Compose(pos, q, scale)
	want := Translate(pos.X, pos.Y, pos.Z).Mul(q.ToMat4()).Mul(Scale(scale.X, scale.Y, scale.Z))
	if !m.ApproxEqual(want, 1e-5) {
		t.Fatalf("Compose() = %v, want T*R*S %v", m, want)
	}

	gotPos, gotQ, gotScale := m.Decompose()
	if !gotPos.ApproxEqual(pos, 1e-5) {
		t.Errorf("Decompose position = %v, want %v", gotPos, pos)
	}
	if !gotScale.ApproxEqual(scale, 1e-4) {
		t.Errorf("Decompose scale = %v, want %v", gotScale, scale)
	}
	if !gotQ.SameRotation(q, 1e-5) {
		t.Errorf("Decompose rotation = %v, want %v", gotQ, q)
	}
}

func TestShear(t *testing.T) {
	m := Shear(float32(math.Pi / 4))
	p := m.TransformPoint([3]float32{0, 0, 2})
	if abs(p[0]-2) > 1e-5 || abs(p[1]-2) > 1e-5 || p[2] != 2 {
		t.Errorf("Shear(45deg) of (0,0,2) = %v, want (2,2,2)", p)
	}
}

func TestLookRotationFacesTarget(t *testing.T) {
	eye := Vec3{0, 0, 5}
	r := LookRotation(eye, Vec3{}, Up)
	forward := r.TransformDirection(Vec3{0, 0, -1})
	if !forward.ApproxEqual(Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("camera forward = %v, want (0,0,-1)", forward)
	}

	r = LookRotation(Vec3{3, 0, 0}, Vec3{}, Up)
	forward = r.TransformDirection(Vec3{0, 0, -1})
	if !forward.ApproxEqual(Vec3{-1, 0, 0}, 1e-6) {
		t.Errorf("camera forward = %v, want (-1,0,0)", forward)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
