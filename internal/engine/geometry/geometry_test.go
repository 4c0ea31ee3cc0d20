package geometry

import (
	"errors"
	"testing"

	"github.com/Faultbox/scenery/pkg/math"
)

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestBoxVertexCount(t *testing.T) {
	b, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	if got := b.VertexCount(); got != 36 {
		t.Errorf("VertexCount = %d, want 36", got)
	}
	pos := b.Attribute(AttrPosition)
	if len(pos.Data) != 36*3 {
		t.Errorf("position floats = %d, want %d", len(pos.Data), 36*3)
	}
	for i, v := range pos.Data {
		if abs32(v) != 0.5 {
			t.Fatalf("position[%d] = %v, want +-0.5", i, v)
		}
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	b, _ := NewBox(2, 3, 4)
	pos := b.Attribute(AttrPosition)
	nrm := b.Attribute(AttrNormal)
	if nrm == nil {
		t.Fatal("normal attribute not derived")
	}
	for i := 0; i < b.VertexCount(); i++ {
		p := math.Vec3FromArray(pos.vec3(i))
		n := math.Vec3FromArray(nrm.vec3(i))
		if p.Dot(n) <= 0 {
			t.Fatalf("vertex %d: normal %v points inward from %v", i, n, p)
		}
		if abs32(n.Length()-1) > 1e-5 {
			t.Fatalf("vertex %d: normal not unit: %v", i, n)
		}
	}
}

func TestDerivedTangentsAreOrthogonalToNormals(t *testing.T) {
	b, _ := NewBox(1, 1, 1)
	nrm := b.Attribute(AttrNormal)
	tan := b.Attribute(AttrTangent)
	bit := b.Attribute(AttrBitangent)
	if tan == nil || bit == nil {
		t.Fatal("tangent frame not derived")
	}
	for i := 0; i < b.VertexCount(); i++ {
		n := math.Vec3FromArray(nrm.vec3(i))
		if d := n.Dot(math.Vec3FromArray(tan.vec3(i))); abs32(d) > 1e-5 {
			t.Fatalf("vertex %d: tangent . normal = %v", i, d)
		}
		if d := n.Dot(math.Vec3FromArray(bit.vec3(i))); abs32(d) > 1e-5 {
			t.Fatalf("vertex %d: bitangent . normal = %v", i, d)
		}
	}
}

func TestPlane(t *testing.T) {
	p, err := NewPlane(2, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	if p.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", p.VertexCount())
	}
	n := p.Attribute(AttrNormal)
	for i := 0; i < 6; i++ {
		if got := n.vec3(i); got != [3]float32{0, 0, 1} {
			t.Errorf("normal %d = %v, want +Z", i, got)
		}
	}
}

func TestPrismRequiresThreeVertices(t *testing.T) {
	_, err := NewPrism([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 1)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestPrismWindingIndependent(t *testing.T) {
	square := []math.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	reversed := []math.Vec2{square[3], square[2], square[1], square[0]}

	for _, poly := range [][]math.Vec2{square, reversed} {
		p, err := NewPrism(poly, 2)
		if err != nil {
			t.Fatalf("NewPrism: %v", err)
		}
		// 2 caps * 2 triangles + 4 sides * 2 triangles
		if got := p.VertexCount(); got != 12*3 {
			t.Errorf("VertexCount = %d, want 36", got)
		}
		pos := p.Attribute(AttrPosition)
		nrm := p.Attribute(AttrNormal)
		for i := 0; i < p.VertexCount(); i++ {
			if math.Vec3FromArray(pos.vec3(i)).Dot(math.Vec3FromArray(nrm.vec3(i))) <= 0 {
				t.Fatalf("vertex %d normal points inward", i)
			}
		}
	}
}

func TestSphereNormalsAreRadial(t *testing.T) {
	s, err := NewSphere(2, 8, 4)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	// top and bottom rows contribute one triangle per segment, others two
	want := (8 + 8 + 2*8*2) * 3
	if s.VertexCount() != want {
		t.Errorf("VertexCount = %d, want %d", s.VertexCount(), want)
	}
	pos := s.Attribute(AttrPosition)
	nrm := s.Attribute(AttrNormal)
	for i := 0; i < s.VertexCount(); i++ {
		p := math.Vec3FromArray(pos.vec3(i))
		n := math.Vec3FromArray(nrm.vec3(i))
		if !p.Scale(0.5).ApproxEqual(n, 1e-5) {
			t.Fatalf("vertex %d: normal %v, position %v", i, n, p)
		}
	}
}

func TestSphereInvalid(t *testing.T) {
	if _, err := NewSphere(1, 2, 2); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestBufferKeepsSuppliedAttributes(t *testing.T) {
	normals := NewAttribute([]float32{0, 1, 0, 0, 1, 0, 0, 1, 0}, 3)
	b, err := NewBuffer(map[string]*Attribute{
		AttrPosition: NewAttribute([]float32{0, 0, 0, 1, 0, 0, 0, 0, 1}, 3),
		AttrNormal:   normals,
	})
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if b.Attribute(AttrNormal) != normals {
		t.Error("supplied normal attribute was replaced")
	}
	if b.Attribute(AttrTangent) != nil {
		t.Error("tangent derived without texcoords")
	}
}

func TestBufferValidation(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]*Attribute
	}{
		{"missing position", map[string]*Attribute{}},
		{"not triangles", map[string]*Attribute{AttrPosition: NewAttribute(make([]float32, 6), 3)}},
		{"ragged", map[string]*Attribute{AttrPosition: NewAttribute(make([]float32, 10), 3)}},
		{"count mismatch", map[string]*Attribute{
			AttrPosition: NewAttribute(make([]float32, 9), 3),
			AttrTexcoord: NewAttribute(make([]float32, 4), 2),
		}},
	}
	for _, tt := range tests {
		if _, err := NewBuffer(tt.attrs); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: err = %v, want ErrInvalidParams", tt.name, err)
		}
	}
}

func TestAttributeBytes(t *testing.T) {
	a := &Attribute{Data: []float32{1, 258}, Element: Uint16, Size: 1, DType: TypeUnsignedShort}
	got := a.Bytes()
	want := []byte{1, 0, 2, 1}
	if string(got) != string(want) {
		t.Errorf("Bytes = %v, want %v", got, want)
	}
	f := NewAttribute([]float32{1}, 1).Bytes()
	if len(f) != 4 || f[3] != 0x3f || f[2] != 0x80 {
		t.Errorf("float bytes = %v", f)
	}
}

func TestKindNames(t *testing.T) {
	for k := KindBox; k <= KindBuffer; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("torus"); ok {
		t.Error("ParseKind accepted unknown tag")
	}
}
