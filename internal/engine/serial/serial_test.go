package serial

import (
	"bytes"
	"errors"
	stdmath "math"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/scenery/internal/engine/animation"
	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

func mustAdd(t *testing.T, parent, child scene.Object) {
	t.Helper()
	if err := parent.Base().AddChild(child); err != nil {
		t.Fatal(err)
	}
}

// testScene builds:
//
//	scene
//	├── group (rotated, scaled)
//	│   ├── box (phong, shared)
//	│   ├── ball (phong, shared)
//	│   └── eye (perspective camera)
//	├── top (orthographic camera)
//	├── wedge (prism, lambert)
//	├── tri (buffer, basic)
//	└── floor (plane, textured)
func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New("demo")
	s.Background = scene.Color{R: 0.1, G: 0.2, B: 0.3}

	group := scene.NewNode("group")
	group.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	group.SetRotation(math.Euler{X: 0.3, Y: -0.2, Z: 0.1, Order: math.OrderXYZ})
	group.SetScale(math.Vec3{X: 2, Y: 2, Z: 2})
	mustAdd(t, s, group)

	phong := material.NewPhong(math.Color{R: 1}, math.Color{R: 1, G: 1, B: 1}, 64)
	box, err := geometry.NewBox(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	sphere, err := geometry.NewSphere(0.5, 8, 6)
	if err != nil {
		t.Fatal(err)
	}
	boxMesh := scene.NewMesh("box", box, phong)
	boxMesh.RotateY(0.7)
	mustAdd(t, group, boxMesh)
	ball := scene.NewMesh("ball", sphere, phong)
	ball.SetPosition(math.Vec3{X: -1.5})
	mustAdd(t, group, ball)

	eye := scene.NewPerspectiveCamera("eye", 60, 1.5, 0.1, 100)
	eye.SetPosition(math.Vec3{Z: 10})
	mustAdd(t, group, eye)

	top := scene.NewOrthographicCamera("top", -5, 5, 5, -5, 0.1, 50)
	top.SetZoom(2)
	mustAdd(t, s, top)

	prism, err := geometry.NewPrism([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, scene.NewMesh("wedge", prism, material.NewLambert(math.Color{G: 1}, math.Color{R: 0.1, G: 0.1, B: 0.1})))

	buf, err := geometry.NewBuffer(map[string]*geometry.Attribute{
		geometry.AttrPosition: geometry.NewAttribute([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3),
	})
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, scene.NewMesh("tri", buf, material.NewBasic(math.Color{B: 1})))

	plane, err := geometry.NewPlane(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	floor := scene.NewMesh("floor", plane, material.NewTextured("wood.png", math.Color{R: 1, G: 1, B: 1}))
	floor.RotateX(-1.2)
	mustAdd(t, s, floor)
	return s
}

func testClip() *animation.Clip {
	f := &animation.Path{}
	f.Child("group").Keyframe = &animation.Keyframe{Rotation: animation.Vec(0, 90, 0)}
	return &animation.Clip{Name: "spin", Frames: []*animation.Path{f, {}}}
}

func parentName(o scene.Object) string {
	if p := o.Base().Parent(); p != nil {
		return p.Base().Name
	}
	return ""
}

func compareGraphs(t *testing.T, want, got *scene.Scene) {
	t.Helper()
	var a, b []scene.Object
	want.LevelOrder(func(o scene.Object) { a = append(a, o) })
	got.LevelOrder(func(o scene.Object) { b = append(b, o) })
	if len(a) != len(b) {
		t.Fatalf("node count = %d, want %d", len(b), len(a))
	}
	if got.Name != want.Name || got.Background != want.Background {
		t.Errorf("scene = %q %v, want %q %v", got.Name, got.Background, want.Name, want.Background)
	}
	for i := range a {
		wn, gn := a[i].Base(), b[i].Base()
		if wn.Name != gn.Name || a[i].Kind() != b[i].Kind() {
			t.Errorf("node %d = %q/%v, want %q/%v", i, gn.Name, b[i].Kind(), wn.Name, a[i].Kind())
			continue
		}
		if parentName(a[i]) != parentName(b[i]) {
			t.Errorf("%s parent = %q, want %q", wn.Name, parentName(b[i]), parentName(a[i]))
		}
		if wn.Position() != gn.Position() || wn.Scale() != gn.Scale() {
			t.Errorf("%s position/scale = %v %v, want %v %v", wn.Name, gn.Position(), gn.Scale(), wn.Position(), wn.Scale())
		}
		if wn.Rotation() != gn.Rotation() {
			t.Errorf("%s rotation = %+v, want %+v", wn.Name, gn.Rotation(), wn.Rotation())
		}
		if !wn.Quaternion().SameRotation(gn.Quaternion(), 1e-6) {
			t.Errorf("%s quaternion = %v, want %v", wn.Name, gn.Quaternion(), wn.Quaternion())
		}
	}
}

func TestSerializeLevelOrderIndices(t *testing.T) {
	m, err := Serialize(testScene(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"group", "top", "wedge", "tri", "floor", "box", "ball", "eye"}
	if len(m.Nodes) != len(wantNames) {
		t.Fatalf("nodes = %d, want %d", len(m.Nodes), len(wantNames))
	}
	for i, name := range wantNames {
		if m.Nodes[i].Name != name {
			t.Errorf("node %d = %q, want %q", i, m.Nodes[i].Name, name)
		}
	}
	if got := m.Scene.Children; len(got) != 5 || got[0] != 0 || got[4] != 4 {
		t.Errorf("scene children = %v", got)
	}
	if got := m.Nodes[0].Children; len(got) != 3 || got[0] != 5 || got[1] != 6 || got[2] != 7 {
		t.Errorf("group children = %v, want [5 6 7]", got)
	}
	if m.AnimationClip != nil {
		t.Error("nil clip should stay nil")
	}
}

func TestSerializeSharesTables(t *testing.T) {
	m, err := Serialize(testScene(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Materials) != 4 {
		t.Errorf("materials = %d, want 4 (phong shared)", len(m.Materials))
	}
	if len(m.Meshes) != 5 {
		t.Errorf("geometries = %d, want 5", len(m.Meshes))
	}
	if len(m.Cameras) != 2 {
		t.Errorf("cameras = %d, want 2", len(m.Cameras))
	}
	box, ball := m.Nodes[5], m.Nodes[6]
	if *box.MeshMaterial != *ball.MeshMaterial {
		t.Errorf("box material %d != ball material %d", *box.MeshMaterial, *ball.MeshMaterial)
	}
	if box.Camera != nil || m.Nodes[0].Mesh != nil {
		t.Error("node kinds leaked into records")
	}
	if m.Cameras[*m.Nodes[1].Camera].Type != "orthographic" {
		t.Errorf("top camera type = %q", m.Cameras[*m.Nodes[1].Camera].Type)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, YAML} {
		t.Run(f.String(), func(t *testing.T) {
			orig := testScene(t)
			m, err := Serialize(orig, testClip())
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := Encode(&buf, m, f); err != nil {
				t.Fatal(err)
			}
			decoded, err := Decode(&buf, f)
			if err != nil {
				t.Fatal(err)
			}
			p, err := Parse(decoded)
			if err != nil {
				t.Fatal(err)
			}
			compareGraphs(t, orig, p.Scene)

			if p.Clip == nil || p.Clip.Name != "spin" || p.Clip.Len() != 2 {
				t.Fatalf("clip = %+v", p.Clip)
			}
			if kf := p.Clip.Frames[0].Children["group"].Keyframe; kf == nil || kf.Rotation[1] != 90 {
				t.Errorf("clip keyframe = %+v", kf)
			}
			if len(p.Cameras) != 2 || p.Cameras[0].Name != "top" {
				t.Errorf("cameras = %v", p.Cameras)
			}
			if p.Cameras[0].Projection().(scene.Orthographic).Zoom != 2 {
				t.Errorf("ortho zoom lost: %+v", p.Cameras[0].Projection())
			}
			if len(p.Textures) != 1 || p.Textures[0].Source != "wood.png" {
				t.Errorf("textures = %v", p.Textures)
			}
		})
	}
}

func TestRoundTripQuarterTurn(t *testing.T) {
	s := scene.New("turn")
	n := scene.NewNode("n")
	n.RotateY(stdmath.Pi / 4)
	n.RotateY(stdmath.Pi / 4)
	mustAdd(t, s, n)

	m, err := Serialize(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Parse(m)
	if err != nil {
		t.Fatal(err)
	}
	back := p.Scene.FindByName("n")
	if back == nil {
		t.Fatal("node lost")
	}
	for _, axis := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		want := n.Quaternion().Rotate(axis)
		got := back.Base().Quaternion().Rotate(axis)
		if !got.ApproxEqual(want, 1e-5) {
			t.Errorf("axis %v: after round trip %v, want %v", axis, got, want)
		}
	}
}

func TestParseRebuildsParameters(t *testing.T) {
	m, err := Serialize(testScene(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Parse(m)
	if err != nil {
		t.Fatal(err)
	}

	box := p.Scene.FindByName("box").(*scene.Mesh)
	ball := p.Scene.FindByName("ball").(*scene.Mesh)
	if box.Material != ball.Material {
		t.Error("shared material was not shared after parse")
	}
	phong, ok := box.Material.(*material.Phong)
	if !ok || phong.Shininess != 64 || phong.Color != (math.Color{R: 1}) {
		t.Errorf("box material = %#v", box.Material)
	}
	if w, h, d := box.Geometry.(*geometry.Box).Size(); w != 1 || h != 2 || d != 3 {
		t.Errorf("box size = %v %v %v", w, h, d)
	}
	if ws, hs := ball.Geometry.(*geometry.Sphere).Segments(); ws != 8 || hs != 6 {
		t.Errorf("sphere segments = %d %d", ws, hs)
	}
	wedge := p.Scene.FindByName("wedge").(*scene.Mesh).Geometry.(*geometry.Prism)
	if len(wedge.Polygon()) != 3 || wedge.Height() != 2 {
		t.Errorf("prism = %v h=%v", wedge.Polygon(), wedge.Height())
	}
	tri := p.Scene.FindByName("tri").(*scene.Mesh).Geometry
	if tri.Kind() != geometry.KindBuffer || tri.VertexCount() != 3 {
		t.Errorf("buffer geometry = %v with %d vertices", tri.Kind(), tri.VertexCount())
	}
	if tri.Attribute(geometry.AttrNormal) == nil {
		t.Error("buffer normals not carried")
	}
}

func TestParseUnknownTypes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Model)
	}{
		{"material", func(m *Model) { m.Materials[0].Type = "toon" }},
		{"geometry", func(m *Model) { m.Meshes[0].Type = "torus" }},
		{"camera", func(m *Model) { m.Cameras[0].Type = "fisheye" }},
		{"element", func(m *Model) {
			for i := range m.Meshes {
				if m.Meshes[i].Type == "buffer" {
					a := m.Meshes[i].Primitives.Attributes[geometry.AttrPosition]
					a.Data.Type = "Float16Array"
					m.Meshes[i].Primitives.Attributes[geometry.AttrPosition] = a
				}
			}
		}},
		{"order", func(m *Model) { m.Nodes[0].Rotation.Order = "XXY" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Serialize(testScene(t), nil)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(m)
			if _, err := Parse(m); !errors.Is(err, ErrUnknownType) {
				t.Errorf("Parse error = %v, want ErrUnknownType", err)
			}
		})
	}
}

func TestParseBadIndex(t *testing.T) {
	idx := func(i int) *int { return &i }
	tests := []struct {
		name string
		m    Model
	}{
		{"scene child", Model{Scene: SceneRecord{Children: []int{3}}, Nodes: []NodeRecord{{Name: "a"}}}},
		{"node child", Model{
			Scene: SceneRecord{Children: []int{0}},
			Nodes: []NodeRecord{{Name: "a", Children: []int{-1}}},
		}},
		{"camera", Model{Nodes: []NodeRecord{{Name: "c", Camera: idx(0)}}}},
		{"mesh", Model{Nodes: []NodeRecord{{Name: "m", Mesh: idx(0), MeshMaterial: idx(0)}}}},
		{"half mesh", Model{
			Materials: []MaterialRecord{{Type: "normal"}},
			Nodes:     []NodeRecord{{Name: "m", MeshMaterial: idx(0)}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(&tt.m); !errors.Is(err, ErrBadIndex) {
				t.Errorf("Parse error = %v, want ErrBadIndex", err)
			}
		})
	}
}

func TestParseDuplicateAttachLastWins(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	defer logger.Set(zap.NewNop())

	m := &Model{
		Scene: SceneRecord{Name: "s", Children: []int{0, 1}},
		Nodes: []NodeRecord{
			{Name: "first", Children: []int{2}},
			{Name: "second", Children: []int{2}},
			{Name: "shared"},
		},
	}
	p, err := Parse(m)
	if err != nil {
		t.Fatal(err)
	}
	shared := p.Nodes[2]
	if got := parentName(shared); got != "second" {
		t.Errorf("shared parent = %q, want second", got)
	}
	if n := len(p.Nodes[0].Base().Children()); n != 0 {
		t.Errorf("first still has %d children", n)
	}
	if p.Scene.Count() != 3 {
		t.Errorf("scene count = %d, want 3", p.Scene.Count())
	}
	if logs.FilterField(zap.String("node", "shared")).Len() != 1 {
		t.Errorf("expected one warning for the shared node, got %v", logs.All())
	}
}

func TestParseCycle(t *testing.T) {
	m := &Model{
		Scene: SceneRecord{Children: []int{0}},
		Nodes: []NodeRecord{
			{Name: "a", Children: []int{1}},
			{Name: "b", Children: []int{0}},
		},
	}
	if _, err := Parse(m); !errors.Is(err, scene.ErrCycle) {
		t.Errorf("Parse error = %v, want ErrCycle", err)
	}
}

type oddGeometry struct{}

func (oddGeometry) Kind() geometry.Kind                        { return geometry.Kind(99) }
func (oddGeometry) Attributes() map[string]*geometry.Attribute { return nil }
func (oddGeometry) Attribute(string) *geometry.Attribute       { return nil }
func (oddGeometry) VertexCount() int                           { return 0 }

func TestSerializeUnknownGeometry(t *testing.T) {
	s := scene.New("s")
	mustAdd(t, s, scene.NewMesh("odd", oddGeometry{}, material.NewNormal()))
	if _, err := Serialize(s, nil); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Serialize error = %v, want ErrUnknownType", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	orig := testScene(t)
	for _, name := range []string{"scene.json", "scene.yaml", "scene.yml"} {
		path := filepath.Join(dir, name)
		if err := Save(path, orig, testClip()); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		p, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		compareGraphs(t, orig, p.Scene)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.json", JSON, true},
		{"a.JSON", JSON, true},
		{"dir/a.yaml", YAML, true},
		{"a.yml", YAML, true},
		{"a.gltf", 0, false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Errorf("FormatFromPath(%q) = %v, %v", tt.path, got, err)
		}
	}
}
