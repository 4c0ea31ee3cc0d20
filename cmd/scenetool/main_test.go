package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/scenery/internal/engine/animation"
	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/serial"
	"github.com/Faultbox/scenery/pkg/math"
)

func writeScene(t *testing.T) string {
	t.Helper()
	s := scene.New("room")
	s.Background = math.Color{R: 0.5}

	box, err := geometry.NewBox(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	ball, err := geometry.NewSphere(1, 8, 6)
	if err != nil {
		t.Fatal(err)
	}
	mat := material.NewLambert(math.Color{G: 1}, math.Color{})

	table := scene.NewNode("table")
	table.SetPosition(math.Vec3{Y: 1})
	crate := scene.NewMesh("crate", box, mat)
	orb := scene.NewMesh("orb", ball, mat)
	cam := scene.NewOrthographicCamera("top", -5, 5, 5, -5, 0.1, 50)

	for _, link := range []struct{ parent, child scene.Object }{
		{s, table}, {table, crate}, {table, orb}, {s, cam},
	} {
		if err := link.parent.Base().AddChild(link.child); err != nil {
			t.Fatal(err)
		}
	}

	clip := &animation.Clip{Name: "spin", Frames: []*animation.Path{{}, {}, {}}}
	path := filepath.Join(t.TempDir(), "room.yaml")
	if err := serial.Save(path, s, clip); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInfo(t *testing.T) {
	var out bytes.Buffer
	if err := cmdInfo(&out, []string{writeScene(t)}); err != nil {
		t.Fatalf("info: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Scene:      room",
		"Nodes:      4 (camera: 1, mesh: 2, node: 1)",
		"Geometries: 2 (box: 1, sphere: 1)",
		"Materials:  1 (lambert: 1)",
		"orthographic",
		"Animation:  spin (3 frames)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("info output missing %q:\n%s", want, got)
		}
	}
}

func TestTree(t *testing.T) {
	var out bytes.Buffer
	if err := cmdTree(&out, []string{writeScene(t)}); err != nil {
		t.Fatalf("tree: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("tree has %d lines:\n%s", len(lines), out.String())
	}
	if lines[0] != "room" {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "├── table [node]") {
		t.Errorf("table line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "│   ├── crate [mesh]") || !strings.HasSuffix(lines[2], "box/lambert") {
		t.Errorf("crate line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "│   └── orb [mesh]") {
		t.Errorf("orb line = %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "└── top [camera]") || !strings.HasSuffix(lines[4], "orthographic") {
		t.Errorf("camera line = %q", lines[4])
	}
}

func TestConvert(t *testing.T) {
	in := writeScene(t)
	out := filepath.Join(t.TempDir(), "room.json")

	var buf bytes.Buffer
	if err := cmdConvert(&buf, []string{in, out}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(buf.String(), "(4 nodes)") {
		t.Errorf("convert output = %q", buf.String())
	}

	p, err := serial.Load(out)
	if err != nil {
		t.Fatalf("load converted: %v", err)
	}
	if p.Scene.Name != "room" || p.Scene.Count() != 4 || p.Clip.Len() != 3 {
		t.Errorf("converted scene %q has %d nodes, %d frames", p.Scene.Name, p.Scene.Count(), p.Clip.Len())
	}
}

func TestConvertErrors(t *testing.T) {
	in := writeScene(t)

	if err := cmdConvert(&bytes.Buffer{}, []string{in}); err == nil {
		t.Error("expected usage error with one argument")
	}
	err := cmdConvert(&bytes.Buffer{}, []string{in, filepath.Join(t.TempDir(), "room.obj")})
	if !errors.Is(err, serial.ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}

func TestLoadUsage(t *testing.T) {
	if err := cmdInfo(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected usage error")
	}
}
