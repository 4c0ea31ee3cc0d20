package serial

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenery/internal/engine/animation"
	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/pkg/math"
)

var (
	// ErrUnknownType is returned for node, camera, geometry or material
	// types that have no wire representation or are not recognized.
	ErrUnknownType = errors.New("serial: unknown type")
	// ErrBadIndex is returned when a record refers outside its table.
	ErrBadIndex = errors.New("serial: index out of range")
)

type serializer struct {
	model      *Model
	nodes      map[*scene.Node]int
	geometries map[geometry.Geometry]int
	materials  map[uint64]int
}

// Serialize flattens s into a Model. Nodes are indexed in level order;
// geometries and materials shared by several meshes are written once.
// clip is carried unchanged and may be nil.
func Serialize(s *scene.Scene, clip *animation.Clip) (*Model, error) {
	w := &serializer{
		model: &Model{
			Scene: SceneRecord{
				Name:  s.Name,
				Color: colorRecord(s.Background),
			},
			Nodes:         []NodeRecord{},
			Cameras:       []CameraRecord{},
			Meshes:        []GeometryRecord{},
			Materials:     []MaterialRecord{},
			AnimationClip: clip,
		},
		nodes:      make(map[*scene.Node]int),
		geometries: make(map[geometry.Geometry]int),
		materials:  make(map[uint64]int),
	}

	var order []scene.Object
	s.LevelOrder(func(o scene.Object) {
		w.nodes[o.Base()] = len(order)
		order = append(order, o)
	})

	for _, o := range order {
		rec, err := w.node(o)
		if err != nil {
			return nil, err
		}
		w.model.Nodes = append(w.model.Nodes, rec)
	}
	w.model.Scene.Children = w.childIndices(s.Base())
	return w.model, nil
}

func (w *serializer) childIndices(n *scene.Node) []int {
	idx := make([]int, 0, len(n.Children()))
	for _, c := range n.Children() {
		idx = append(idx, w.nodes[c.Base()])
	}
	return idx
}

func (w *serializer) node(o scene.Object) (NodeRecord, error) {
	n := o.Base()
	rot := n.Rotation()
	scale := n.Scale()
	rec := NodeRecord{
		Name:        n.Name,
		Children:    w.childIndices(n),
		Translation: VectorRecord{Elements: n.Position().Array()},
		Rotation: &RotationRecord{
			Elements: [3]float32{rot.X, rot.Y, rot.Z},
			Order:    rot.Order.String(),
		},
		Scale: &VectorRecord{Elements: scale.Array()},
	}

	switch v := o.(type) {
	case *scene.Camera:
		cam, err := cameraRecord(v.Projection())
		if err != nil {
			return rec, fmt.Errorf("node %q: %w", n.Name, err)
		}
		idx := len(w.model.Cameras)
		w.model.Cameras = append(w.model.Cameras, cam)
		rec.Camera = &idx
	case *scene.Mesh:
		if v.Geometry == nil || v.Material == nil {
			return rec, fmt.Errorf("mesh %q: missing geometry or material", n.Name)
		}
		g, err := w.geometry(v.Geometry)
		if err != nil {
			return rec, fmt.Errorf("mesh %q: %w", n.Name, err)
		}
		m, err := w.material(v.Material)
		if err != nil {
			return rec, fmt.Errorf("mesh %q: %w", n.Name, err)
		}
		rec.Mesh, rec.MeshMaterial = &g, &m
	case *scene.Node:
	default:
		return rec, fmt.Errorf("%w: node %q of kind %s", ErrUnknownType, n.Name, o.Kind())
	}
	return rec, nil
}

func (w *serializer) geometry(g geometry.Geometry) (int, error) {
	if idx, ok := w.geometries[g]; ok {
		return idx, nil
	}
	rec := GeometryRecord{Type: g.Kind().String()}
	p := &rec.Primitives
	switch v := g.(type) {
	case *geometry.Box:
		p.Width, p.Height, p.Depth = v.Size()
	case *geometry.Plane:
		p.Width, p.Height = v.Size()
	case *geometry.Prism:
		p.Height = v.Height()
		for _, pt := range v.Polygon() {
			p.Vertices = append(p.Vertices, [2]float32{pt.X, pt.Y})
		}
	case *geometry.Sphere:
		p.Radius = v.Radius()
		p.WidthSegments, p.HeightSegments = v.Segments()
	case *geometry.Buffer:
	default:
		return 0, fmt.Errorf("%w: geometry %T", ErrUnknownType, g)
	}
	p.Attributes = make(map[string]AttributeRecord, len(g.Attributes()))
	for _, name := range geometry.Names(g) {
		a := g.Attribute(name)
		p.Attributes[name] = AttributeRecord{
			Data:      TypedArray{Type: a.Element.String(), Data: a.Data},
			Size:      a.Size,
			DType:     a.DType,
			Normalize: a.Normalize,
			Stride:    a.Stride,
			Offset:    a.Offset,
		}
	}

	idx := len(w.model.Meshes)
	w.model.Meshes = append(w.model.Meshes, rec)
	w.geometries[g] = idx
	return idx, nil
}

func (w *serializer) material(m material.Material) (int, error) {
	if idx, ok := w.materials[m.ID()]; ok {
		return idx, nil
	}
	rec := MaterialRecord{Type: m.Kind().String()}
	u := &rec.Primitives.Uniforms
	switch v := m.(type) {
	case *material.Basic:
		u.Color = colorPtr(v.Color)
	case *material.Lambert:
		u.Color, u.Ambient = colorPtr(v.Color), colorPtr(v.Ambient)
	case *material.Phong:
		shininess := v.Shininess
		u.Color, u.Specular, u.Shininess = colorPtr(v.Color), colorPtr(v.Specular), &shininess
	case *material.Normal:
	case *material.Textured:
		u.Texture, u.Tint = v.Texture.Source, colorPtr(v.Tint)
	default:
		return 0, fmt.Errorf("%w: material %T", ErrUnknownType, m)
	}

	idx := len(w.model.Materials)
	w.model.Materials = append(w.model.Materials, rec)
	w.materials[m.ID()] = idx
	return idx, nil
}

func cameraRecord(p scene.Projection) (CameraRecord, error) {
	rec := CameraRecord{Type: p.CameraKind().String()}
	switch v := p.(type) {
	case scene.Orthographic:
		rec.Projection = ProjectionRecord{
			Left: v.Left, Right: v.Right, Top: v.Top, Bottom: v.Bottom,
			Near: v.Near, Far: v.Far, Zoom: v.Zoom,
		}
	case scene.Perspective:
		rec.Projection = perspectiveRecord(v)
	case scene.Oblique:
		rec.Projection = perspectiveRecord(v.Perspective)
		rec.Projection.Angle = v.Angle
	default:
		return rec, fmt.Errorf("%w: projection %T", ErrUnknownType, p)
	}
	return rec, nil
}

func perspectiveRecord(p scene.Perspective) ProjectionRecord {
	return ProjectionRecord{FOV: p.FOV, Aspect: p.Aspect, Near: p.Near, Far: p.Far, Zoom: p.Zoom}
}

func colorRecord(c math.Color) ColorRecord {
	return ColorRecord{R: c.R, G: c.G, B: c.B}
}

func colorPtr(c math.Color) *ColorRecord {
	r := colorRecord(c)
	return &r
}

func (c ColorRecord) color() math.Color {
	return math.Color{R: c.R, G: c.G, B: c.B}
}
