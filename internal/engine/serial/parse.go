package serial

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/animation"
	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

// Parsed is a scene rebuilt from a Model, with the tables it was built
// from kept in wire order.
type Parsed struct {
	Scene      *scene.Scene
	Clip       *animation.Clip
	Nodes      []scene.Object
	Materials  []material.Material
	Geometries []geometry.Geometry
	Cameras    []*scene.Camera
	// Textures lists the unresolved textures of textured materials.
	Textures []*texture.Texture
}

var white = math.Color{R: 1, G: 1, B: 1}

const defaultShininess = 30

// Parse rebuilds a scene from m. Materials and geometries are built first,
// then every node in index order, then nodes are attached breadth-first
// from the scene's children. A node listed under two parents ends up under
// the one visited last.
func Parse(m *Model) (*Parsed, error) {
	p := &Parsed{Clip: m.AnimationClip}

	for i, rec := range m.Materials {
		mat, err := buildMaterial(rec)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		if t, ok := mat.(*material.Textured); ok {
			p.Textures = append(p.Textures, t.Texture)
		}
		p.Materials = append(p.Materials, mat)
	}
	for i, rec := range m.Meshes {
		g, err := buildGeometry(rec)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		p.Geometries = append(p.Geometries, g)
	}
	projections := make([]scene.Projection, 0, len(m.Cameras))
	for i, rec := range m.Cameras {
		proj, err := buildProjection(rec)
		if err != nil {
			return nil, fmt.Errorf("camera %d: %w", i, err)
		}
		projections = append(projections, proj)
	}

	for i, rec := range m.Nodes {
		obj, err := p.buildNode(rec, projections)
		if err != nil {
			return nil, fmt.Errorf("node %d (%q): %w", i, rec.Name, err)
		}
		p.Nodes = append(p.Nodes, obj)
	}

	p.Scene = scene.New(m.Scene.Name)
	p.Scene.Background = m.Scene.Color.color()
	if err := p.attach(m); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parsed) buildNode(rec NodeRecord, projections []scene.Projection) (scene.Object, error) {
	var obj scene.Object
	switch {
	case rec.Camera != nil:
		i := *rec.Camera
		if i < 0 || i >= len(projections) {
			return nil, fmt.Errorf("%w: camera %d", ErrBadIndex, i)
		}
		cam := scene.NewCamera(rec.Name, projections[i])
		p.Cameras = append(p.Cameras, cam)
		obj = cam
	case rec.Mesh != nil || rec.MeshMaterial != nil:
		if rec.Mesh == nil || rec.MeshMaterial == nil {
			return nil, fmt.Errorf("%w: mesh needs both geometry and material", ErrBadIndex)
		}
		g, mi := *rec.Mesh, *rec.MeshMaterial
		if g < 0 || g >= len(p.Geometries) {
			return nil, fmt.Errorf("%w: geometry %d", ErrBadIndex, g)
		}
		if mi < 0 || mi >= len(p.Materials) {
			return nil, fmt.Errorf("%w: material %d", ErrBadIndex, mi)
		}
		obj = scene.NewMesh(rec.Name, p.Geometries[g], p.Materials[mi])
	default:
		obj = scene.NewNode(rec.Name)
	}

	n := obj.Base()
	n.SetPosition(math.Vec3FromArray(rec.Translation.Elements))
	if rec.Rotation != nil {
		order, err := math.ParseEulerOrder(rec.Rotation.Order)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownType, err)
		}
		e := rec.Rotation.Elements
		n.SetRotation(math.Euler{X: e[0], Y: e[1], Z: e[2], Order: order})
	}
	if rec.Scale != nil {
		n.SetScale(math.Vec3FromArray(rec.Scale.Elements))
	}
	return obj, nil
}

func (p *Parsed) attach(m *Model) error {
	log := logger.Named("serial")
	parentOf := make(map[int]string, len(p.Nodes))
	expanded := make([]bool, len(p.Nodes))

	var queue []int
	link := func(parent scene.Object, child int) error {
		if child < 0 || child >= len(p.Nodes) {
			return fmt.Errorf("%w: child %d of %q", ErrBadIndex, child, parent.Base().Name)
		}
		if prev, ok := parentOf[child]; ok {
			log.Warn("node attached twice, last parent wins",
				zap.String("node", p.Nodes[child].Base().Name),
				zap.String("previous", prev),
				zap.String("parent", parent.Base().Name))
		}
		if err := parent.Base().AddChild(p.Nodes[child]); err != nil {
			return fmt.Errorf("attach node %d to %q: %w", child, parent.Base().Name, err)
		}
		parentOf[child] = parent.Base().Name
		queue = append(queue, child)
		return nil
	}

	for _, c := range m.Scene.Children {
		if err := link(p.Scene, c); err != nil {
			return err
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if expanded[i] {
			continue
		}
		expanded[i] = true
		for _, c := range m.Nodes[i].Children {
			if err := link(p.Nodes[i], c); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildProjection(rec CameraRecord) (scene.Projection, error) {
	kind, ok := scene.ParseCameraKind(rec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: camera %q", ErrUnknownType, rec.Type)
	}
	r := rec.Projection
	persp := scene.Perspective{FOV: r.FOV, Aspect: r.Aspect, Near: r.Near, Far: r.Far, Zoom: r.Zoom}
	switch kind {
	case scene.CameraOrthographic:
		return scene.Orthographic{
			Left: r.Left, Right: r.Right, Top: r.Top, Bottom: r.Bottom,
			Near: r.Near, Far: r.Far, Zoom: r.Zoom,
		}, nil
	case scene.CameraPerspective:
		return persp, nil
	case scene.CameraOblique:
		return scene.Oblique{Perspective: persp, Angle: r.Angle}, nil
	}
	return nil, fmt.Errorf("%w: camera %q", ErrUnknownType, rec.Type)
}

func buildGeometry(rec GeometryRecord) (geometry.Geometry, error) {
	kind, ok := geometry.ParseKind(rec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: geometry %q", ErrUnknownType, rec.Type)
	}
	p := rec.Primitives
	switch kind {
	case geometry.KindBox:
		return geometry.NewBox(p.Width, p.Height, p.Depth)
	case geometry.KindPlane:
		return geometry.NewPlane(p.Width, p.Height)
	case geometry.KindPrism:
		poly := make([]math.Vec2, len(p.Vertices))
		for i, v := range p.Vertices {
			poly[i] = math.Vec2{X: v[0], Y: v[1]}
		}
		return geometry.NewPrism(poly, p.Height)
	case geometry.KindSphere:
		return geometry.NewSphere(p.Radius, p.WidthSegments, p.HeightSegments)
	case geometry.KindBuffer:
		attrs := make(map[string]*geometry.Attribute, len(p.Attributes))
		for name, a := range p.Attributes {
			elem, ok := geometry.ParseElementKind(a.Data.Type)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %q element %q", ErrUnknownType, name, a.Data.Type)
			}
			attrs[name] = &geometry.Attribute{
				Data:      a.Data.Data,
				Element:   elem,
				Size:      a.Size,
				DType:     a.DType,
				Normalize: a.Normalize,
				Stride:    a.Stride,
				Offset:    a.Offset,
			}
		}
		return geometry.NewBuffer(attrs)
	}
	return nil, fmt.Errorf("%w: geometry %q", ErrUnknownType, rec.Type)
}

func buildMaterial(rec MaterialRecord) (material.Material, error) {
	kind, ok := material.ParseKind(rec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: material %q", ErrUnknownType, rec.Type)
	}
	u := rec.Primitives.Uniforms
	switch kind {
	case material.KindBasic:
		return material.NewBasic(colorOr(u.Color, white)), nil
	case material.KindLambert:
		return material.NewLambert(colorOr(u.Color, white), colorOr(u.Ambient, math.Color{})), nil
	case material.KindPhong:
		shininess := float32(defaultShininess)
		if u.Shininess != nil {
			shininess = *u.Shininess
		}
		return material.NewPhong(colorOr(u.Color, white), colorOr(u.Specular, white), shininess), nil
	case material.KindNormal:
		return material.NewNormal(), nil
	case material.KindTextured:
		if u.Texture == "" {
			return nil, errors.New("textured material without a texture source")
		}
		return material.NewTextured(u.Texture, colorOr(u.Tint, white)), nil
	}
	return nil, fmt.Errorf("%w: material %q", ErrUnknownType, rec.Type)
}

func colorOr(c *ColorRecord, def math.Color) math.Color {
	if c == nil {
		return def
	}
	return c.color()
}
