// Package importer converts external 3D formats into parsed scenes.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/serial"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

const (
	defaultShininess = 32
	defaultFar       = 1000
)

var (
	defaultColor = math.Color{R: 0.8, G: 0.8, B: 0.8}
	specular     = math.Color{R: 0.25, G: 0.25, B: 0.25}
)

// IsGLTF reports whether path has a glTF extension.
func IsGLTF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// LoadGLTF reads a .gltf or .glb file and converts its default scene.
func LoadGLTF(path string) (*serial.Parsed, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	p, err := Convert(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

type converter struct {
	doc       *gltf.Document
	log       *zap.Logger
	parsed    *serial.Parsed
	materials map[int]material.Material
	fallback  material.Material
	meshes    map[int][]*scene.Mesh
	visiting  map[int]bool
}

// Convert builds a scene from the document's default scene, or from its
// first scene when none is marked default. Each triangle primitive
// becomes a buffer geometry with indices expanded; other primitive modes
// are skipped. Base color factors become phong materials.
func Convert(doc *gltf.Document, name string) (*serial.Parsed, error) {
	c := &converter{
		doc:       doc,
		log:       logger.Named("importer"),
		parsed:    &serial.Parsed{},
		materials: make(map[int]material.Material),
		meshes:    make(map[int][]*scene.Mesh),
		visiting:  make(map[int]bool),
	}

	var roots []int
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil {
			si = int(*doc.Scene)
		}
		if si < 0 || si >= len(doc.Scenes) {
			return nil, fmt.Errorf("%w: scene %d", serial.ErrBadIndex, si)
		}
		if doc.Scenes[si].Name != "" {
			name = doc.Scenes[si].Name
		}
		for _, n := range doc.Scenes[si].Nodes {
			roots = append(roots, int(n))
		}
	} else {
		roots = rootNodes(doc)
	}

	s := scene.New(name)
	c.parsed.Scene = s
	for _, i := range roots {
		obj, err := c.node(i)
		if err != nil {
			return nil, err
		}
		if err := s.AddChild(obj); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	c.log.Debug("gltf converted",
		zap.String("scene", name),
		zap.Int("nodes", len(c.parsed.Nodes)),
		zap.Int("geometries", len(c.parsed.Geometries)),
		zap.Int("materials", len(c.parsed.Materials)),
		zap.Int("cameras", len(c.parsed.Cameras)),
	)
	return c.parsed, nil
}

// rootNodes returns the nodes that are nobody's child.
func rootNodes(doc *gltf.Document) []int {
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, ci := range n.Children {
			child[int(ci)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *converter) node(i int) (scene.Object, error) {
	if i < 0 || i >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d", serial.ErrBadIndex, i)
	}
	if c.visiting[i] {
		return nil, fmt.Errorf("node %d: %w", i, scene.ErrCycle)
	}
	c.visiting[i] = true
	defer delete(c.visiting, i)

	n := c.doc.Nodes[i]
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node%d", i)
	}

	var obj scene.Object
	switch {
	case n.Camera != nil:
		cam, err := c.camera(int(*n.Camera), name)
		if err != nil {
			return nil, err
		}
		obj = cam
	case n.Mesh != nil:
		meshes, err := c.mesh(int(*n.Mesh), name)
		if err != nil {
			return nil, err
		}
		if len(meshes) == 1 {
			obj = meshes[0]
		} else {
			group := scene.NewNode(name)
			for _, m := range meshes {
				if err := group.AddChild(m); err != nil {
					return nil, err
				}
			}
			obj = group
		}
	default:
		obj = scene.NewNode(name)
	}
	c.parsed.Nodes = append(c.parsed.Nodes, obj)
	applyTransform(obj.Base(), n)

	for _, ci := range n.Children {
		child, err := c.node(int(ci))
		if err != nil {
			return nil, err
		}
		if err := obj.Base().AddChild(child); err != nil {
			return nil, fmt.Errorf("node %d: %w", ci, err)
		}
	}
	return obj, nil
}

func applyTransform(dst *scene.Node, n *gltf.Node) {
	var m math.Mat4
	for k, v := range n.Matrix {
		m[k] = float32(v)
	}
	if m != (math.Mat4{}) && m != math.Identity() {
		pos, q, scale := m.Decompose()
		dst.SetPosition(pos)
		dst.SetQuaternion(q)
		dst.SetScale(scale)
		return
	}

	t, r, s := n.Translation, n.Rotation, n.Scale
	dst.SetPosition(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})
	q := math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
	if q != (math.Quat{}) {
		dst.SetQuaternion(q.Normalize())
	}
	if scale := (math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}); scale != (math.Vec3{}) {
		dst.SetScale(scale)
	}
}

func (c *converter) camera(i int, name string) (*scene.Camera, error) {
	if i < 0 || i >= len(c.doc.Cameras) {
		return nil, fmt.Errorf("%w: camera %d", serial.ErrBadIndex, i)
	}
	gc := c.doc.Cameras[i]

	var proj scene.Projection
	switch {
	case gc.Perspective != nil:
		p := gc.Perspective
		persp := scene.Perspective{
			FOV:    math.RadToDeg(float32(p.Yfov)),
			Aspect: 1,
			Near:   float32(p.Znear),
			Far:    defaultFar,
			Zoom:   1,
		}
		if p.AspectRatio != nil {
			persp.Aspect = float32(*p.AspectRatio)
		}
		if p.Zfar != nil {
			persp.Far = float32(*p.Zfar)
		}
		proj = persp
	case gc.Orthographic != nil:
		o := gc.Orthographic
		xmag, ymag := float32(o.Xmag), float32(o.Ymag)
		proj = scene.Orthographic{
			Left: -xmag, Right: xmag, Top: ymag, Bottom: -ymag,
			Near: float32(o.Znear), Far: float32(o.Zfar), Zoom: 1,
		}
	default:
		return nil, fmt.Errorf("%w: camera %d has no projection", serial.ErrUnknownType, i)
	}

	cam := scene.NewCamera(name, proj)
	c.parsed.Cameras = append(c.parsed.Cameras, cam)
	return cam, nil
}

// mesh returns one scene mesh per triangle primitive. Geometries and
// materials are shared when a glTF mesh is instanced by several nodes.
func (c *converter) mesh(i int, name string) ([]*scene.Mesh, error) {
	if i < 0 || i >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d", serial.ErrBadIndex, i)
	}
	if cached, ok := c.meshes[i]; ok {
		out := make([]*scene.Mesh, len(cached))
		for k, m := range cached {
			out[k] = scene.NewMesh(m.Name, m.Geometry, m.Material)
		}
		return out, nil
	}

	gm := c.doc.Meshes[i]
	var out []*scene.Mesh
	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			c.log.Debug("skipping non-triangle primitive",
				zap.String("mesh", gm.Name), zap.Int("primitive", pi))
			continue
		}
		g, err := c.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", i, pi, err)
		}
		if g == nil {
			continue
		}
		mat, err := c.material(prim.Material)
		if err != nil {
			return nil, err
		}
		out = append(out, scene.NewMesh(fmt.Sprintf("%s.%d", name, pi), g, mat))
	}
	if len(out) == 1 {
		out[0].Name = name
	}
	c.meshes[i] = out
	return out, nil
}

func (c *converter) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(c.doc.Accessors) || c.doc.Accessors[i] == nil {
		return nil, fmt.Errorf("%w: accessor %d", serial.ErrBadIndex, i)
	}
	return c.doc.Accessors[i], nil
}

func (c *converter) primitive(prim *gltf.Primitive) (geometry.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acc, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = c.accessor(idx); err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err = c.accessor(idx); err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
	}

	var order []uint32
	if prim.Indices != nil {
		if acc, err = c.accessor(*prim.Indices); err != nil {
			return nil, err
		}
		if order, err = modeler.ReadIndices(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		order = make([]uint32, len(positions))
		for k := range order {
			order[k] = uint32(k)
		}
	}
	order = order[:len(order)-len(order)%3]
	if len(order) == 0 {
		return nil, nil
	}

	pos := make([]float32, 0, len(order)*3)
	var nrm, tex []float32
	for _, k := range order {
		if int(k) >= len(positions) {
			return nil, fmt.Errorf("%w: vertex index %d of %d", serial.ErrBadIndex, k, len(positions))
		}
		p := positions[k]
		pos = append(pos, p[0], p[1], p[2])
		if int(k) < len(normals) {
			n := normals[k]
			nrm = append(nrm, n[0], n[1], n[2])
		}
		if int(k) < len(uvs) {
			// glTF puts v=0 at the top of the image.
			tex = append(tex, uvs[k][0], 1-uvs[k][1])
		}
	}

	attrs := map[string]*geometry.Attribute{
		geometry.AttrPosition: geometry.NewAttribute(pos, 3),
	}
	if len(nrm) == len(pos) {
		attrs[geometry.AttrNormal] = geometry.NewAttribute(nrm, 3)
	}
	if len(tex) == len(pos)/3*2 {
		attrs[geometry.AttrTexcoord] = geometry.NewAttribute(tex, 2)
	}
	g, err := geometry.NewBuffer(attrs)
	if err != nil {
		return nil, err
	}
	c.parsed.Geometries = append(c.parsed.Geometries, g)
	return g, nil
}

func (c *converter) material(idx *int) (material.Material, error) {
	if idx == nil {
		if c.fallback == nil {
			c.fallback = material.NewPhong(defaultColor, specular, defaultShininess)
			c.parsed.Materials = append(c.parsed.Materials, c.fallback)
		}
		return c.fallback, nil
	}
	i := *idx
	if m, ok := c.materials[i]; ok {
		return m, nil
	}
	if i < 0 || i >= len(c.doc.Materials) {
		return nil, fmt.Errorf("%w: material %d", serial.ErrBadIndex, i)
	}

	color := defaultColor
	if pbr := c.doc.Materials[i].PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		color = math.Color{R: float32(f[0]), G: float32(f[1]), B: float32(f[2])}
	}
	m := material.NewPhong(color, specular, defaultShininess)
	c.materials[i] = m
	c.parsed.Materials = append(c.parsed.Materials, m)
	return m, nil
}
