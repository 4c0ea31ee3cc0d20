// Package serial converts scene graphs to and from a flat, index-based
// wire model that encodes as JSON or YAML.
//
// Nodes, cameras, geometries and materials live in separate tables and
// refer to each other by position. Shared geometries and materials are
// stored once.
package serial

import "github.com/Faultbox/scenery/internal/engine/animation"

// Model is the root wire document.
type Model struct {
	Scene         SceneRecord      `json:"scene" yaml:"scene"`
	Nodes         []NodeRecord     `json:"nodes" yaml:"nodes"`
	Cameras       []CameraRecord   `json:"cameras" yaml:"cameras"`
	Meshes        []GeometryRecord `json:"meshes" yaml:"meshes"`
	Materials     []MaterialRecord `json:"materials" yaml:"materials"`
	AnimationClip *animation.Clip  `json:"animationClip,omitempty" yaml:"animationClip,omitempty"`
}

// SceneRecord describes the root node.
type SceneRecord struct {
	Name     string      `json:"name" yaml:"name"`
	Color    ColorRecord `json:"color" yaml:"color"`
	Children []int       `json:"children" yaml:"children"`
}

type ColorRecord struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
}

// NodeRecord is one graph node. Camera is set for camera nodes; Mesh and
// MeshMaterial are set together for mesh nodes.
type NodeRecord struct {
	Name         string          `json:"name" yaml:"name"`
	Children     []int           `json:"children" yaml:"children"`
	Camera       *int            `json:"camera,omitempty" yaml:"camera,omitempty"`
	Mesh         *int            `json:"mesh,omitempty" yaml:"mesh,omitempty"`
	MeshMaterial *int            `json:"meshMaterial,omitempty" yaml:"meshMaterial,omitempty"`
	Translation  VectorRecord    `json:"translation" yaml:"translation"`
	Rotation     *RotationRecord `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale        *VectorRecord   `json:"scale,omitempty" yaml:"scale,omitempty"`
}

type VectorRecord struct {
	Elements [3]float32 `json:"elements" yaml:"elements,flow"`
}

// RotationRecord holds Euler angles in radians and their order name.
type RotationRecord struct {
	Elements [3]float32 `json:"elements" yaml:"elements,flow"`
	Order    string     `json:"order" yaml:"order"`
}

// CameraRecord is a camera table entry.
type CameraRecord struct {
	Type       string           `json:"type" yaml:"type"`
	Projection ProjectionRecord `json:"projection" yaml:"projection"`
}

// ProjectionRecord is the union of all projection parameters. Fields not
// used by a camera type are omitted.
type ProjectionRecord struct {
	Left   float32 `json:"left,omitempty" yaml:"left,omitempty"`
	Right  float32 `json:"right,omitempty" yaml:"right,omitempty"`
	Top    float32 `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom float32 `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	FOV    float32 `json:"fov,omitempty" yaml:"fov,omitempty"`
	Aspect float32 `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	Angle  float32 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Near   float32 `json:"near" yaml:"near"`
	Far    float32 `json:"far" yaml:"far"`
	Zoom   float32 `json:"zoom" yaml:"zoom"`
}

// GeometryRecord is a geometry table entry.
type GeometryRecord struct {
	Type       string         `json:"type" yaml:"type"`
	Primitives GeometryParams `json:"primitives" yaml:"primitives"`
}

// GeometryParams is the union of all geometry parameters plus the vertex
// attributes. Parametric kinds are rebuilt from their parameters; buffer
// geometries are rebuilt from Attributes.
type GeometryParams struct {
	Width          float32                    `json:"width,omitempty" yaml:"width,omitempty"`
	Height         float32                    `json:"height,omitempty" yaml:"height,omitempty"`
	Depth          float32                    `json:"depth,omitempty" yaml:"depth,omitempty"`
	Radius         float32                    `json:"radius,omitempty" yaml:"radius,omitempty"`
	WidthSegments  int                        `json:"widthSegments,omitempty" yaml:"widthSegments,omitempty"`
	HeightSegments int                        `json:"heightSegments,omitempty" yaml:"heightSegments,omitempty"`
	Vertices       [][2]float32               `json:"vertices,omitempty" yaml:"vertices,omitempty"`
	Attributes     map[string]AttributeRecord `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// AttributeRecord is one serialized vertex attribute.
type AttributeRecord struct {
	Data      TypedArray `json:"data" yaml:"data"`
	Size      int        `json:"size" yaml:"size"`
	DType     uint32     `json:"dtype" yaml:"dtype"`
	Normalize bool       `json:"normalize" yaml:"normalize"`
	Stride    int        `json:"stride" yaml:"stride"`
	Offset    int        `json:"offset" yaml:"offset"`
}

// TypedArray is a flat number list tagged with its element kind.
type TypedArray struct {
	Type string    `json:"type" yaml:"type"`
	Data []float32 `json:"data" yaml:"data,flow"`
}

// MaterialRecord is a material table entry.
type MaterialRecord struct {
	Type       string         `json:"type" yaml:"type"`
	Primitives MaterialParams `json:"primitives" yaml:"primitives"`
}

type MaterialParams struct {
	Uniforms UniformsRecord `json:"uniforms" yaml:"uniforms"`
}

// UniformsRecord is the union of all material parameters.
type UniformsRecord struct {
	Color     *ColorRecord `json:"color,omitempty" yaml:"color,omitempty"`
	Ambient   *ColorRecord `json:"ambient,omitempty" yaml:"ambient,omitempty"`
	Specular  *ColorRecord `json:"specular,omitempty" yaml:"specular,omitempty"`
	Shininess *float32     `json:"shininess,omitempty" yaml:"shininess,omitempty"`
	Texture   string       `json:"texture,omitempty" yaml:"texture,omitempty"`
	Tint      *ColorRecord `json:"tint,omitempty" yaml:"tint,omitempty"`
}
