package scene

import (
	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/material"
)

// Mesh draws a geometry with a material. Both may be shared between meshes.
type Mesh struct {
	Node

	Geometry geometry.Geometry
	Material material.Material
}

// NewMesh creates a mesh node.
func NewMesh(name string, g geometry.Geometry, m material.Material) *Mesh {
	mesh := &Mesh{Geometry: g, Material: m}
	mesh.init(mesh, name)
	return mesh
}

func (m *Mesh) Kind() Kind { return KindMesh }
