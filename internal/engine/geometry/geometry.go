// Package geometry provides vertex attribute containers for meshes.
//
// Every geometry is a non-indexed triangle list. Parametric kinds generate
// position and texcoord data; normal, tangent and bitangent attributes are
// derived at construction time when not supplied.
package geometry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidParams is returned when a geometry cannot be built from its parameters.
var ErrInvalidParams = errors.New("geometry: invalid parameters")

// Attribute names shared with shaders (prefixed with "a_" there).
const (
	AttrPosition  = "position"
	AttrNormal    = "normal"
	AttrTexcoord  = "texcoord"
	AttrTangent   = "tangent"
	AttrBitangent = "bitangent"
)

// Kind identifies a geometry family.
type Kind uint8

const (
	KindBox Kind = iota
	KindPlane
	KindPrism
	KindSphere
	KindBuffer
)

var kindNames = [...]string{"box", "plane", "prism", "sphere", "buffer"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a wire type tag to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Geometry is a named bag of vertex attributes.
type Geometry interface {
	Kind() Kind
	// Attributes returns the attribute map. Callers must not modify it.
	Attributes() map[string]*Attribute
	Attribute(name string) *Attribute
	// VertexCount is the number of vertices in the position attribute.
	VertexCount() int
}

type base struct {
	attrs map[string]*Attribute
}

func (b *base) Attributes() map[string]*Attribute {
	return b.attrs
}

func (b *base) Attribute(name string) *Attribute {
	return b.attrs[name]
}

func (b *base) VertexCount() int {
	pos := b.attrs[AttrPosition]
	if pos == nil {
		return 0
	}
	return pos.Count()
}

// Names returns the attribute names of g in sorted order.
func Names(g Geometry) []string {
	names := make([]string, 0, len(g.Attributes()))
	for name := range g.Attributes() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newBase wraps generated position and texcoord data and derives the rest.
func newBase(positions, texcoords, normals []float32) base {
	attrs := map[string]*Attribute{
		AttrPosition: NewAttribute(positions, 3),
		AttrTexcoord: NewAttribute(texcoords, 2),
	}
	if normals != nil {
		attrs[AttrNormal] = NewAttribute(normals, 3)
	}
	derive(attrs)
	return base{attrs: attrs}
}
