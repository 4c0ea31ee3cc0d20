// Package material defines surface materials: shader sources plus the
// uniform values they are drawn with.
package material

import (
	"fmt"
	"sync/atomic"

	"github.com/Faultbox/scenery/internal/engine/material/shaders"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/pkg/math"
)

// Kind identifies a material family.
type Kind uint8

const (
	KindBasic Kind = iota
	KindLambert
	KindPhong
	KindNormal
	KindTextured
)

var kindNames = [...]string{"basic", "lambert", "phong", "normal", "textured"}

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

// Material is a shader program description plus uniform values.
//
// ID is unique for the life of the process and identifies the instance:
// two materials with identical sources and values still have distinct IDs.
type Material interface {
	ID() uint64
	Kind() Kind
	VertexSource() string
	FragmentSource() string
	// Uniforms returns the material's own uniform values by GLSL name.
	Uniforms() map[string]any
}

var lastID atomic.Uint64

type base struct {
	id uint64
}

func newBase() base {
	return base{id: lastID.Add(1)}
}

func (b base) ID() uint64 { return b.id }

// Basic draws an unlit solid color.
type Basic struct {
	base
	Color math.Color
}

func NewBasic(color math.Color) *Basic {
	return &Basic{base: newBase(), Color: color}
}

func (*Basic) Kind() Kind             { return KindBasic }
func (*Basic) VertexSource() string   { return shaders.FlatVertex }
func (*Basic) FragmentSource() string { return shaders.BasicFragment }
func (m *Basic) Uniforms() map[string]any {
	return map[string]any{"u_color": m.Color.Vec3()}
}

// Lambert is diffuse-only lighting with a constant ambient term.
type Lambert struct {
	base
	Color   math.Color
	Ambient math.Color
}

func NewLambert(color, ambient math.Color) *Lambert {
	return &Lambert{base: newBase(), Color: color, Ambient: ambient}
}

func (*Lambert) Kind() Kind             { return KindLambert }
func (*Lambert) VertexSource() string   { return shaders.LitVertex }
func (*Lambert) FragmentSource() string { return shaders.LambertFragment }
func (m *Lambert) Uniforms() map[string]any {
	return map[string]any{
		"u_color":   m.Color.Vec3(),
		"u_ambient": m.Ambient.Vec3(),
	}
}

// Phong adds a Blinn-Phong specular highlight to diffuse lighting.
type Phong struct {
	base
	Color     math.Color
	Specular  math.Color
	Shininess float32
}

func NewPhong(color, specular math.Color, shininess float32) *Phong {
	return &Phong{base: newBase(), Color: color, Specular: specular, Shininess: shininess}
}

func (*Phong) Kind() Kind             { return KindPhong }
func (*Phong) VertexSource() string   { return shaders.LitVertex }
func (*Phong) FragmentSource() string { return shaders.PhongFragment }
func (m *Phong) Uniforms() map[string]any {
	return map[string]any{
		"u_color":     m.Color.Vec3(),
		"u_specular":  m.Specular.Vec3(),
		"u_shininess": m.Shininess,
	}
}

// Normal colors surfaces by their world-space normal.
type Normal struct {
	base
}

func NewNormal() *Normal {
	return &Normal{base: newBase()}
}

func (*Normal) Kind() Kind               { return KindNormal }
func (*Normal) VertexSource() string     { return shaders.LitVertex }
func (*Normal) FragmentSource() string   { return shaders.NormalFragment }
func (*Normal) Uniforms() map[string]any { return map[string]any{} }

// Textured samples a diffuse texture multiplied by a tint. Until the
// texture resolves, meshes using it draw with no texture bound.
type Textured struct {
	base
	Texture *texture.Texture
	Tint    math.Color
}

func NewTextured(source string, tint math.Color) *Textured {
	return &Textured{base: newBase(), Texture: texture.New(source), Tint: tint}
}

func (*Textured) Kind() Kind             { return KindTextured }
func (*Textured) VertexSource() string   { return shaders.LitVertex }
func (*Textured) FragmentSource() string { return shaders.TexturedFragment }
func (m *Textured) Uniforms() map[string]any {
	return map[string]any{
		"u_texture": m.Texture,
		"u_tint":    m.Tint.Vec3(),
	}
}
