// Package shaders holds the GLSL sources used by the material kinds.
package shaders

import _ "embed"

//go:embed flat.vert
var FlatVertex string

//go:embed lit.vert
var LitVertex string

//go:embed basic.frag
var BasicFragment string

//go:embed lambert.frag
var LambertFragment string

//go:embed phong.frag
var PhongFragment string

//go:embed normal.frag
var NormalFragment string

//go:embed textured.frag
var TexturedFragment string
