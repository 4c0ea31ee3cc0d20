package geometry

import (
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// Box is an axis-aligned cuboid centered on the origin.
type Box struct {
	base
	width, height, depth float32
}

// boxFaces lists each face's normal and in-plane axes with u x v = normal,
// so both triangles wind counter-clockwise seen from outside.
var boxFaces = [6][3]math.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// NewBox builds a box of 36 vertices (6 faces, 2 triangles each).
func NewBox(width, height, depth float32) (*Box, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: box %gx%gx%g", ErrInvalidParams, width, height, depth)
	}
	half := math.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}
	extent := func(axis math.Vec3) float32 {
		return abs(axis.X)*half.X + abs(axis.Y)*half.Y + abs(axis.Z)*half.Z
	}

	positions := make([]float32, 0, 36*3)
	texcoords := make([]float32, 0, 36*2)
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		center := n.Scale(extent(n))
		for _, c := range quadCorners {
			p := center.Add(u.Scale(c[0] * extent(u))).Add(v.Scale(c[1] * extent(v)))
			positions = append(positions, p.X, p.Y, p.Z)
			texcoords = append(texcoords, (c[0]+1)/2, (c[1]+1)/2)
		}
	}
	return &Box{
		base:   newBase(positions, texcoords, nil),
		width:  width,
		height: height,
		depth:  depth,
	}, nil
}

func (*Box) Kind() Kind { return KindBox }

// Size returns width, height and depth.
func (b *Box) Size() (width, height, depth float32) {
	return b.width, b.height, b.depth
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
