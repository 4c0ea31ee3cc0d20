package geometry

import (
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// Prism extrudes a convex polygon in the XZ plane along Y.
type Prism struct {
	base
	polygon []math.Vec2
	height  float32
}

// NewPrism builds a prism from polygon vertices given as (x, z) pairs.
// The polygon needs at least three vertices; either winding is accepted.
func NewPrism(polygon []math.Vec2, height float32) (*Prism, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("%w: prism needs at least 3 vertices, got %d", ErrInvalidParams, len(polygon))
	}
	if height <= 0 {
		return nil, fmt.Errorf("%w: prism height %g", ErrInvalidParams, height)
	}
	area := math.SignedArea(polygon)
	if area == 0 {
		return nil, fmt.Errorf("%w: degenerate prism polygon", ErrInvalidParams)
	}

	poly := make([]math.Vec2, len(polygon))
	copy(poly, polygon)
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}

	minX, maxX, minZ, maxZ := poly[0].X, poly[0].X, poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minZ, maxZ = min(minZ, p.Y), max(maxZ, p.Y)
	}
	spanX, spanZ := maxX-minX, maxZ-minZ
	capUV := func(p math.Vec2) (float32, float32) {
		var u, v float32
		if spanX > 0 {
			u = (p.X - minX) / spanX
		}
		if spanZ > 0 {
			v = (p.Y - minZ) / spanZ
		}
		return u, v
	}

	top, bottom := height/2, -height/2
	var positions, texcoords []float32
	emit := func(p math.Vec2, y, u, v float32) {
		positions = append(positions, p.X, y, p.Y)
		texcoords = append(texcoords, u, v)
	}
	emitCap := func(p math.Vec2, y float32) {
		u, v := capUV(p)
		emit(p, y, u, v)
	}

	// Caps as triangle fans. The polygon is counter-clockwise in (x, z),
	// which looks clockwise from +Y, so the top fan is reversed.
	for i := 1; i+1 < len(poly); i++ {
		emitCap(poly[0], top)
		emitCap(poly[i+1], top)
		emitCap(poly[i], top)

		emitCap(poly[0], bottom)
		emitCap(poly[i], bottom)
		emitCap(poly[i+1], bottom)
	}

	var perimeter float32
	for i := range poly {
		perimeter += poly[(i+1)%len(poly)].Sub(poly[i]).Length()
	}
	var walked float32
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		u0 := walked / perimeter
		walked += b.Sub(a).Length()
		u1 := walked / perimeter

		emit(a, bottom, u0, 0)
		emit(b, top, u1, 1)
		emit(b, bottom, u1, 0)

		emit(a, bottom, u0, 0)
		emit(a, top, u0, 1)
		emit(b, top, u1, 1)
	}

	return &Prism{
		base:    newBase(positions, texcoords, nil),
		polygon: append([]math.Vec2(nil), polygon...),
		height:  height,
	}, nil
}

func (*Prism) Kind() Kind { return KindPrism }

// Polygon returns the polygon as given to NewPrism.
func (p *Prism) Polygon() []math.Vec2 {
	return p.polygon
}

// Height returns the extrusion height.
func (p *Prism) Height() float32 {
	return p.height
}
