package geometry

import "fmt"

// Plane is a rectangle in the XY plane facing +Z.
type Plane struct {
	base
	width, height float32
}

// NewPlane builds a two-triangle plane.
func NewPlane(width, height float32) (*Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: plane %gx%g", ErrInvalidParams, width, height)
	}
	hw, hh := width/2, height/2
	positions := make([]float32, 0, 6*3)
	texcoords := make([]float32, 0, 6*2)
	for _, c := range quadCorners {
		positions = append(positions, c[0]*hw, c[1]*hh, 0)
		texcoords = append(texcoords, (c[0]+1)/2, (c[1]+1)/2)
	}
	return &Plane{
		base:   newBase(positions, texcoords, nil),
		width:  width,
		height: height,
	}, nil
}

func (*Plane) Kind() Kind { return KindPlane }

// Size returns width and height.
func (p *Plane) Size() (width, height float32) {
	return p.width, p.height
}
