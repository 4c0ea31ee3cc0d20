package geometry

import (
	"fmt"
	stdmath "math"
)

// Sphere is a UV sphere with smooth normals.
type Sphere struct {
	base
	radius         float32
	widthSegments  int
	heightSegments int
}

// NewSphere builds a sphere from latitude/longitude segments.
func NewSphere(radius float32, widthSegments, heightSegments int) (*Sphere, error) {
	if radius <= 0 || widthSegments < 3 || heightSegments < 2 {
		return nil, fmt.Errorf("%w: sphere r=%g segments=%dx%d",
			ErrInvalidParams, radius, widthSegments, heightSegments)
	}

	type vertex struct {
		p, n [3]float32
		uv   [2]float32
	}
	grid := make([][]vertex, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]vertex, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			nx := -stdmath.Cos(u*2*stdmath.Pi) * stdmath.Sin(v*stdmath.Pi)
			ny := stdmath.Cos(v * stdmath.Pi)
			nz := stdmath.Sin(u*2*stdmath.Pi) * stdmath.Sin(v*stdmath.Pi)
			n := [3]float32{float32(nx), float32(ny), float32(nz)}
			row[ix] = vertex{
				p:  [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				n:  n,
				uv: [2]float32{float32(u), float32(1 - v)},
			}
		}
		grid[iy] = row
	}

	var positions, normals, texcoords []float32
	emit := func(vs ...vertex) {
		for _, vx := range vs {
			positions = append(positions, vx.p[:]...)
			normals = append(normals, vx.n[:]...)
			texcoords = append(texcoords, vx.uv[:]...)
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				emit(a, b, d)
			}
			if iy != heightSegments-1 {
				emit(b, c, d)
			}
		}
	}

	return &Sphere{
		base:           newBase(positions, texcoords, normals),
		radius:         radius,
		widthSegments:  widthSegments,
		heightSegments: heightSegments,
	}, nil
}

func (*Sphere) Kind() Kind { return KindSphere }

// Radius returns the sphere radius.
func (s *Sphere) Radius() float32 {
	return s.radius
}

// Segments returns the longitude and latitude segment counts.
func (s *Sphere) Segments() (width, height int) {
	return s.widthSegments, s.heightSegments
}
