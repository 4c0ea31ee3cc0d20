package geometry

import "github.com/Faultbox/scenery/pkg/math"

// derive fills in flat normals and, when texcoords exist, per-triangle
// tangents and bitangents. Supplied attributes are never overwritten.
func derive(attrs map[string]*Attribute) {
	pos := attrs[AttrPosition]
	if pos == nil || pos.Size != 3 {
		return
	}
	count := pos.Count()
	tris := count / 3

	if attrs[AttrNormal] == nil {
		normals := make([]float32, count*3)
		for t := 0; t < tris; t++ {
			p0, p1, p2 := corner(pos, t, 0), corner(pos, t, 1), corner(pos, t, 2)
			n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
			for k := 0; k < 3; k++ {
				put3(normals, t*3+k, n)
			}
		}
		attrs[AttrNormal] = NewAttribute(normals, 3)
	}

	uv := attrs[AttrTexcoord]
	if uv == nil || uv.Size != 2 || uv.Count() != count {
		return
	}
	if attrs[AttrTangent] != nil && attrs[AttrBitangent] != nil {
		return
	}

	normal := attrs[AttrNormal]
	tangents := make([]float32, count*3)
	bitangents := make([]float32, count*3)
	for t := 0; t < tris; t++ {
		p0, p1, p2 := corner(pos, t, 0), corner(pos, t, 1), corner(pos, t, 2)
		e1, e2 := p1.Sub(p0), p2.Sub(p0)

		i0 := t * 3
		du1 := uv.Data[(i0+1)*2] - uv.Data[i0*2]
		dv1 := uv.Data[(i0+1)*2+1] - uv.Data[i0*2+1]
		du2 := uv.Data[(i0+2)*2] - uv.Data[i0*2]
		dv2 := uv.Data[(i0+2)*2+1] - uv.Data[i0*2+1]

		var tan, bitan math.Vec3
		det := du1*dv2 - du2*dv1
		if det != 0 {
			r := 1 / det
			tan = e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(r).Normalize()
			bitan = e2.Scale(du1).Sub(e1.Scale(du2)).Scale(r).Normalize()
		} else {
			tan, bitan = basis(math.Vec3FromArray(normal.vec3(i0)))
		}
		for k := 0; k < 3; k++ {
			put3(tangents, i0+k, tan)
			put3(bitangents, i0+k, bitan)
		}
	}
	if attrs[AttrTangent] == nil {
		attrs[AttrTangent] = NewAttribute(tangents, 3)
	}
	if attrs[AttrBitangent] == nil {
		attrs[AttrBitangent] = NewAttribute(bitangents, 3)
	}
}

// basis returns two unit vectors perpendicular to n and to each other.
func basis(n math.Vec3) (math.Vec3, math.Vec3) {
	ref := math.Vec3{X: 1}
	if n.X > 0.9 || n.X < -0.9 {
		ref = math.Vec3{Y: 1}
	}
	t := ref.Cross(n).Normalize()
	return t, n.Cross(t).Normalize()
}

func corner(a *Attribute, tri, k int) math.Vec3 {
	return math.Vec3FromArray(a.vec3(tri*3 + k))
}

func put3(dst []float32, i int, v math.Vec3) {
	dst[i*3] = v.X
	dst[i*3+1] = v.Y
	dst[i*3+2] = v.Z
}
