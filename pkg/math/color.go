package math

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Vec3 returns the color as a vector for uniform uploads.
func (c Color) Vec3() Vec3 {
	return Vec3{c.R, c.G, c.B}
}
