// Package texture holds decoded image data for textured materials and the
// loader that fills it in.
package texture

import (
	"image"
	"image/draw"
)

// Texture is an RGBA image referenced by a material. It starts empty and is
// resolved once its source has been decoded.
type Texture struct {
	Source string

	width, height int
	pixels        []byte
	loaded        bool
	version       uint64
	onLoad        []func(*Texture)
}

// New creates an unresolved texture for the given source path.
func New(source string) *Texture {
	return &Texture{Source: source}
}

// OnLoad registers fn to run when the texture is resolved. If the texture
// is already loaded fn runs immediately.
func (t *Texture) OnLoad(fn func(*Texture)) {
	if t.loaded {
		fn(t)
		return
	}
	t.onLoad = append(t.onLoad, fn)
}

// Resolve stores img as the texture contents and runs pending callbacks.
// Resolving again replaces the pixels and bumps Version.
func (t *Texture) Resolve(img image.Image) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	t.width, t.height = b.Dx(), b.Dy()
	t.pixels = rgba.Pix
	t.loaded = true
	t.version++

	pending := t.onLoad
	t.onLoad = nil
	for _, fn := range pending {
		fn(t)
	}
}

// Loaded reports whether pixel data is available.
func (t *Texture) Loaded() bool { return t.loaded }

// Size returns the pixel dimensions.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Pixels returns tightly packed RGBA rows, top row first.
func (t *Texture) Pixels() []byte { return t.pixels }

// Version increases each time the texture is resolved.
func (t *Texture) Version() uint64 { return t.version }
