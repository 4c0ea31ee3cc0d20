package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, errTGATruncated
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	switch {
	case h.colorMap != 0:
		return h, fmt.Errorf("tga: color-mapped images not supported")
	case h.imageType != tgaTrueColor && h.imageType != tgaTrueColorRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bpp != 24 && h.bpp != 32:
		return h, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes uncompressed and RLE true-color TGA images (24 or 32 bit).
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	stride := h.bpp / 8

	// put stores pixel n (file order) into the image.
	put := func(n int, c color.RGBA) {
		x, y := n%h.width, n/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}
	read := func(p []byte) color.RGBA {
		c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
		if stride == 4 {
			c.A = p[3]
		}
		return c
	}

	total := h.width * h.height
	if h.imageType == tgaTrueColor {
		if len(src) < total*stride {
			return nil, errTGATruncated
		}
		for n := 0; n < total; n++ {
			put(n, read(src[n*stride:]))
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total && i < len(src) {
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1
		if packet&0x80 != 0 {
			if i+stride > len(src) {
				break
			}
			c := read(src[i:])
			i += stride
			for ; count > 0 && n < total; count-- {
				put(n, c)
				n++
			}
			continue
		}
		for ; count > 0 && n < total && i+stride <= len(src); count-- {
			put(n, read(src[i:]))
			i += stride
			n++
		}
	}
	return img, nil
}
