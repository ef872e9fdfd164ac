package renderer

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Framebuffer is a row-major array of packed RGBA8 pixels.
// Row 0 is the top scanline of the image.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer allocates a black, fully transparent framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// PackRGBA packs four channels as (a<<24)|(b<<16)|(g<<8)|r.
// Stored little-endian, the word's bytes read R, G, B, A.
func PackRGBA(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// UnpackRGBA reverses PackRGBA
func UnpackRGBA(p uint32) color.RGBA {
	return color.RGBA{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}

// SetRGBA stores the pixel at column x of row y
func (fb *Framebuffer) SetRGBA(x, y int, c color.RGBA) {
	fb.Pixels[y*fb.Width+x] = PackRGBA(c)
}

// RGBAAt returns the pixel at column x of row y
func (fb *Framebuffer) RGBAAt(x, y int) color.RGBA {
	return UnpackRGBA(fb.Pixels[y*fb.Width+x])
}

// ColorModel implements image.Image
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// At implements image.Image
func (fb *Framebuffer) At(x, y int) color.Color {
	if !image.Pt(x, y).In(fb.Bounds()) {
		return color.RGBA{}
	}
	return fb.RGBAAt(x, y)
}

// Image copies the framebuffer into an RGBA image with a 4*Width byte stride
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, p := range fb.Pixels {
		binary.LittleEndian.PutUint32(img.Pix[i*4:], p)
	}
	return img
}
