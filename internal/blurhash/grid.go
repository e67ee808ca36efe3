package blurhash

import (
	"fmt"
	"image"
	"image/color"
)

// PixelGrid is a dense row-major grid of 8-bit RGB samples.
//
// Pix holds Width*Height triples; the sample at (x, y) starts at
// Pix[(y*Width+x)*3]. Alpha is not represented.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelGrid allocates a black grid of the given size.
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Set stores the RGB sample at (x, y).
func (g *PixelGrid) Set(x, y int, r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	g.Pix[i] = r
	g.Pix[i+1] = gr
	g.Pix[i+2] = b
}

// At returns the RGB sample at (x, y).
func (g *PixelGrid) At(x, y int) (r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

func (g *PixelGrid) check(op string) error {
	if g == nil {
		return &InvariantError{Op: op, Detail: "nil pixel grid"}
	}
	if g.Width < 1 || g.Height < 1 {
		return &InvariantError{Op: op, Detail: fmt.Sprintf("grid is %dx%d, need at least 1x1", g.Width, g.Height)}
	}
	if want := g.Width * g.Height * 3; len(g.Pix) != want {
		return &InvariantError{Op: op, Detail: fmt.Sprintf("grid %dx%d has %d bytes, want %d", g.Width, g.Height, len(g.Pix), want)}
	}
	return nil
}

// GridFromImage copies the RGB channels of img into a new PixelGrid. Colors
// are taken non-premultiplied, so translucent pixels keep their hue.
func GridFromImage(img image.Image) *PixelGrid {
	bounds := img.Bounds()
	g := NewPixelGrid(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			dst := g.Pix[y*g.Width*3:]
			for x := 0; x < g.Width; x++ {
				dst[x*3] = row[x*4]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
		return g
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			g.Set(x, y, c.R, c.G, c.B)
		}
	}
	return g
}
