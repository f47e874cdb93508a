package atlas

import (
	"image"
	"math"
	"slices"

	"github.com/setanarut/metasprite/aseparser"
)

// FrameImage is a flattened frame with the bounding box of its visible pixels.
type FrameImage struct {
	// Width and Height are the canvas size.
	Width, Height int
	// MinX, MinY, MaxX and MaxY are the inclusive bounding box in canvas
	// space, y pointing down.
	MinX, MinY, MaxX, MaxY int

	pix []aseparser.Color
}

func newFrameImage(width, height int) *FrameImage {
	return &FrameImage{
		Width:  width,
		Height: height,
		MinX:   math.MaxInt,
		MinY:   math.MaxInt,
		MaxX:   math.MinInt,
		MaxY:   math.MinInt,
		pix:    make([]aseparser.Color, width*height),
	}
}

// FinalWidth is the width of the cropped image.
func (im *FrameImage) FinalWidth() int { return im.MaxX - im.MinX + 1 }

// FinalHeight is the height of the cropped image.
func (im *FrameImage) FinalHeight() int { return im.MaxY - im.MinY + 1 }

// Bounds returns the crop rectangle in canvas space.
func (im *FrameImage) Bounds() image.Rectangle {
	return image.Rect(im.MinX, im.MinY, im.MaxX+1, im.MaxY+1)
}

// At returns the color at canvas position (x, y).
func (im *FrameImage) At(x, y int) aseparser.Color {
	return im.pix[y*im.Width+x]
}

// NRGBA returns the cropped image with 8-bit channels.
func (im *FrameImage) NRGBA() *image.NRGBA {
	w, h := im.FinalWidth(), im.FinalHeight()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := im.At(im.MinX+x, im.MinY+y)
			j := img.PixOffset(x, y)
			img.Pix[j+0] = toByte(c.R)
			img.Pix[j+1] = toByte(c.G)
			img.Pix[j+2] = toByte(c.B)
			img.Pix[j+3] = toByte(c.A)
		}
	}
	return img
}

func (im *FrameImage) set(x, y int, c aseparser.Color) {
	im.pix[y*im.Width+x] = c
}

// Composite flattens the cels of layers in frame onto a canvas sized image.
// Cels are drawn in ascending layer index. When dense is false the bounding
// box covers the whole canvas.
func Composite(f *aseparser.File, frame *aseparser.Frame, layers []*aseparser.Layer, dense bool) *FrameImage {
	im := newFrameImage(f.Width, f.Height)

	indexes := make([]int, 0, len(frame.Cels))
	for li := range frame.Cels {
		if slices.Contains(layers, f.FindLayer(li)) {
			indexes = append(indexes, li)
		}
	}
	slices.Sort(indexes)

	for _, li := range indexes {
		cel := frame.Cels[li]
		for cy := 0; cy < cel.Height; cy++ {
			for cx := 0; cx < cel.Width; cx++ {
				c := cel.PixelRaw(cx, cy)
				if c.A == 0 {
					continue
				}
				x, y := cx+cel.X, cy+cel.Y
				// Aseprite keeps pixels outside the canvas
				if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
					continue
				}
				im.set(x, y, blend(im.At(x, y), c))

				im.MinX = min(im.MinX, x)
				im.MinY = min(im.MinY, y)
				im.MaxX = max(im.MaxX, x)
				im.MaxY = max(im.MaxY, y)
			}
		}
	}

	if im.MinX == math.MaxInt {
		im.MinX, im.MinY, im.MaxX, im.MaxY = 0, 0, 0, 0
	}
	if !dense {
		im.MinX, im.MinY = 0, 0
		im.MaxX, im.MaxY = f.Width-1, f.Height-1
	}
	return im
}

// blend draws src over dst. The color channels are interpolated by the
// source alpha and divided by the accumulated alpha.
func blend(dst, src aseparser.Color) aseparser.Color {
	t := clamp01(src.A)
	c := aseparser.Color{
		R: dst.R + (src.R-dst.R)*t,
		G: dst.G + (src.G-dst.G)*t,
		B: dst.B + (src.B-dst.B)*t,
	}
	c.A = dst.A + src.A*(1-dst.A)
	c.R /= c.A
	c.G /= c.A
	c.B /= c.A
	return c
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
