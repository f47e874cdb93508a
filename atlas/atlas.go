// Package atlas flattens Aseprite frames and packs them into square
// power-of-two texture atlases.
//
// Atlas textures use texture space: row 0 is the bottom row and sprite
// rectangles have their origin at the lower-left corner. Atlas.Image
// converts the texture back to image space for encoding.
package atlas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/v"
)

// Options controls atlas generation.
type Options struct {
	// Name prefixes sprite names.
	Name string
	// Border is the gap in pixels right of and above every sprite.
	Border int
	// Dense crops every frame to its visible pixels.
	Dense bool
	// Pivot is the normalized pivot over the canvas, y pointing up.
	Pivot v.Vec
	// Logger receives warnings. Nil uses the global zerolog logger.
	Logger *zerolog.Logger
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return &log.Logger
}

// Sprite is one packed frame.
type Sprite struct {
	Name string `json:"name"`
	// Rect is the sprite rectangle in texture space.
	Rect image.Rectangle `json:"rect"`
	// Pivot is normalized over Rect, y pointing up.
	Pivot v.Vec `json:"pivot"`
	// CropOffset is the lower-left corner of the crop in canvas texture
	// space, y pointing up.
	CropOffset image.Point `json:"cropOffset"`
}

// namespace seeds atlas IDs so that the same name always maps to the same ID.
var namespace = uuid.MustParse("6f0b3c1e-8a4d-5c2e-9b1f-4d2a7e9c0a51")

// Atlas is a packed texture with one sprite per frame.
type Atlas struct {
	Name string
	// ID is derived from Name.
	ID string
	// Size is the side of the square texture.
	Size int
	// Pix holds Size*Size RGBA quads, bottom row first.
	Pix     []byte
	Sprites []Sprite
}

// Generate composites every frame of f using only the given layers and
// packs the results into an atlas.
func Generate(f *aseparser.File, layers []*aseparser.Layer, opts Options) *Atlas {
	images := make([]*FrameImage, len(f.Frames))
	sizes := make([]image.Point, len(f.Frames))
	for i := range f.Frames {
		images[i] = Composite(f, &f.Frames[i], layers, opts.Dense)
		sizes[i] = image.Pt(images[i].FinalWidth(), images[i].FinalHeight())
	}

	layout := Pack(sizes, opts.Border)
	if layout.Size > MaxRecommendedSize {
		opts.logger().Warn().Str("atlas", opts.Name).Int("size", layout.Size).
			Msgf("generated atlas size is larger than %d", MaxRecommendedSize)
	}

	a := &Atlas{
		Name:    opts.Name,
		ID:      uuid.NewSHA1(namespace, []byte(opts.Name)).String(),
		Size:    layout.Size,
		Pix:     make([]byte, layout.Size*layout.Size*4),
		Sprites: make([]Sprite, len(images)),
	}

	canvas := v.Vec{X: float64(f.Width), Y: float64(f.Height)}
	pivotTex := v.Vec{X: opts.Pivot.X * canvas.X, Y: opts.Pivot.Y * canvas.Y}

	for i, im := range images {
		pos := layout.Positions[i]
		w, h := im.FinalWidth(), im.FinalHeight()

		for y := im.MinY; y <= im.MaxY; y++ {
			for x := im.MinX; x <= im.MaxX; x++ {
				texX := x - im.MinX + pos.X
				texY := -(y - im.MinY) + pos.Y + h - 1
				a.set(texX, texY, im.At(x, y))
			}
		}

		crop := image.Pt(im.MinX, f.Height-im.MaxY-1)
		pivot := pivotTex.Sub(v.Vec{X: float64(crop.X), Y: float64(crop.Y)})

		a.Sprites[i] = Sprite{
			Name:       fmt.Sprintf("%s_spr_%d", opts.Name, i),
			Rect:       image.Rect(pos.X, pos.Y, pos.X+w, pos.Y+h),
			Pivot:      v.Vec{X: pivot.X / float64(w), Y: pivot.Y / float64(h)},
			CropOffset: crop,
		}
	}
	return a
}

func (a *Atlas) set(x, y int, c aseparser.Color) {
	i := (y*a.Size + x) * 4
	a.Pix[i+0] = toByte(c.R)
	a.Pix[i+1] = toByte(c.G)
	a.Pix[i+2] = toByte(c.B)
	a.Pix[i+3] = toByte(c.A)
}

func toByte(c float64) byte {
	if math.IsNaN(c) {
		return 0
	}
	return byte(math.Round(clamp01(c) * 255))
}

// Image returns the texture in image space, row 0 at the top.
func (a *Atlas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, a.Size, a.Size))
	stride := a.Size * 4
	for y := 0; y < a.Size; y++ {
		src := a.Pix[(a.Size-1-y)*stride : (a.Size-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

// ImageRect returns the rectangle of sprite i in image space.
func (a *Atlas) ImageRect(i int) image.Rectangle {
	r := a.Sprites[i].Rect
	return image.Rect(r.Min.X, a.Size-r.Max.Y, r.Max.X, a.Size-r.Min.Y)
}

// PixelPivot returns the pivot of sprite i in pixels from the top-left
// corner of the sprite, y pointing down.
func (a *Atlas) PixelPivot(i int) v.Vec {
	s := a.Sprites[i]
	w, h := float64(s.Rect.Dx()), float64(s.Rect.Dy())
	return v.Vec{X: s.Pivot.X * w, Y: (1 - s.Pivot.Y) * h}
}

// SpriteImage returns sprite i as an image, row 0 at the top.
func (a *Atlas) SpriteImage(i int) *image.NRGBA {
	r := a.ImageRect(i)
	img := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		texY := a.Size - 1 - (r.Min.Y + y)
		for x := 0; x < r.Dx(); x++ {
			j := (texY*a.Size + r.Min.X + x) * 4
			img.SetNRGBA(x, y, color.NRGBA{a.Pix[j], a.Pix[j+1], a.Pix[j+2], a.Pix[j+3]})
		}
	}
	return img
}
