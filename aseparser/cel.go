package aseparser

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// inflate decodes a zlib stream: a 2 byte header, raw DEFLATE data and a
// 4 byte ADLER32 trailer which is not verified.
func inflate(data []byte, offset int) ([]byte, error) {
	if len(data) < 6 {
		return nil, &FormatError{Offset: offset, Msg: "compressed cel data too short"}
	}
	fr := flate.NewReader(bytes.NewReader(data[2 : len(data)-4]))
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, &FormatError{Offset: offset, Msg: "inflating cel data", Err: err}
	}
	return out, nil
}

// toColors converts RGBA byte quads to colors.
func toColors(pix []byte, offset int) ([]Color, error) {
	if len(pix)%4 != 0 {
		return nil, &FormatError{Offset: offset, Msg: "invalid color data"}
	}
	colors := make([]Color, len(pix)/4)
	for i := range colors {
		p := pix[i*4 : i*4+4 : i*4+4]
		colors[i] = Color{
			R: float64(p[0]) / 255,
			G: float64(p[1]) / 255,
			B: float64(p[2]) / 255,
			A: float64(p[3]) / 255,
		}
	}
	return colors, nil
}

// premultiply scales the alpha of every owned cel by the cel and layer
// opacity. It must finish for all frames before resolveLinks runs.
func (d *decoder) premultiply() error {
	for i := range d.file.Frames {
		for li, cel := range d.file.Frames[i].Cels {
			if cel.linked {
				continue
			}
			layer := d.file.FindLayer(li)
			if layer == nil {
				return &ReferenceError{Frame: i, Layer: li, Msg: "cel references an unregistered layer"}
			}
			k := cel.Opacity * layer.Opacity
			for p := range cel.Pixels {
				cel.Pixels[p].A *= k
			}
		}
	}
	return nil
}

// resolveLinks replaces every linked cel with the content of the cel it
// points to. Frames are visited in order so links to linked cels in
// earlier frames are already resolved.
func (d *decoder) resolveLinks() error {
	frames := d.file.Frames
	for i := range frames {
		for li, cel := range frames[i].Cels {
			if !cel.linked {
				continue
			}
			if cel.linkedFrame < 0 || cel.linkedFrame >= len(frames) {
				return &ReferenceError{Frame: i, Layer: li, Msg: "linked cel points at missing frame"}
			}
			src, ok := frames[cel.linkedFrame].Cels[li]
			if !ok || src.linked {
				return &ReferenceError{Frame: i, Layer: li, Msg: "linked cel points at a frame without cel"}
			}

			cel.linked = false
			cel.X, cel.Y = src.X, src.Y
			cel.Width, cel.Height = src.Width, src.Height
			cel.Pixels = src.Pixels
			cel.Opacity = src.Opacity
			cel.UserData = src.UserData
		}
	}
	return nil
}
