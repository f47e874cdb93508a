package atlas

import (
	"image"
	"io"

	"github.com/setanarut/metasprite/aseparser"
)

func init() {
	image.RegisterFormat("aseprite", "????\xE0\xA5", decodeImage, aseparser.DecodeConfig)
}

// decodeImage composites the first frame of all content layers over the
// whole canvas.
func decodeImage(r io.Reader) (image.Image, error) {
	f, err := aseparser.Read(r)
	if err != nil {
		return nil, err
	}
	if len(f.Frames) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height)), nil
	}
	layers := f.LayersOfType(aseparser.Content)
	return Composite(f, &f.Frames[0], layers, false).NRGBA(), nil
}
