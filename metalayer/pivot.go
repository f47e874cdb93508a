package metalayer

import (
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/importer"
	"github.com/setanarut/v"
)

type pivotFrame struct {
	frame int
	pivot v.Vec
}

// pivot moves the pivot of every main atlas sprite to the centroid of the
// layer. A frame without a cel keeps the pivot of the last frame before it
// that has one; frames before the first such frame use the first pivot.
func pivot(ctx *importer.Context, layer *aseparser.Layer) error {
	var pivots []pivotFrame
	for i := range ctx.File.Frames {
		if cx, cy, ok := centroid(ctx.File, i, layer); ok {
			pivots = append(pivots, pivotFrame{frame: i, pivot: v.Vec{X: cx, Y: cy}})
		}
	}
	if len(pivots) == 0 {
		return nil
	}

	sprites := ctx.Atlas.Sprites
	j := 1
	for i := range sprites {
		for j < len(pivots) && pivots[j].frame <= i {
			j++
		}
		s := &sprites[i]
		p := pivots[j-1].pivot.Sub(v.Vec{X: float64(s.CropOffset.X), Y: float64(s.CropOffset.Y)})
		s.Pivot = v.Vec{X: p.X / float64(s.Rect.Dx()), Y: p.Y / float64(s.Rect.Dy())}
	}
	return nil
}
