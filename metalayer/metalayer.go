// Package metalayer implements the built-in meta layer actions.
//
// Meta layers are Aseprite layers named like "@event("footstep", 1)". Their
// pixels are never drawn; each action reads the cels of its layer and adds
// data to the import: sub atlases, sprite pivots, clip events and curves.
//
//	@sub("name")                         add the layer to sub image "name"
//	@subTarget("name", "target")         pack sub image "name" for target
//	@subImage("name", "target")          same, named after the base name
//	@pivot                               per frame sprite pivot
//	@event("function"[, param])          clip events on frames with a cel
//	@transform("target")                 target position curves
//	@boxCollider("target"[, enable])     collider offset and size curves
package metalayer

import (
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/importer"
)

// Default returns a registry with every built-in action.
func Default() *importer.Registry {
	return importer.NewRegistry(
		importer.Action{Name: "sub", Priority: 0, Run: sub},
		importer.Action{Name: "subTarget", Priority: 1, Run: subTarget},
		importer.Action{Name: "subImage", Priority: 1, Run: subImage},
		importer.Action{Name: "pivot", Run: pivot},
		importer.Action{Name: "event", Run: event},
		importer.Action{Name: "transform", Run: transform},
		importer.Action{Name: "boxCollider", Run: boxCollider},
	)
}

// alphaThreshold is the alpha a pixel needs to count for centroids and
// bounding boxes.
const alphaThreshold = 0.1

// texPixels calls fn with the texture space position of every pixel of cel
// above alphaThreshold.
func texPixels(f *aseparser.File, cel *aseparser.Cel, fn func(x, y int)) {
	for y := 0; y < cel.Height; y++ {
		for x := 0; x < cel.Width; x++ {
			if cel.PixelRaw(x, y).A > alphaThreshold {
				fn(cel.X+x, f.Height-(cel.Y+y)-1)
			}
		}
	}
}

// centroid returns the mean texture position of the opaque pixels of the
// layer's cel in frame.
func centroid(f *aseparser.File, frame int, layer *aseparser.Layer) (cx, cy float64, ok bool) {
	cel := f.Frames[frame].Cels[layer.Index]
	if cel == nil {
		return 0, 0, false
	}
	n := 0
	texPixels(f, cel, func(x, y int) {
		cx += float64(x)
		cy += float64(y)
		n++
	})
	if n == 0 {
		return 0, 0, false
	}
	return cx / float64(n), cy / float64(n), true
}
