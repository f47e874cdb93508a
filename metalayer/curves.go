package metalayer

import (
	"math"

	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/importer"
)

// Curve properties written by transform and boxCollider.
const (
	PropPositionX = "localPosition.x"
	PropPositionY = "localPosition.y"
	PropOffsetX   = "offset.x"
	PropOffsetY   = "offset.y"
	PropSizeX     = "size.x"
	PropSizeY     = "size.y"
	PropEnabled   = "enabled"
)

// transform animates the position of target to the centroid of the layer,
// in world units relative to the canvas pivot.
func transform(ctx *importer.Context, layer *aseparser.Layer) error {
	target, err := layer.ParamString(0)
	if err != nil {
		return err
	}

	type pos struct{ x, y float64 }
	frames := make(map[int]pos)
	for i := range ctx.File.Frames {
		if cx, cy, ok := centroid(ctx.File, i, layer); ok {
			x, y := ctx.PixelsToWorld(cx, cy)
			frames[i] = pos{x, y}
		}
	}

	for _, c := range ctx.Clips {
		cx := clip.Curve{Target: target, Property: PropPositionX}
		cy := clip.Curve{Target: target, Property: PropPositionY}
		for frame, t := range c.Times() {
			if p, ok := frames[frame]; ok {
				cx.Keys = append(cx.Keys, clip.Key{Time: t, Value: p.x})
				cy.Keys = append(cy.Keys, clip.Key{Time: t, Value: p.y})
			}
		}
		c.AddCurve(cx)
		c.AddCurve(cy)
	}
	return nil
}

type box struct {
	x, y, w, h float64
}

// bounds returns the box of the opaque pixels of the layer's cel in frame,
// in world units. Missing cels and single pixels give an empty box.
func bounds(ctx *importer.Context, frame int, layer *aseparser.Layer) box {
	cel := ctx.File.Frames[frame].Cels[layer.Index]
	if cel == nil {
		return box{}
	}
	minx, miny, maxx, maxy := math.MaxInt, math.MaxInt, math.MinInt, math.MinInt
	texPixels(ctx.File, cel, func(x, y int) {
		minx, miny = min(minx, x), min(miny, y)
		maxx, maxy = max(maxx, x), max(maxy, y)
	})
	if maxx == math.MinInt {
		return box{}
	}
	x, y := ctx.PixelsToWorld(float64(maxx+minx)/2, float64(maxy+miny)/2)
	ppu := float64(ctx.Settings.PixelsPerUnit)
	return box{x: x, y: y, w: float64(maxx-minx) / ppu, h: float64(maxy-miny) / ppu}
}

// boxCollider animates the offset and size of a box collider on target. The
// optional second parameter, true by default, also animates whether the
// collider is enabled. Clips where the box is always empty get no curves.
func boxCollider(ctx *importer.Context, layer *aseparser.Layer) error {
	target, err := layer.ParamString(0)
	if err != nil {
		return err
	}
	changeEnable := true
	if layer.ParamCount() >= 2 {
		if changeEnable, err = layer.ParamBool(1); err != nil {
			return err
		}
	}

	boxes := make([]box, len(ctx.File.Frames))
	for i := range boxes {
		boxes[i] = bounds(ctx, i, layer)
	}

	for _, c := range ctx.Clips {
		curves := map[string]*clip.Curve{}
		for _, prop := range []string{PropOffsetX, PropOffsetY, PropSizeX, PropSizeY, PropEnabled} {
			curves[prop] = &clip.Curve{Target: target, Property: prop}
		}
		key := func(prop string, t int, value float64) {
			curves[prop].Keys = append(curves[prop].Keys, clip.Key{Time: t, Value: value})
		}

		anyEnabled := false
		for frame, t := range c.Times() {
			b := boxes[frame]
			enabled := b.w != 0 || b.h != 0
			if !enabled {
				key(PropEnabled, t, 0)
				continue
			}
			anyEnabled = true
			key(PropEnabled, t, 1)
			key(PropOffsetX, t, b.x)
			key(PropOffsetY, t, b.y)
			key(PropSizeX, t, b.w)
			key(PropSizeY, t, b.h)
		}
		if !anyEnabled {
			continue
		}

		c.AddCurve(*curves[PropOffsetX])
		c.AddCurve(*curves[PropOffsetY])
		c.AddCurve(*curves[PropSizeX])
		c.AddCurve(*curves[PropSizeY])
		if changeEnable {
			c.AddCurve(*curves[PropEnabled])
		}
	}
	return nil
}
