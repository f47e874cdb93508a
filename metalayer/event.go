package metalayer

import (
	"math"

	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/aseparser/annotation"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/importer"
)

// event adds a clip event at every frame where the layer has a cel. The
// optional second parameter is passed to the event as a string or number;
// integral numbers also set Int.
func event(ctx *importer.Context, layer *aseparser.Layer) error {
	function, err := layer.ParamString(0)
	if err != nil {
		return err
	}

	proto := clip.Event{Function: function}
	switch layer.ParamType(1) {
	case annotation.String:
		proto.String, _ = layer.ParamString(1)
	case annotation.Number:
		n, _ := layer.ParamNumber(1)
		proto.Float = n
		if n == math.Floor(n) {
			proto.Int = int(n)
		}
	}

	for _, c := range ctx.Clips {
		var events []clip.Event
		for frame, t := range c.Times() {
			if _, ok := ctx.File.Frames[frame].Cels[layer.Index]; ok {
				e := proto
				e.Time = t
				events = append(events, e)
			}
		}
		c.AddEvents(events...)
	}
	return nil
}
