// Package clip builds animation timelines from Aseprite frame tags.
//
// Times are integer milliseconds from the start of the clip. A clip holds
// the frame keyframes of its tag plus the tracks, curves and events meta
// layers attach to it.
package clip

import (
	"iter"
	"sort"

	"github.com/setanarut/metasprite/aseparser"
)

// LoopProperty is the tag property that makes a clip loop.
const LoopProperty = "loop"

// Keyframe shows Frame starting at Time.
type Keyframe struct {
	Frame int `json:"frame"`
	Time  int `json:"time"`
}

// SpriteTrack binds the sprites of an atlas to a target. The sprite of a
// keyframe is the atlas sprite with the keyframe's frame index.
type SpriteTrack struct {
	Target string `json:"target"`
	Atlas  string `json:"atlas"`
}

// Key is one value of a curve. Curves hold their value until the next key.
type Key struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
}

// Curve animates one property of a target.
type Curve struct {
	Target   string `json:"target"`
	Property string `json:"property"`
	Keys     []Key  `json:"keys"`
}

// Event calls Function when playback reaches Time.
type Event struct {
	Time     int     `json:"time"`
	Function string  `json:"function"`
	String   string  `json:"string,omitempty"`
	Float    float64 `json:"float,omitempty"`
	Int      int     `json:"int,omitempty"`
}

// Clip is the timeline of one frame tag.
type Clip struct {
	Name      string                  `json:"name"`
	From      int                     `json:"from"`
	To        int                     `json:"to"`
	Loop      bool                    `json:"loop"`
	Direction aseparser.LoopDirection `json:"direction"`
	Repeat    uint16                  `json:"repeat"`
	Keyframes []Keyframe              `json:"keyframes"`
	// Length is the sum of the frame durations in the tag.
	Length int `json:"length"`

	Tracks []SpriteTrack `json:"tracks,omitempty"`
	Curves []Curve       `json:"curves,omitempty"`
	Events []Event       `json:"events,omitempty"`
}

// New returns the clip of tag.
func New(f *aseparser.File, tag aseparser.FrameTag) *Clip {
	c := &Clip{
		Name:      tag.Name,
		From:      tag.From,
		To:        tag.To,
		Loop:      tag.Has(LoopProperty),
		Direction: tag.Direction,
		Repeat:    tag.Repeat,
		Keyframes: make([]Keyframe, 0, tag.To-tag.From+1),
	}
	t := 0
	for i := tag.From; i <= tag.To; i++ {
		c.Keyframes = append(c.Keyframes, Keyframe{Frame: i, Time: t})
		t += f.Frames[i].DurationMS
	}
	c.Length = t
	return c
}

// Build returns one clip per tag, in tag order.
func Build(f *aseparser.File) []*Clip {
	clips := make([]*Clip, len(f.Tags))
	for i, tag := range f.Tags {
		clips[i] = New(f, tag)
	}
	return clips
}

// Times yields every frame of the clip with its start time.
func (c *Clip) Times() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, k := range c.Keyframes {
			if !yield(k.Frame, k.Time) {
				return
			}
		}
	}
}

// FrameAt returns the frame shown at t. Looping clips wrap around, other
// clips hold their last frame.
func (c *Clip) FrameAt(t int) int {
	if len(c.Keyframes) == 0 {
		return c.From
	}
	if t < 0 {
		t = 0
	}
	if c.Length > 0 && t >= c.Length {
		if !c.Loop {
			return c.To
		}
		t %= c.Length
	}
	i := sort.Search(len(c.Keyframes), func(i int) bool { return c.Keyframes[i].Time > t })
	return c.Keyframes[max(i-1, 0)].Frame
}

// AddTrack binds an atlas to target.
func (c *Clip) AddTrack(target, atlas string) {
	c.Tracks = append(c.Tracks, SpriteTrack{Target: target, Atlas: atlas})
}

// AddCurve appends a curve if it has keys.
func (c *Clip) AddCurve(cv Curve) {
	if len(cv.Keys) > 0 {
		c.Curves = append(c.Curves, cv)
	}
}

// AddEvents merges events into the clip keeping them ordered by time.
func (c *Clip) AddEvents(events ...Event) {
	c.Events = append(c.Events, events...)
	sort.SliceStable(c.Events, func(i, j int) bool { return c.Events[i].Time < c.Events[j].Time })
}
