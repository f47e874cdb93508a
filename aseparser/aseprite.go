// Package aseparser implements a decoder for 32-bit RGBA Aseprite sprite files.
//
// Aseprite file format spec: https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md
package aseparser

import (
	"time"

	"github.com/setanarut/metasprite/aseparser/annotation"
)

// BlendMode is the layer blend mode as stored in the file.
type BlendMode uint16

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAddition
	BlendSubtract
	BlendDivide
)

// LayerType separates image layers from annotation layers.
type LayerType uint8

const (
	// Content layers carry drawable pixels.
	Content LayerType = iota
	// Meta layers are named "@action(args...)" and carry instructions.
	Meta
)

func (t LayerType) String() string {
	if t == Meta {
		return "meta"
	}
	return "content"
}

// LoopDirection enumerates all loop animation directions.
type LoopDirection uint8

const (
	Forward LoopDirection = iota
	Reverse
	PingPong
	PingPongReverse
)

// Color is a straight-alpha RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// File holds the decoded content of an Aseprite file.
type File struct {
	// Width and Height are the canvas size in pixels.
	Width, Height int

	Frames []Frame

	// Layers lists the enabled image layers in document order.
	// Layer.Index is the position in this slice.
	Layers []*Layer

	Tags []FrameTag
}

// FindLayer returns the enabled layer with the given index or nil.
func (f *File) FindLayer(index int) *Layer {
	if index < 0 || index >= len(f.Layers) {
		return nil
	}
	return f.Layers[index]
}

// LayersOfType returns the enabled layers of type t in index order.
func (f *File) LayersOfType(t LayerType) []*Layer {
	var out []*Layer
	for _, l := range f.Layers {
		if l.Type == t {
			out = append(out, l)
		}
	}
	return out
}

// Frame is a single animation frame.
type Frame struct {
	// ID is the 0-based position of the frame in the file.
	ID int
	// DurationMS is the frame duration in milliseconds.
	DurationMS int
	// Cels maps an enabled layer index to the layer's cel in this frame.
	Cels map[int]*Cel
}

// Duration returns the frame duration.
func (fr *Frame) Duration() time.Duration {
	return time.Duration(fr.DurationMS) * time.Millisecond
}

// Layer is an enabled image layer.
type Layer struct {
	// Index is the dense index among enabled layers.
	Index int
	// RawIndex is the ordinal of the layer chunk in the document.
	RawIndex int
	// ParentIndex is the raw index of the parent group, -1 at the root.
	ParentIndex int

	Visible   bool
	BlendMode BlendMode
	// Opacity is in [0,1].
	Opacity  float64
	Name     string
	UserData string
	Type     LayerType

	// ActionName and Params are set for Meta layers.
	ActionName string
	Params     []annotation.Param
}

func (l *Layer) setUserData(text string) { l.UserData = text }

// Cel is one layer's pixels within one frame.
type Cel struct {
	LayerIndex int
	// X and Y are the cel origin in canvas space.
	X, Y          int
	Width, Height int
	// Opacity is in [0,1].
	Opacity  float64
	UserData string

	// Pixels holds Width*Height colors, row by row. Linked cels share the
	// slice of the cel they were resolved from.
	Pixels []Color

	linked      bool
	linkedFrame int
}

func (c *Cel) setUserData(text string) { c.UserData = text }

// PixelRaw returns the color at (x, y) in cel space.
func (c *Cel) PixelRaw(x, y int) Color {
	return c.Pixels[y*c.Width+x]
}

// Pixel returns the color at (x, y) in canvas space, transparent outside the cel.
func (c *Cel) Pixel(x, y int) Color {
	rx, ry := x-c.X, y-c.Y
	if rx < 0 || ry < 0 || rx >= c.Width || ry >= c.Height {
		return Color{}
	}
	return c.PixelRaw(rx, ry)
}

// FrameTag is a named frame range.
type FrameTag struct {
	// From and To are inclusive frame indexes.
	From, To int
	// Name is the tag name with the "#property" suffix removed.
	Name string
	// Properties holds the "#property" words of the raw tag name.
	Properties map[string]struct{}

	Direction LoopDirection
	// Repeat is how many times the animation plays, 0 means forever.
	Repeat   uint16
	UserData string
}

func (t *FrameTag) setUserData(text string) { t.UserData = text }

// Has reports whether the tag carries the property.
func (t *FrameTag) Has(property string) bool {
	_, ok := t.Properties[property]
	return ok
}

// userDataAcceptor receives the text of the next user data chunk.
type userDataAcceptor interface {
	setUserData(string)
}
