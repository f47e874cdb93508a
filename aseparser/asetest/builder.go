// Package asetest builds Aseprite files in memory for tests.
package asetest

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
)

// Layer flags
const (
	Visible = 1
	Hidden  = 0
)

// Layer types
const (
	Image = 0
	Group = 1
)

// Tag describes one entry of a tags chunk.
type Tag struct {
	From, To  int
	Direction byte
	Repeat    uint16
	Name      string
}

// Builder assembles a 32-bit RGBA Aseprite file.
type Builder struct {
	Width, Height int
	ColorDepth    uint16
	frames        []*FrameBuilder
}

// FrameBuilder collects the chunks of one frame.
type FrameBuilder struct {
	DurationMS int
	chunks     [][]byte
}

func New(width, height int) *Builder {
	return &Builder{Width: width, Height: height, ColorDepth: 32}
}

// Frame appends a frame and returns its builder.
func (b *Builder) Frame(durationMS int) *FrameBuilder {
	fb := &FrameBuilder{DurationMS: durationMS}
	b.frames = append(b.frames, fb)
	return fb
}

// Bytes encodes the file.
func (b *Builder) Bytes() []byte {
	var body bytes.Buffer
	for _, fb := range b.frames {
		body.Write(fb.bytes())
	}

	var w bytes.Buffer
	le(&w, uint32(128+body.Len()))
	le(&w, uint16(0xA5E0))
	le(&w, uint16(len(b.frames)))
	le(&w, uint16(b.Width))
	le(&w, uint16(b.Height))
	le(&w, b.ColorDepth)
	le(&w, uint32(1)) // flags
	le(&w, uint16(100))
	le(&w, uint32(0))
	le(&w, uint32(0))
	w.Write(make([]byte, 4)) // transparent index + reserved
	le(&w, uint16(0))        // number of colors
	le(&w, uint8(1))         // pixel width
	le(&w, uint8(1))         // pixel height
	w.Write(make([]byte, 92))
	w.Write(body.Bytes())
	return w.Bytes()
}

func (fb *FrameBuilder) bytes() []byte {
	var body bytes.Buffer
	for _, c := range fb.chunks {
		body.Write(c)
	}
	var w bytes.Buffer
	le(&w, uint32(16+body.Len()))
	le(&w, uint16(0xF1FA))
	le(&w, uint16(len(fb.chunks)))
	le(&w, uint16(fb.DurationMS))
	w.Write(make([]byte, 2))
	le(&w, uint32(len(fb.chunks)))
	w.Write(body.Bytes())
	return w.Bytes()
}

// Chunk appends a chunk with an arbitrary type and payload.
func (fb *FrameBuilder) Chunk(typ uint16, payload []byte) *FrameBuilder {
	var w bytes.Buffer
	le(&w, uint32(6+len(payload)))
	le(&w, typ)
	w.Write(payload)
	fb.chunks = append(fb.chunks, w.Bytes())
	return fb
}

// Layer appends a layer chunk.
func (fb *FrameBuilder) Layer(flags, layerType, childLevel int, opacity byte, name string) *FrameBuilder {
	var w bytes.Buffer
	le(&w, uint16(flags))
	le(&w, uint16(layerType))
	le(&w, uint16(childLevel))
	le(&w, uint16(0))
	le(&w, uint16(0))
	le(&w, uint16(0)) // blend mode
	le(&w, opacity)
	w.Write(make([]byte, 3))
	str(&w, name)
	return fb.Chunk(0x2004, w.Bytes())
}

func celHeader(w *bytes.Buffer, layer, x, y int, opacity byte, celType uint16) {
	le(w, uint16(layer))
	le(w, int16(x))
	le(w, int16(y))
	le(w, opacity)
	le(w, celType)
	w.Write(make([]byte, 7))
}

// RawCel appends an uncompressed cel. pix holds RGBA byte quads.
func (fb *FrameBuilder) RawCel(layer, x, y int, opacity byte, width, height int, pix []byte) *FrameBuilder {
	var w bytes.Buffer
	celHeader(&w, layer, x, y, opacity, 0)
	le(&w, uint16(width))
	le(&w, uint16(height))
	w.Write(pix)
	return fb.Chunk(0x2005, w.Bytes())
}

// CompressedCel appends a zlib compressed cel.
func (fb *FrameBuilder) CompressedCel(layer, x, y int, opacity byte, width, height int, pix []byte) *FrameBuilder {
	var w bytes.Buffer
	celHeader(&w, layer, x, y, opacity, 2)
	le(&w, uint16(width))
	le(&w, uint16(height))
	zw := zlib.NewWriter(&w)
	zw.Write(pix)
	zw.Close()
	return fb.Chunk(0x2005, w.Bytes())
}

// LinkedCel appends a cel reusing the cel of the same layer in frame.
func (fb *FrameBuilder) LinkedCel(layer, x, y int, frame int) *FrameBuilder {
	var w bytes.Buffer
	celHeader(&w, layer, x, y, 255, 1)
	le(&w, uint16(frame))
	return fb.Chunk(0x2005, w.Bytes())
}

// Tags appends a tags chunk.
func (fb *FrameBuilder) Tags(tags ...Tag) *FrameBuilder {
	var w bytes.Buffer
	le(&w, uint16(len(tags)))
	w.Write(make([]byte, 8))
	for _, t := range tags {
		le(&w, uint16(t.From))
		le(&w, uint16(t.To))
		le(&w, t.Direction)
		le(&w, t.Repeat)
		w.Write(make([]byte, 6))
		w.Write(make([]byte, 3))
		le(&w, uint8(0))
		str(&w, t.Name)
	}
	return fb.Chunk(0x2018, w.Bytes())
}

// UserData appends a user data chunk with text and a color.
func (fb *FrameBuilder) UserData(text string) *FrameBuilder {
	var w bytes.Buffer
	le(&w, uint32(3))
	str(&w, text)
	w.Write([]byte{1, 2, 3, 4})
	return fb.Chunk(0x2020, w.Bytes())
}

// Fill returns width*height copies of the RGBA color.
func Fill(width, height int, r, g, b, a byte) []byte {
	pix := make([]byte, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pix = append(pix, r, g, b, a)
	}
	return pix
}

func le(w *bytes.Buffer, v any) {
	binary.Write(w, binary.LittleEndian, v)
}

func str(w *bytes.Buffer, s string) {
	le(w, uint16(len(s)))
	w.WriteString(s)
}
