package aseparser

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	magicFile  = 0xA5E0
	magicFrame = 0xF1FA

	headerSize      = 128
	frameHeaderSize = 16
	chunkHeaderSize = 6
)

// Chunk types handled by the decoder. Anything else is skipped.
const (
	chunkLayer     = 0x2004
	chunkCel       = 0x2005
	chunkCelExtra  = 0x2006
	chunkFrameTags = 0x2018
	chunkPalette   = 0x2019
	chunkUserData  = 0x2020
)

type header struct {
	fileSize   uint32
	frames     int
	width      int
	height     int
	colorDepth uint16
	flags      uint32
}

func readHeader(r *reader) header {
	var h header
	h.fileSize = r.u32()
	r.magic16(magicFile)
	h.frames = int(r.u16())
	h.width = int(r.u16())
	h.height = int(r.u16())
	h.colorDepth = r.u16()
	h.flags = r.u32()
	r.u16() // deprecated speed
	r.magic32(0)
	r.magic32(0)
	r.skip(4)
	r.u16() // number of colors
	r.skip(2)
	r.skip(92)
	return h
}

// decoder holds the state of a single decode pass.
type decoder struct {
	file *File
	log  zerolog.Logger

	// raw layer ordinal of the next layer chunk
	rawIndex int
	// child level -> raw index of the last layer read at that level
	levelToIndex map[int]int
	// raw indexes of enabled layers, groups included
	enabled map[int]bool
	// raw index -> registered layer
	registered map[int]*Layer

	// receives the next user data chunk
	acceptor userDataAcceptor
	// tags of the last tags chunk still waiting for their user data
	pendingTags []userDataAcceptor
}

// Option configures Decode.
type Option func(*decoder)

// WithLogger sets the logger that receives decode warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(d *decoder) { d.log = l }
}

func newDecoder(opts []Option) *decoder {
	d := &decoder{
		file:         &File{},
		log:          log.Logger,
		levelToIndex: make(map[int]int),
		enabled:      make(map[int]bool),
		registered:   make(map[int]*Layer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *decoder) decode(data []byte) (*File, error) {
	r := newReader(data, 0)
	h := readHeader(r)
	if r.err != nil {
		return nil, r.err
	}
	if h.colorDepth != 32 {
		return nil, &FormatError{Offset: 12, Msg: fmt.Sprintf("color depth %d is not supported, only 32-bit RGBA", h.colorDepth)}
	}

	f := d.file
	f.Width, f.Height = h.width, h.height
	f.Frames = make([]Frame, 0, h.frames)

	for i := 0; i < h.frames; i++ {
		fr, err := d.readFrame(r, i)
		if err != nil {
			return nil, err
		}
		f.Frames = append(f.Frames, fr)
	}

	if err := d.checkTags(); err != nil {
		return nil, err
	}
	if err := d.premultiply(); err != nil {
		return nil, err
	}
	if err := d.resolveLinks(); err != nil {
		return nil, err
	}
	return f, nil
}

func (d *decoder) readFrame(r *reader, id int) (Frame, error) {
	fr := Frame{ID: id, Cels: make(map[int]*Cel)}

	r.u32() // frame bytes
	r.magic16(magicFrame)
	oldChunks := r.u16()
	fr.DurationMS = int(r.u16())
	r.skip(2)
	newChunks := r.u32()
	if r.err != nil {
		return fr, r.err
	}

	nchunks := int(newChunks)
	if nchunks == 0 {
		nchunks = int(oldChunks)
	}

	for j := 0; j < nchunks; j++ {
		start := r.pos()
		size := int(r.u32())
		typ := r.u16()
		if r.err != nil {
			return fr, r.err
		}
		if size < chunkHeaderSize {
			return fr, &FormatError{Offset: start, Msg: fmt.Sprintf("chunk size %d is too small", size)}
		}
		cr := r.sub(size - chunkHeaderSize)
		if r.err != nil {
			return fr, r.err
		}
		if err := d.readChunk(&fr, typ, cr); err != nil {
			return fr, err
		}
	}
	return fr, nil
}

func (d *decoder) readChunk(fr *Frame, typ uint16, r *reader) error {
	if typ != chunkUserData {
		d.pendingTags = nil
	}

	switch typ {
	case chunkLayer:
		return d.parseChunk2004(r)
	case chunkCel:
		return d.parseChunk2005(fr, r)
	case chunkFrameTags:
		return d.parseChunk2018(r)
	case chunkUserData:
		return d.parseChunk2020(r)
	case chunkCelExtra, chunkPalette:
		// not used
	default:
		d.log.Debug().Msgf("aseparser: skipping chunk 0x%04X (%d bytes)", typ, r.len())
	}
	return nil
}

func (d *decoder) checkTags() error {
	n := len(d.file.Frames)
	for _, t := range d.file.Tags {
		if t.From > t.To || t.To >= n {
			return &ReferenceError{Frame: t.To, Layer: -1, Msg: fmt.Sprintf("tag %q range %d..%d is outside %d frames", t.Name, t.From, t.To, n)}
		}
	}
	return nil
}

// parseTagName splits a raw tag name like "Walk #loop #extra" into its name
// and property set. It reports false for names starting with "//" and
// invalid when a word after the first '#' is not "#word".
func parseTagName(raw string) (name string, props map[string]struct{}, keep, invalid bool) {
	if strings.HasPrefix(raw, "//") {
		return "", nil, false, false
	}
	props = make(map[string]struct{})
	i := strings.IndexByte(raw, '#')
	if i == -1 {
		return raw, props, true, false
	}
	name = strings.TrimSpace(raw[:i])
	for _, word := range strings.Split(raw[i:], " ") {
		if len(word) > 1 && word[0] == '#' {
			props[word[1:]] = struct{}{}
		} else {
			invalid = true
		}
	}
	return name, props, true, invalid
}
