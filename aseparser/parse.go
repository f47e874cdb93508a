package aseparser

import (
	"fmt"
	"strings"

	"github.com/setanarut/metasprite/aseparser/annotation"
)

// Cel types
const (
	celRaw        = 0
	celLinked     = 1
	celCompressed = 2
)

// Layer Chunk (0x2004)
func (d *decoder) parseChunk2004(r *reader) error {
	start := r.pos()
	flags := r.u16()
	layerType := r.u16()
	childLevel := int(r.u16())
	r.u16() // default width
	r.u16() // default height
	blendMode := BlendMode(r.u16())
	opacity := r.u8()
	r.skip(3)
	name := r.utf8()
	if r.err != nil {
		return r.err
	}

	raw := d.rawIndex
	d.rawIndex++

	l := &Layer{
		Index:       -1,
		RawIndex:    raw,
		ParentIndex: -1,
		Visible:     flags&1 != 0,
		BlendMode:   blendMode,
		Opacity:     float64(opacity) / 255,
		Name:        name,
	}
	d.acceptor = l

	if childLevel > 0 {
		parent, ok := d.levelToIndex[childLevel-1]
		if !ok {
			return &FormatError{Offset: start, Msg: fmt.Sprintf("layer %q at child level %d has no parent", name, childLevel)}
		}
		l.ParentIndex = parent
	}
	d.levelToIndex[childLevel] = raw

	parentEnabled := l.ParentIndex == -1 || d.enabled[l.ParentIndex]
	thisEnabled := l.Visible && !strings.HasPrefix(name, "//")
	if !parentEnabled || !thisEnabled {
		return nil
	}
	d.enabled[raw] = true

	if layerType != 0 {
		// groups only take part in the hierarchy
		return nil
	}

	if strings.HasPrefix(name, "@") {
		l.Type = Meta
		a, err := annotation.Parse(name[1:])
		if err != nil {
			return &FormatError{Offset: start, Msg: fmt.Sprintf("meta layer %q", name), Err: err}
		}
		if a.Trailing != nil {
			d.log.Warn().Str("layer", name).Msgf("invalid content after layer definition finished: %v", *a.Trailing)
		}
		l.ActionName = a.Name
		l.Params = a.Params
	}

	l.Index = len(d.file.Layers)
	d.file.Layers = append(d.file.Layers, l)
	d.registered[raw] = l
	return nil
}

// Cel Chunk (0x2005)
func (d *decoder) parseChunk2005(fr *Frame, r *reader) error {
	start := r.pos()
	layer := int(r.u16())
	x := int(r.i16())
	y := int(r.i16())
	opacity := r.u8()
	celType := r.u16()
	r.skip(7)
	if r.err != nil {
		return r.err
	}

	cel := &Cel{X: x, Y: y, Opacity: float64(opacity) / 255}
	d.acceptor = cel

	switch celType {
	case celRaw:
		cel.Width = int(r.u16())
		cel.Height = int(r.u16())
		pix := r.rest()
		if r.err != nil {
			return r.err
		}
		colors, err := toColors(pix, r.pos())
		if err != nil {
			return err
		}
		cel.Pixels = colors
	case celLinked:
		cel.linked = true
		cel.linkedFrame = int(r.u16())
	case celCompressed:
		cel.Width = int(r.u16())
		cel.Height = int(r.u16())
		pix, err := inflate(r.rest(), r.pos())
		if r.err != nil {
			return r.err
		}
		if err != nil {
			return err
		}
		colors, err := toColors(pix, r.pos())
		if err != nil {
			return err
		}
		cel.Pixels = colors
	default:
		return &FormatError{Offset: start, Msg: fmt.Sprintf("unsupported cel type %d", celType)}
	}
	if r.err != nil {
		return r.err
	}

	if !cel.linked && cel.Width*cel.Height != len(cel.Pixels) {
		return &FormatError{Offset: start, Msg: fmt.Sprintf("color buffer size incorrect: %dx%d cel with %d pixels",
			cel.Width, cel.Height, len(cel.Pixels))}
	}

	l, ok := d.registered[layer]
	if !ok {
		// disabled, group or commented layer
		return nil
	}
	cel.LayerIndex = l.Index
	fr.Cels[l.Index] = cel
	return nil
}

// Tags Chunk (0x2018)
func (d *decoder) parseChunk2018(r *reader) error {
	count := int(r.u16())
	r.skip(8)

	pending := make([]userDataAcceptor, 0, count)
	for i := 0; i < count; i++ {
		var t FrameTag
		t.From = int(r.u16())
		t.To = int(r.u16())
		t.Direction = LoopDirection(r.u8())
		t.Repeat = r.u16()
		r.skip(6)
		r.skip(3) // tag color
		r.u8()
		raw := r.utf8()
		if r.err != nil {
			return r.err
		}

		name, props, keep, invalid := parseTagName(raw)
		if !keep {
			// commented tags still own a user data chunk
			pending = append(pending, nil)
			continue
		}
		if invalid {
			d.log.Warn().Str("tag", raw).Msg("invalid tag name")
		}
		t.Name = name
		t.Properties = props
		d.file.Tags = append(d.file.Tags, t)
		pending = append(pending, tagRef{d.file, len(d.file.Tags) - 1})
	}
	d.pendingTags = pending
	return nil
}

// tagRef addresses a tag by position since File.Tags may grow.
type tagRef struct {
	file  *File
	index int
}

func (t tagRef) setUserData(text string) {
	t.file.Tags[t.index].setUserData(text)
}

// User Data Chunk (0x2020)
func (d *decoder) parseChunk2020(r *reader) error {
	flags := r.u32()
	var text string
	hasText := flags&1 != 0
	if hasText {
		text = r.utf8()
	}
	if flags&2 != 0 {
		r.skip(4)
	}
	if r.err != nil {
		return r.err
	}

	target := d.acceptor
	if len(d.pendingTags) > 0 {
		target = d.pendingTags[0]
		d.pendingTags = d.pendingTags[1:]
	}
	if hasText && target != nil {
		target.setUserData(text)
	}
	return nil
}
