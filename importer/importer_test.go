package importer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/aseparser/asetest"
	"github.com/setanarut/metasprite/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metaFile() []byte {
	b := asetest.New(4, 4)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, "body").
		Layer(asetest.Visible, asetest.Image, 0, 255, "@late(1)").
		Layer(asetest.Visible, asetest.Image, 0, 255, "@early(1)").
		Layer(asetest.Visible, asetest.Image, 0, 255, "@late(2)").
		Layer(asetest.Visible, asetest.Image, 0, 255, "@early(2)").
		Tags(asetest.Tag{From: 0, To: 0, Name: "idle"}).
		RawCel(0, 0, 0, 255, 2, 2, asetest.Fill(2, 2, 255, 255, 255, 255))
	return b.Bytes()
}

func TestImportOrder(t *testing.T) {
	var order []string
	record := func(ctx *Context, l *aseparser.Layer) error {
		n, err := l.ParamInt(0)
		if err != nil {
			return err
		}
		order = append(order, l.ActionName+string(rune('0'+n)))
		return nil
	}
	reg := NewRegistry(
		Action{Name: "late", Priority: 1, Run: record},
		Action{Name: "early", Priority: -1, Run: record},
	)

	var stages []Stage
	res, err := Import(metaFile(), "body", config.Default(), reg,
		WithLogger(zerolog.Nop()),
		WithProgress(func(s Stage) { stages = append(stages, s) }))
	require.NoError(t, err)

	assert.Equal(t, []string{"early1", "early2", "late1", "late2"}, order)
	assert.Equal(t, []Stage{LoadFile, GenerateAtlas, GenerateClips, InvokeMetaLayers}, stages)

	assert.Equal(t, "body", res.Name)
	require.Len(t, res.Clips, 1)
	assert.Equal(t, "idle", res.Clips[0].Name)
	require.Len(t, res.Clips[0].Tracks, 1)
	assert.Equal(t, "body", res.Clips[0].Tracks[0].Atlas)
	assert.Len(t, res.Atlas.Sprites, 1)
	assert.Len(t, res.Atlases(), 1)
}

func TestImportDuplicateClips(t *testing.T) {
	b := asetest.New(4, 4)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, "body").
		Tags(
			asetest.Tag{From: 0, To: 0, Name: "idle"},
			asetest.Tag{From: 0, To: 0, Name: "idle #loop"},
			asetest.Tag{From: 0, To: 0, Name: "run"},
		)

	var buf bytes.Buffer
	res, err := Import(b.Bytes(), "body", config.Default(), nil, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	assert.Len(t, res.Clips, 3)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("duplicate clip name")))
	assert.Contains(t, buf.String(), `"clip":"idle"`)
}

func TestImportActionError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry(Action{Name: "late", Run: func(*Context, *aseparser.Layer) error { return boom }})
	_, err := Import(metaFile(), "body", config.Default(), reg, WithLogger(zerolog.Nop()))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `layer "@late(1)"`)
}

func TestImportDecodeError(t *testing.T) {
	_, err := Import([]byte{1, 2, 3}, "broken", config.Default(), nil, WithLogger(zerolog.Nop()))
	var fe *aseparser.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "importer: broken")
}

func TestImportInvalidSettings(t *testing.T) {
	s := config.Default()
	s.Border = -2
	_, err := Import(metaFile(), "body", s, nil, WithLogger(zerolog.Nop()))
	assert.ErrorContains(t, err, "border")
}

func TestStage(t *testing.T) {
	assert.Equal(t, "GenerateClips", GenerateClips.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
	assert.InDelta(t, 0.5, GenerateClips.Progress(), 1e-9)
	assert.InDelta(t, 0, LoadFile.Progress(), 1e-9)
}

func TestPixelsToWorld(t *testing.T) {
	s := config.Default()
	s.PixelsPerUnit = 4
	ctx := &Context{Result: &Result{Settings: s, File: &aseparser.File{Width: 8, Height: 16}}}
	x, y := ctx.PixelsToWorld(8, 8)
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}
