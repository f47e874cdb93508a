package main

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/metasprite/aseparser/asetest"
	"github.com/setanarut/metasprite/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeAse(t *testing.T, dir, name string) string {
	t.Helper()
	b := asetest.New(8, 8)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, "body").
		Layer(asetest.Visible, asetest.Image, 0, 255, `@sub("hat")`).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@subImage("hat", "Hat")`).
		Tags(asetest.Tag{From: 0, To: 1, Name: "idle #loop"}).
		RawCel(0, 1, 1, 255, 2, 2, asetest.Fill(2, 2, 255, 0, 0, 255)).
		RawCel(1, 0, 0, 255, 1, 1, asetest.Fill(1, 1, 0, 0, 255, 255))
	b.Frame(120).
		RawCel(0, 2, 2, 255, 2, 2, asetest.Fill(2, 2, 255, 0, 0, 255))
	path := filepath.Join(dir, name+".aseprite")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	files := []string{writeAse(t, in, "knight"), writeAse(t, in, "mage")}

	s := config.Default()
	s.AtlasDir = "atlases"
	s.ClipDir = "clips"
	require.NoError(t, run(files, s, out, 2))

	for _, name := range []string{"knight", "mage"} {
		data, err := os.ReadFile(filepath.Join(out, "clips", name+".json"))
		require.NoError(t, err)

		var doc fileDoc
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, name, doc.Name)
		assert.Equal(t, 48, doc.PPU)
		require.Len(t, doc.Atlases, 2)
		assert.Equal(t, name+".png", doc.Atlases[0].Image)
		assert.Equal(t, name+"_hat.png", doc.Atlases[1].Image)
		assert.Len(t, doc.Atlases[0].Sprites, 2)
		require.Len(t, doc.Clips, 1)
		assert.Equal(t, "idle", doc.Clips[0].Name)
		assert.Equal(t, 220, doc.Clips[0].Length)
		assert.Len(t, doc.Clips[0].Tracks, 2)

		for _, a := range doc.Atlases {
			f, err := os.Open(filepath.Join(out, "atlases", a.Image))
			require.NoError(t, err)
			cfg, format, err := image.DecodeConfig(f)
			f.Close()
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, a.Size, cfg.Width)
		}
	}
}

func TestRunBMP(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	s := config.Default()
	s.ImageFormat = config.FormatBMP
	require.NoError(t, run([]string{writeAse(t, in, "slime")}, s, out, 1))

	f, err := os.Open(filepath.Join(out, "slime.bmp"))
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())
}

func TestRunMissingFile(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "nope.ase")}, config.Default(), t.TempDir(), 1)
	assert.Error(t, err)
}
