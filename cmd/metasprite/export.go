package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/setanarut/metasprite/atlas"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/config"
	"github.com/setanarut/metasprite/importer"
	"golang.org/x/image/bmp"
)

type atlasDoc struct {
	Name    string         `json:"name"`
	ID      string         `json:"id"`
	Size    int            `json:"size"`
	Image   string         `json:"image"`
	Sprites []atlas.Sprite `json:"sprites"`
}

type fileDoc struct {
	Name    string       `json:"name"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	PPU     int          `json:"ppu"`
	Atlases []atlasDoc   `json:"atlases"`
	Clips   []*clip.Clip `json:"clips"`
}

// export writes every atlas image of res and one JSON file describing the
// atlases and clips. It returns the written paths.
func export(res *importer.Result, outDir string) ([]string, error) {
	s := res.Settings
	atlasDir := filepath.Join(outDir, s.AtlasDir)
	clipDir := filepath.Join(outDir, s.ClipDir)
	for _, dir := range []string{atlasDir, clipDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	doc := fileDoc{
		Name:   res.Name,
		Width:  res.File.Width,
		Height: res.File.Height,
		PPU:    s.PixelsPerUnit,
		Clips:  res.Clips,
	}
	var written []string
	for _, a := range res.Atlases() {
		name := a.Name + "." + s.ImageFormat
		path := filepath.Join(atlasDir, name)
		if err := writeImage(path, a, s.ImageFormat); err != nil {
			return written, err
		}
		written = append(written, path)
		doc.Atlases = append(doc.Atlases, atlasDoc{
			Name:    a.Name,
			ID:      a.ID,
			Size:    a.Size,
			Image:   name,
			Sprites: a.Sprites,
		})
	}

	path := filepath.Join(clipDir, res.Name+".json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return written, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return written, err
	}
	return append(written, path), nil
}

func writeImage(path string, a *atlas.Atlas, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := a.Image()
	switch format {
	case config.FormatPNG:
		err = png.Encode(f, img)
	case config.FormatBMP:
		err = bmp.Encode(f, img)
	default:
		err = fmt.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
