// Package config holds the import settings and loads them from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/setanarut/v"
)

// Alignment names the default pivot of generated sprites.
type Alignment string

const (
	Center       Alignment = "center"
	TopLeft      Alignment = "top-left"
	TopCenter    Alignment = "top-center"
	TopRight     Alignment = "top-right"
	LeftCenter   Alignment = "left-center"
	RightCenter  Alignment = "right-center"
	BottomLeft   Alignment = "bottom-left"
	BottomCenter Alignment = "bottom-center"
	BottomRight  Alignment = "bottom-right"
	Custom       Alignment = "custom"
)

// relative pivots, y pointing up
var alignments = map[Alignment]v.Vec{
	Center:       {X: 0.5, Y: 0.5},
	TopLeft:      {X: 0, Y: 1},
	TopCenter:    {X: 0.5, Y: 1},
	TopRight:     {X: 1, Y: 1},
	LeftCenter:   {X: 0, Y: 0.5},
	RightCenter:  {X: 1, Y: 0.5},
	BottomLeft:   {X: 0, Y: 0},
	BottomCenter: {X: 0.5, Y: 0},
	BottomRight:  {X: 1, Y: 0},
}

// Image formats for written atlases.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Settings controls how an Aseprite file is imported.
type Settings struct {
	// PixelsPerUnit converts pixels to world units for meta layer curves.
	PixelsPerUnit int       `toml:"ppu"`
	Alignment     Alignment `toml:"alignment"`
	// CustomPivot is used when Alignment is Custom.
	CustomPivot [2]float64 `toml:"custom_pivot"`
	DensePacked bool       `toml:"dense_packed"`
	Border      int        `toml:"border"`
	// BaseName prefixes generated names. Empty uses the file name.
	BaseName string `toml:"base_name"`
	// SpriteTarget is the target path of the main sprite track.
	SpriteTarget string `toml:"sprite_target"`
	AtlasDir     string `toml:"atlas_dir"`
	ClipDir      string `toml:"clip_dir"`
	ImageFormat  string `toml:"image_format"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		PixelsPerUnit: 48,
		Alignment:     Center,
		DensePacked:   true,
		Border:        3,
		ImageFormat:   FormatPNG,
	}
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(r io.Reader) (Settings, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Settings{}, fmt.Errorf("config: unknown key %q", keys[0].String())
	}
	return s, s.Validate()
}

// Load reads settings from a TOML file.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Encode writes s as TOML.
func (s Settings) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Validate reports settings an import cannot use.
func (s Settings) Validate() error {
	var errs []error
	if s.PixelsPerUnit <= 0 {
		errs = append(errs, fmt.Errorf("ppu must be positive, got %d", s.PixelsPerUnit))
	}
	if s.Border < 0 {
		errs = append(errs, fmt.Errorf("border must not be negative, got %d", s.Border))
	}
	if _, ok := alignments[s.Alignment]; !ok && s.Alignment != Custom {
		errs = append(errs, fmt.Errorf("unknown alignment %q", s.Alignment))
	}
	if s.ImageFormat != FormatPNG && s.ImageFormat != FormatBMP {
		errs = append(errs, fmt.Errorf("unknown image format %q", s.ImageFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid settings: %w", err)
	}
	return nil
}

// PivotRelativePos returns the pivot normalized over the canvas, y
// pointing up.
func (s Settings) PivotRelativePos() v.Vec {
	if s.Alignment == Custom {
		return v.Vec{X: s.CustomPivot[0], Y: s.CustomPivot[1]}
	}
	return alignments[s.Alignment]
}

// Name returns BaseName, or fallback when it is empty.
func (s Settings) Name(fallback string) string {
	if s.BaseName != "" {
		return s.BaseName
	}
	return fallback
}
