// Package importer turns a decoded Aseprite file into atlases and clip
// timelines, then runs the actions of its meta layers.
//
// An import runs in stages:
//
//	LoadFile          decode the file
//	GenerateAtlas     pack all content layers into the main atlas
//	GenerateClips     build one clip per frame tag
//	InvokeMetaLayers  run meta layer actions by priority
package importer

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/atlas"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/config"
)

// Stage is a step of an import.
type Stage int

const (
	LoadFile Stage = iota
	GenerateAtlas
	GenerateClips
	InvokeMetaLayers
	stageCount
)

var stageNames = [...]string{"LoadFile", "GenerateAtlas", "GenerateClips", "InvokeMetaLayers"}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Progress returns the fraction of the import done when s starts.
func (s Stage) Progress() float64 {
	return float64(s) / float64(stageCount)
}

// Result is everything an import produces.
type Result struct {
	// Name is the base name of generated assets.
	Name string
	// FileName is the name of the imported file without extension.
	FileName   string
	File       *aseparser.File
	Atlas      *atlas.Atlas
	SubAtlases []*atlas.Atlas
	Clips      []*clip.Clip
	Settings   config.Settings
}

// Atlases returns the main atlas followed by the sub atlases.
func (r *Result) Atlases() []*atlas.Atlas {
	return append([]*atlas.Atlas{r.Atlas}, r.SubAtlases...)
}

// Context is the state shared by the actions of one import.
type Context struct {
	*Result
	Log zerolog.Logger
	// SubImageLayers collects layers per sub image name.
	SubImageLayers map[string][]*aseparser.Layer
}

// GenerateAtlas packs layers into an atlas named name using the import
// settings.
func (ctx *Context) GenerateAtlas(name string, layers []*aseparser.Layer) *atlas.Atlas {
	return atlas.Generate(ctx.File, layers, atlas.Options{
		Name:   name,
		Border: ctx.Settings.Border,
		Dense:  ctx.Settings.DensePacked,
		Pivot:  ctx.Settings.PivotRelativePos(),
		Logger: &ctx.Log,
	})
}

// AddSpriteTrack binds a to target in every clip.
func (ctx *Context) AddSpriteTrack(target string, a *atlas.Atlas) {
	for _, c := range ctx.Clips {
		c.AddTrack(target, a.Name)
	}
}

// PixelsToWorld converts a texture space position to world units relative
// to the canvas pivot.
func (ctx *Context) PixelsToWorld(x, y float64) (float64, float64) {
	p := ctx.Settings.PivotRelativePos()
	ppu := float64(ctx.Settings.PixelsPerUnit)
	return (x - p.X*float64(ctx.File.Width)) / ppu, (y - p.Y*float64(ctx.File.Height)) / ppu
}

type options struct {
	log      zerolog.Logger
	progress func(Stage)
}

type Option func(*options)

// WithLogger sets the logger of the import and the decoder.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithProgress calls fn when a stage starts.
func WithProgress(fn func(Stage)) Option {
	return func(o *options) { o.progress = fn }
}

// Import decodes data and runs every stage. fileName is the imported file
// name without extension; it names the assets unless the settings set a
// base name. Meta layers without a registered action are skipped with a
// warning.
func Import(data []byte, fileName string, s config.Settings, reg *Registry, opts ...Option) (*Result, error) {
	o := options{log: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ctx := &Context{
		Result: &Result{
			Name:     s.Name(fileName),
			FileName: fileName,
			Settings: s,
		},
		Log:            o.log.With().Str("file", fileName).Logger(),
		SubImageLayers: make(map[string][]*aseparser.Layer),
	}
	stage := func(st Stage) {
		ctx.Log.Debug().Stringer("stage", st).Msg("import stage")
		if o.progress != nil {
			o.progress(st)
		}
	}

	stage(LoadFile)
	f, err := aseparser.Decode(data, aseparser.WithLogger(ctx.Log))
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", fileName, err)
	}
	ctx.File = f

	stage(GenerateAtlas)
	ctx.Atlas = ctx.GenerateAtlas(ctx.Name, f.LayersOfType(aseparser.Content))

	stage(GenerateClips)
	ctx.Clips = clip.Build(f)
	seen := make(map[string]bool, len(ctx.Clips))
	for _, c := range ctx.Clips {
		if seen[c.Name] {
			ctx.Log.Warn().Str("clip", c.Name).Msg("duplicate clip name")
		}
		seen[c.Name] = true
	}
	ctx.AddSpriteTrack(s.SpriteTarget, ctx.Atlas)

	stage(InvokeMetaLayers)
	for _, b := range reg.schedule(f.LayersOfType(aseparser.Meta)) {
		if !b.found {
			ctx.Log.Warn().Str("layer", b.layer.Name).Msg("no action for meta layer")
			continue
		}
		if err := b.action.Run(ctx, b.layer); err != nil {
			return nil, fmt.Errorf("importer: %s: layer %q: %w", fileName, b.layer.Name, err)
		}
	}
	return ctx.Result, nil
}
