package metalayer

import (
	"fmt"

	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/importer"
)

func sub(ctx *importer.Context, layer *aseparser.Layer) error {
	name, err := layer.ParamString(0)
	if err != nil {
		return err
	}
	ctx.SubImageLayers[name] = append(ctx.SubImageLayers[name], layer)
	return nil
}

// subTarget names the sub atlas after the imported file.
func subTarget(ctx *importer.Context, layer *aseparser.Layer) error {
	return generateSub(ctx, layer, ctx.FileName)
}

// subImage names the sub atlas after the base name.
func subImage(ctx *importer.Context, layer *aseparser.Layer) error {
	return generateSub(ctx, layer, ctx.Name)
}

func generateSub(ctx *importer.Context, layer *aseparser.Layer, prefix string) error {
	name, err := layer.ParamString(0)
	if err != nil {
		return err
	}
	target, err := layer.ParamString(1)
	if err != nil {
		return err
	}
	layers, ok := ctx.SubImageLayers[name]
	if !ok {
		return fmt.Errorf("no @sub layers for sub image %q", name)
	}

	a := ctx.GenerateAtlas(prefix+"_"+name, layers)
	ctx.SubAtlases = append(ctx.SubAtlases, a)
	ctx.AddSpriteTrack(target, a)
	ctx.Log.Debug().Str("atlas", a.Name).Int("size", a.Size).Str("target", target).Msg("generated sub atlas")
	return nil
}
