package metalayer

import (
	"bytes"
	"image"
	"testing"

	"github.com/rs/zerolog"
	"github.com/setanarut/metasprite/aseparser/asetest"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/config"
	"github.com/setanarut/metasprite/importer"
	"github.com/setanarut/v"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heroFile has one content layer and one layer per built-in action.
//
// frame 0: body, pivot, arm, hand and hitbox cels
// frame 1: body and event cels
func heroFile() []byte {
	b := asetest.New(8, 8)
	body := asetest.Fill(4, 4, 255, 0, 0, 255)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, "body").
		Layer(asetest.Visible, asetest.Image, 0, 255, "@pivot").
		Layer(asetest.Visible, asetest.Image, 0, 255, `@event("step", 2)`).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@sub("arm")`).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@subTarget("arm", "Arm")`).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@transform("Hand")`).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@boxCollider("Hit")`).
		Layer(asetest.Visible, asetest.Image, 0, 255, "@unknown").
		Tags(asetest.Tag{From: 0, To: 1, Name: "idle #loop"}).
		RawCel(0, 2, 2, 255, 4, 4, body).
		RawCel(1, 4, 6, 255, 1, 1, asetest.Fill(1, 1, 0, 0, 0, 255)).
		RawCel(3, 0, 0, 255, 2, 2, asetest.Fill(2, 2, 0, 255, 0, 255)).
		RawCel(5, 4, 4, 255, 1, 1, asetest.Fill(1, 1, 0, 0, 0, 255)).
		RawCel(6, 1, 1, 255, 3, 2, asetest.Fill(3, 2, 0, 0, 0, 255))
	b.Frame(100).
		RawCel(0, 2, 2, 255, 4, 4, body).
		RawCel(2, 0, 0, 255, 1, 1, asetest.Fill(1, 1, 0, 0, 0, 255))
	return b.Bytes()
}

func importHero(t *testing.T) (*importer.Result, *bytes.Buffer) {
	t.Helper()
	s := config.Default()
	s.PixelsPerUnit = 2
	s.Alignment = config.BottomLeft
	s.BaseName = "Hero"

	var logs bytes.Buffer
	res, err := importer.Import(heroFile(), "hero", s, Default(), importer.WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)
	return res, &logs
}

func TestDefaultNames(t *testing.T) {
	assert.Equal(t,
		[]string{"boxCollider", "event", "pivot", "sub", "subImage", "subTarget", "transform"},
		Default().Names())

	a, ok := Default().Lookup("subTarget")
	require.True(t, ok)
	assert.Equal(t, 1, a.Priority)
}

func TestImportHero(t *testing.T) {
	res, logs := importHero(t)
	require.Len(t, res.Clips, 1)
	c := res.Clips[0]

	t.Run("Pivot", func(t *testing.T) {
		require.Len(t, res.Atlas.Sprites, 2)
		for i, s := range res.Atlas.Sprites {
			assert.Equal(t, image.Pt(2, 2), s.CropOffset, "sprite %d", i)
			assert.Equal(t, v.Vec{X: 0.5, Y: -0.25}, s.Pivot, "sprite %d", i)
		}
	})

	t.Run("SubAtlas", func(t *testing.T) {
		require.Len(t, res.SubAtlases, 1)
		a := res.SubAtlases[0]
		assert.Equal(t, "hero_arm", a.Name)
		assert.Equal(t, image.Rect(0, 0, 2, 2), a.Sprites[0].Rect)
		assert.Equal(t, 1, a.Sprites[1].Rect.Dx())
		assert.Equal(t, []clip.SpriteTrack{{Target: "", Atlas: "Hero"}, {Target: "Arm", Atlas: "hero_arm"}}, c.Tracks)
	})

	t.Run("Event", func(t *testing.T) {
		assert.Equal(t, []clip.Event{{Time: 100, Function: "step", Float: 2, Int: 2}}, c.Events)
	})

	t.Run("Curves", func(t *testing.T) {
		require.Len(t, c.Curves, 7)
		assert.Equal(t, clip.Curve{Target: "Hand", Property: PropPositionX, Keys: []clip.Key{{0, 2}}}, c.Curves[0])
		assert.Equal(t, clip.Curve{Target: "Hand", Property: PropPositionY, Keys: []clip.Key{{0, 1.5}}}, c.Curves[1])

		byProp := map[string][]clip.Key{}
		for _, cv := range c.Curves[2:] {
			assert.Equal(t, "Hit", cv.Target)
			byProp[cv.Property] = cv.Keys
		}
		assert.Equal(t, []clip.Key{{0, 1}}, byProp[PropOffsetX])
		assert.Equal(t, []clip.Key{{0, 2.75}}, byProp[PropOffsetY])
		assert.Equal(t, []clip.Key{{0, 1}}, byProp[PropSizeX])
		assert.Equal(t, []clip.Key{{0, 0.5}}, byProp[PropSizeY])
		assert.Equal(t, []clip.Key{{0, 1}, {100, 0}}, byProp[PropEnabled])
	})

	t.Run("UnknownAction", func(t *testing.T) {
		assert.Contains(t, logs.String(), "no action for meta layer")
		assert.Contains(t, logs.String(), "@unknown")
	})
}

func TestSubTargetWithoutSub(t *testing.T) {
	b := asetest.New(4, 4)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@subImage("legs", "Legs")`)
	_, err := importer.Import(b.Bytes(), "x", config.Default(), Default(), importer.WithLogger(zerolog.Nop()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no @sub layers for sub image "legs"`)
}

func TestParamErrors(t *testing.T) {
	for _, name := range []string{`@sub(1)`, `@event()`, `@boxCollider("Hit", "yes")`, `@transform`} {
		t.Run(name, func(t *testing.T) {
			b := asetest.New(4, 4)
			b.Frame(100).Layer(asetest.Visible, asetest.Image, 0, 255, name)
			_, err := importer.Import(b.Bytes(), "x", config.Default(), Default(), importer.WithLogger(zerolog.Nop()))
			require.Error(t, err)
		})
	}
}

func TestBoxColliderWithoutEnable(t *testing.T) {
	b := asetest.New(8, 8)
	b.Frame(100).
		Layer(asetest.Visible, asetest.Image, 0, 255, `@boxCollider("Hit", false)`).
		Tags(asetest.Tag{From: 0, To: 0, Name: "a"}).
		RawCel(0, 0, 0, 255, 2, 2, asetest.Fill(2, 2, 0, 0, 0, 255))
	res, err := importer.Import(b.Bytes(), "x", config.Default(), Default(), importer.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.Len(t, res.Clips[0].Curves, 4)
	for _, cv := range res.Clips[0].Curves {
		assert.NotEqual(t, PropEnabled, cv.Property)
	}
}
