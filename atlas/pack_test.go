package atlas

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackSingle(t *testing.T) {
	l := Pack([]image.Point{{10, 10}}, 3)
	assert.Equal(t, MinSize, l.Size)
	assert.Equal(t, []image.Point{{0, 0}}, l.Positions)
}

func TestPackShelves(t *testing.T) {
	l := Pack([]image.Point{{50, 10}, {50, 20}, {50, 5}}, 3)
	require.Equal(t, 128, l.Size)
	assert.Equal(t, image.Pt(0, 0), l.Positions[0])
	assert.Equal(t, image.Pt(53, 0), l.Positions[1])
	// 106+50+3 > 128 starts a shelf above the tallest item plus border
	assert.Equal(t, image.Pt(0, 23), l.Positions[2])
}

func TestPackGrows(t *testing.T) {
	assert.Equal(t, 256, Pack([]image.Point{{200, 4}}, 0).Size)
	assert.Equal(t, 4096, Pack([]image.Point{{3000, 1}}, 0).Size)

	// one item per shelf needs 400 rows at 128, two per shelf fit 256
	sizes := make([]image.Point, 40)
	for i := range sizes {
		sizes[i] = image.Pt(100, 10)
	}
	l := Pack(sizes, 0)
	assert.Equal(t, 256, l.Size)
	assert.Equal(t, image.Pt(100, 0), l.Positions[1])
	assert.Equal(t, image.Pt(0, 10), l.Positions[2])
}

func TestPackWidthEqualToBin(t *testing.T) {
	l := Pack([]image.Point{{128, 8}, {128, 8}}, 0)
	assert.Equal(t, 128, l.Size)
	assert.Equal(t, []image.Point{{0, 0}, {0, 8}}, l.Positions)
}

func TestPackInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		border := rng.Intn(4)
		sizes := make([]image.Point, 1+rng.Intn(60))
		for i := range sizes {
			sizes[i] = image.Pt(1+rng.Intn(90), 1+rng.Intn(90))
		}

		l := Pack(sizes, border)
		require.Len(t, l.Positions, len(sizes))
		assert.Equal(t, 0, l.Size&(l.Size-1), "size %d is not a power of two", l.Size)

		bin := image.Rect(0, 0, l.Size, l.Size)
		rects := make([]image.Rectangle, len(sizes))
		for i, p := range l.Positions {
			rects[i] = image.Rectangle{Min: p, Max: p.Add(sizes[i])}
			assert.True(t, rects[i].In(bin), "item %d %v outside %v", i, rects[i], bin)
		}
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				assert.False(t, rects[i].Overlaps(rects[j]), "items %d and %d overlap", i, j)
			}
		}

		again := Pack(sizes, border)
		assert.Equal(t, l, again)
	}
}
