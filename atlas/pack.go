package atlas

import "image"

// MinSize is the first bin size tried by Pack.
const MinSize = 128

// MaxRecommendedSize is the largest atlas side that is not reported.
const MaxRecommendedSize = 2048

// Layout is the result of packing.
type Layout struct {
	// Size is the side of the square bin, a power of two.
	Size int
	// Positions holds the lower-left corner of every item, y pointing up.
	Positions []image.Point
}

// Pack places items of the given sizes on shelves in a square bin. Items
// keep their order and are never rotated. The bin starts at MinSize and
// doubles until every item fits.
func Pack(sizes []image.Point, border int) Layout {
	size := MinSize
	for {
		if pos, ok := packShelves(sizes, size, border); ok {
			return Layout{Size: size, Positions: pos}
		}
		size *= 2
	}
}

func packShelves(sizes []image.Point, size, border int) ([]image.Point, bool) {
	pos := make([]image.Point, 0, len(sizes))

	// x is the end of the last item, y the base of the current shelf
	x, y := 0, 0
	shelfHeight := 0

	for _, s := range sizes {
		if s.X > size {
			return nil, false
		}
		if x+s.X+border > size {
			y += shelfHeight
			x = 0
			shelfHeight = s.Y + border
		} else if s.Y+border > shelfHeight {
			shelfHeight = s.Y + border
		}

		if y+shelfHeight > size {
			return nil, false
		}

		pos = append(pos, image.Pt(x, y))
		x += s.X + border
	}
	return pos, true
}
