package layout

import (
	"math"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// Normalize rescales coordinates into [0,1] per axis. An axis with no spread
// maps every point to 0.5.
func Normalize(coords vectortypes.Coords) vectortypes.Coords {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range coords {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	out := make(vectortypes.Coords, len(coords))
	for id, p := range coords {
		out[id] = vectortypes.Point{
			X: unit(p.X, minX, maxX),
			Y: unit(p.Y, minY, maxY),
		}
	}
	return out
}

func unit(v, lo, hi float64) float64 {
	if hi-lo == 0 {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// ToScreen maps coordinates into a width x height viewport, keeping a margin
// of padding on every side plus an equal inner scale margin.
func ToScreen(coords vectortypes.Coords, width, height, padding float64) vectortypes.Coords {
	drawableWidth := width - 2*padding
	drawableHeight := height - 2*padding

	out := make(vectortypes.Coords, len(coords))
	for id, p := range Normalize(coords) {
		out[id] = vectortypes.Point{
			X: p.X*(drawableWidth-2*padding) + 2*padding,
			Y: p.Y*(drawableHeight-2*padding) + 2*padding,
		}
	}
	return out
}
