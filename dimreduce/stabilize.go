package dimreduce

import (
	"math"
	"sort"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// Signs is a per-axis reflection applied to a layout.
type Signs struct {
	X float64
	Y float64
}

// Identity leaves coordinates unchanged.
var Identity = Signs{X: 1, Y: 1}

// signCandidates is the evaluation order; the first minimum wins.
var signCandidates = [4]Signs{
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: -1, Y: -1},
}

// Apply reflects a point.
func (s Signs) Apply(p vectortypes.Point) vectortypes.Point {
	return vectortypes.Point{X: p.X * s.X, Y: p.Y * s.Y}
}

// Displacement sums the Euclidean movement between previous and the
// reflected current coordinates over the IDs present in both. The second
// result reports how many IDs were shared.
func Displacement(previous, current vectortypes.Coords, signs Signs) (float64, int) {
	ids := make([]string, 0, len(previous))
	for id := range previous {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var total float64
	shared := 0
	for _, id := range ids {
		prev := previous[id]
		cur, ok := current[id]
		if !ok {
			continue
		}
		shared++
		flipped := signs.Apply(cur)
		total += math.Hypot(flipped.X-prev.X, flipped.Y-prev.Y)
	}
	return total, shared
}

// Stabilize picks the axis reflection of current that moves shared samples
// the least relative to previous and applies it to every coordinate. With no
// shared IDs the coordinates are returned as given with Identity signs.
func Stabilize(current, previous vectortypes.Coords) (vectortypes.Coords, Signs) {
	if len(previous) == 0 || len(current) == 0 {
		return current, Identity
	}

	best := Identity
	bestMovement := math.Inf(1)
	for _, signs := range signCandidates {
		movement, shared := Displacement(previous, current, signs)
		if shared == 0 {
			return current, Identity
		}
		if movement < bestMovement {
			best = signs
			bestMovement = movement
		}
	}

	stabilized := make(vectortypes.Coords, len(current))
	for id, p := range current {
		stabilized[id] = best.Apply(p)
	}
	return stabilized, best
}
