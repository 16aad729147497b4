// Package layout computes anchor-based layouts: projections onto
// user-chosen axes and the polar "nearest" layout around a single anchor.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ErrIncompleteSelection signals that the anchors a layout needs are not all
// chosen. It is an expected state; callers render a fallback scatter.
var ErrIncompleteSelection = errors.New("incomplete anchor selection")

// AnchorPair names the two samples that define a projection axis, from A
// toward B.
type AnchorPair struct {
	A string
	B string
}

// Complete reports whether both ends of the axis are chosen.
func (p AnchorPair) Complete() bool {
	return p.A != "" && p.B != ""
}

// ProjectAxis places every sample by its scalar position along the axis
// defined by pair, and along pair2 for the y axis when given. Without pair2
// every y is 0. With useRanks each axis value is replaced by its ascending
// rank among all samples.
func ProjectAxis(samples []vectortypes.Sample, pair AnchorPair, pair2 *AnchorPair, useRanks bool) (vectortypes.Coords, error) {
	xs, err := axisValues(samples, pair)
	if err != nil {
		return nil, err
	}

	ys := make([]float64, len(samples))
	if pair2 != nil {
		if ys, err = axisValues(samples, *pair2); err != nil {
			return nil, err
		}
	}

	if useRanks {
		xs = ordinalRanks(xs)
		if pair2 != nil {
			ys = ordinalRanks(ys)
		}
	}

	coords := make(vectortypes.Coords, len(samples))
	for i, s := range samples {
		coords[s.ID] = vectortypes.Point{X: xs[i], Y: ys[i]}
	}
	return coords, nil
}

func axisValues(samples []vectortypes.Sample, pair AnchorPair) ([]float64, error) {
	if !pair.Complete() {
		return nil, ErrIncompleteSelection
	}

	a, err := anchor(samples, pair.A)
	if err != nil {
		return nil, err
	}
	b, err := anchor(samples, pair.B)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		v, err := vectortypes.ProjectOntoLine(s.Vector, a.Vector, b.Vector)
		if err != nil {
			return nil, fmt.Errorf("failed to project sample %q: %w", s.ID, err)
		}
		values[i] = v
	}
	return values, nil
}

// anchor resolves an anchor ID; an ID missing from the set counts as unset.
func anchor(samples []vectortypes.Sample, id string) (vectortypes.Sample, error) {
	idx := vectortypes.IndexOf(samples, id)
	if idx < 0 {
		return vectortypes.Sample{}, fmt.Errorf("%w: anchor %q is not in the sample set", ErrIncompleteSelection, id)
	}
	return samples[idx], nil
}

// ordinalRanks returns 1-based ascending ranks; ties keep input order.
func ordinalRanks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	for position, idx := range order {
		ranks[idx] = float64(position + 1)
	}
	return ranks
}
