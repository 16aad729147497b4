package layout

import (
	"fmt"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ProjectPolar lays samples out around anchorID: the radius is the Euclidean
// distance to the anchor and the angle is the angle between the vectors.
// With useRanks the radius becomes the number of samples strictly closer to
// the anchor, so the anchor sits at the origin and ties share a ring.
func ProjectPolar(samples []vectortypes.Sample, anchorID string, useRanks bool) (vectortypes.Coords, error) {
	if anchorID == "" {
		return nil, ErrIncompleteSelection
	}
	center, err := anchor(samples, anchorID)
	if err != nil {
		return nil, err
	}

	radii := make([]float64, len(samples))
	angles := make([]float64, len(samples))
	for i, s := range samples {
		if radii[i], err = vectortypes.EuclideanDistance(s.Vector, center.Vector); err != nil {
			return nil, fmt.Errorf("failed to measure sample %q: %w", s.ID, err)
		}
		if angles[i], err = vectortypes.AngleBetween(s.Vector, center.Vector); err != nil {
			return nil, fmt.Errorf("failed to measure sample %q: %w", s.ID, err)
		}
	}

	if useRanks {
		radii = smallerCounts(radii)
	}

	coords := make(vectortypes.Coords, len(samples))
	for i, s := range samples {
		coords[s.ID] = vectortypes.PolarToCartesian(radii[i], angles[i])
	}
	return coords, nil
}

// smallerCounts replaces each value with how many values are strictly smaller.
func smallerCounts(values []float64) []float64 {
	counts := make([]float64, len(values))
	for i, v := range values {
		for _, other := range values {
			if other < v {
				counts[i]++
			}
		}
	}
	return counts
}
