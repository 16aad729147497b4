// Package stats derives scalar diagnostics from a point cloud: pairwise
// distance extremes, rank correlation and centroid outliers.
package stats

import (
	"sort"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// NoIndex marks the absence of a point index in a result.
const NoIndex = -1

// Pair identifies two points by index, with I < J.
type Pair struct {
	I int
	J int
}

// PairDistance is one entry of a pairwise distance enumeration.
type PairDistance struct {
	Pair
	Distance float64
}

// PairwiseDistances enumerates all unordered pairs in i-ascending then
// j-ascending order.
func PairwiseDistances(points []vectortypes.F32, metric vectortypes.DistanceType) ([]PairDistance, error) {
	n := len(points)
	if n < 2 {
		return nil, nil
	}

	distFunc := vectortypes.GetDistanceFuncByType(metric)
	out := make([]PairDistance, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d, err := distFunc(points[i], points[j])
			if err != nil {
				return nil, err
			}
			out = append(out, PairDistance{Pair: Pair{I: i, J: j}, Distance: d})
		}
	}
	return out, nil
}

// MaxPairwiseDistance returns the largest pairwise distance and its pair.
// Fewer than two points yield (0, nil). Ties keep the first pair enumerated.
func MaxPairwiseDistance(points []vectortypes.F32, metric vectortypes.DistanceType) (float64, *Pair, error) {
	distances, err := PairwiseDistances(points, metric)
	if err != nil || len(distances) == 0 {
		return 0, nil, err
	}

	best := distances[0]
	for _, pd := range distances[1:] {
		if pd.Distance > best.Distance {
			best = pd
		}
	}
	pair := best.Pair
	return best.Distance, &pair, nil
}

// RankedPairwiseDistances assigns ranks 1..C(n,2) by ascending distance.
// ranks[k] belongs to the k-th pair in enumeration order; equal distances
// keep enumeration order.
func RankedPairwiseDistances(points []vectortypes.F32, metric vectortypes.DistanceType) ([]float64, float64, *Pair, error) {
	distances, err := PairwiseDistances(points, metric)
	if err != nil || len(distances) == 0 {
		return nil, 0, nil, err
	}

	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]].Distance < distances[order[b]].Distance
	})

	ranks := make([]float64, len(distances))
	for position, idx := range order {
		ranks[idx] = float64(position + 1)
	}

	last := distances[order[len(order)-1]]
	maxDistance := last.Distance
	// The maximum pair follows MaxPairwiseDistance's first-encountered rule.
	pair := last.Pair
	for _, pd := range distances {
		if pd.Distance == maxDistance {
			pair = pd.Pair
			break
		}
	}
	return ranks, maxDistance, &pair, nil
}
