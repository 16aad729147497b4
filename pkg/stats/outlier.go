package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// zeroSpread is the standard deviation below which centroid distances are
// treated as identical.
const zeroSpread = 1e-12

// Centroid returns the coordinate-wise mean of the points. Every point must
// share the first point's dimension.
func Centroid(points []vectortypes.F32) (vectortypes.F32, error) {
	if len(points) == 0 {
		return nil, nil
	}

	sums := make([]float64, len(points[0]))
	for _, p := range points {
		if err := vectortypes.CheckDimensions(points[0], p); err != nil {
			return nil, err
		}
		for j, v := range p {
			sums[j] += float64(v)
		}
	}

	centroid := make(vectortypes.F32, len(sums))
	for j, s := range sums {
		centroid[j] = float32(s / float64(len(points)))
	}
	return centroid, nil
}

// OutlierZScore finds the point farthest from the centroid and reports its
// z-score against all centroid distances, using the sample standard deviation.
// Fewer than three points, or a cloud where every point is equidistant from
// the centroid, yield (NoIndex, 0).
func OutlierZScore(points []vectortypes.F32, metric vectortypes.DistanceType) (int, float64, error) {
	if len(points) < 3 {
		return NoIndex, 0, nil
	}

	centroid, err := Centroid(points)
	if err != nil {
		return NoIndex, 0, err
	}
	distFunc := vectortypes.GetDistanceFuncByType(metric)

	distances := make([]float64, len(points))
	maxIndex := 0
	for i, p := range points {
		d, err := distFunc(p, centroid)
		if err != nil {
			return NoIndex, 0, err
		}
		distances[i] = d
		if d > distances[maxIndex] {
			maxIndex = i
		}
	}

	mean, stdDev := stat.MeanStdDev(distances, nil)
	if stdDev < zeroSpread {
		return NoIndex, 0, nil
	}
	return maxIndex, (distances[maxIndex] - mean) / stdDev, nil
}
