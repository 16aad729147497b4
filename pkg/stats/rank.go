package stats

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLengthMismatch is returned when rank arrays of different lengths are correlated.
var ErrLengthMismatch = errors.New("rank arrays must be of the same length")

// Rank returns fractional ranks starting at 1. Equal values share the mean of
// the positions they jointly occupy, so [10 20 20 30] ranks as [1 2.5 2.5 4].
func Rank(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for start := 0; start < n; {
		end := start + 1
		for end < n && values[order[end]] == values[order[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[order[k]] = avg
		}
		start = end
	}
	return ranks
}

// Spearman computes 1 - 6*sum(d^2) / (n*(n^2-1)) over two rank arrays.
// Fewer than two ranks carry no ordering and yield 0.
func Spearman(ranksX, ranksY []float64) (float64, error) {
	if len(ranksX) != len(ranksY) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(ranksX), len(ranksY))
	}

	n := float64(len(ranksX))
	if n < 2 {
		return 0, nil
	}

	var sumDSquared float64
	for i := range ranksX {
		d := ranksX[i] - ranksY[i]
		sumDSquared += d * d
	}
	return 1 - (6*sumDSquared)/(n*(n*n-1)), nil
}

// SpearmanFromValues ranks both inputs with Rank before correlating them.
func SpearmanFromValues(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	return Spearman(Rank(x), Rank(y))
}
