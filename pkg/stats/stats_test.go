package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

func TestMaxPairwiseDistance_Degenerate(t *testing.T) {
	for _, points := range [][]vectortypes.F32{nil, {{1, 2}}} {
		d, pair, err := MaxPairwiseDistance(points, vectortypes.Euclidean)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
		assert.Nil(t, pair)
	}
}

func TestMaxPairwiseDistance(t *testing.T) {
	points := []vectortypes.F32{
		{0, 0},
		{1, 0},
		{0, 3},
		{1, 3},
	}

	d, pair, err := MaxPairwiseDistance(points, vectortypes.Euclidean)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.InDelta(t, math.Sqrt(10), d, 1e-9)
	// (0,3) and (1,2) tie; the first enumerated pair wins.
	assert.Equal(t, Pair{I: 0, J: 3}, *pair)
}

func TestMaxPairwiseDistance_DimensionMismatch(t *testing.T) {
	_, _, err := MaxPairwiseDistance([]vectortypes.F32{{1, 2}, {1}}, vectortypes.Cosine)
	assert.ErrorIs(t, err, vectortypes.ErrDimensionMismatch)
}

func TestPairwiseDistances_Order(t *testing.T) {
	points := []vectortypes.F32{{0}, {1}, {3}}
	distances, err := PairwiseDistances(points, vectortypes.Euclidean)
	require.NoError(t, err)
	require.Len(t, distances, 3)

	assert.Equal(t, Pair{0, 1}, distances[0].Pair)
	assert.Equal(t, Pair{0, 2}, distances[1].Pair)
	assert.Equal(t, Pair{1, 2}, distances[2].Pair)
	assert.Equal(t, []float64{1, 3, 2}, []float64{distances[0].Distance, distances[1].Distance, distances[2].Distance})
}

func TestRankedPairwiseDistances(t *testing.T) {
	points := []vectortypes.F32{{0}, {1}, {3}}
	ranks, maxDistance, pair, err := RankedPairwiseDistances(points, vectortypes.Euclidean)
	require.NoError(t, err)

	// distances in enumeration order are 1, 3, 2
	assert.Equal(t, []float64{1, 3, 2}, ranks)
	assert.Equal(t, 3.0, maxDistance)
	assert.Equal(t, Pair{0, 2}, *pair)

	ranks, maxDistance, pair, err = RankedPairwiseDistances(points[:1], vectortypes.Euclidean)
	require.NoError(t, err)
	assert.Nil(t, ranks)
	assert.Zero(t, maxDistance)
	assert.Nil(t, pair)
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"Ties", []float64{10, 20, 20, 30}, []float64{1, 2.5, 2.5, 4}},
		{"Unsorted", []float64{3, 1, 2}, []float64{3, 1, 2}},
		{"All Equal", []float64{5, 5, 5}, []float64{2, 2, 2}},
		{"Empty", nil, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.values))
		})
	}
}

func TestSpearman(t *testing.T) {
	ranks := []float64{1, 2, 3, 4, 5}
	reversed := []float64{5, 4, 3, 2, 1}

	rho, err := Spearman(ranks, ranks)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rho, 1e-12)

	rho, err = Spearman(ranks, reversed)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, rho, 1e-12)

	_, err = Spearman(ranks, reversed[:3])
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSpearmanFromValues(t *testing.T) {
	rho, err := SpearmanFromValues([]float64{0.1, 0.5, 0.9}, []float64{10, 50, 90})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rho, 1e-12)

	_, err = SpearmanFromValues([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestOutlierZScore_Degenerate(t *testing.T) {
	idx, z, err := OutlierZScore([]vectortypes.F32{{1, 1}, {2, 2}}, vectortypes.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, NoIndex, idx)
	assert.Zero(t, z)
}

func TestOutlierZScore(t *testing.T) {
	points := []vectortypes.F32{
		{0, 0},
		{0.1, 0},
		{0, 0.1},
		{0.1, 0.1},
		{10, 10},
	}

	idx, z, err := OutlierZScore(points, vectortypes.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
	assert.Greater(t, z, 1.5)
}

func TestOutlierZScore_FirstPointCanBeOutlier(t *testing.T) {
	points := []vectortypes.F32{
		{9, 9},
		{0, 0},
		{0.1, 0},
		{0, 0.1},
	}

	idx, z, err := OutlierZScore(points, vectortypes.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Greater(t, z, 0.0)
}

func TestOutlierZScore_Equidistant(t *testing.T) {
	// Square corners are all equidistant from the centroid.
	points := []vectortypes.F32{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

	idx, z, err := OutlierZScore(points, vectortypes.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, NoIndex, idx)
	assert.Zero(t, z)
}

func TestOutlierZScore_DimensionMismatch(t *testing.T) {
	longer := []vectortypes.F32{{1, 2}, {3, 4, 5}, {6, 7}}
	shorter := []vectortypes.F32{{1, 2}, {3}, {6, 7}}

	for _, points := range [][]vectortypes.F32{longer, shorter} {
		var err error
		assert.NotPanics(t, func() {
			_, _, err = OutlierZScore(points, vectortypes.Euclidean)
		})
		assert.ErrorIs(t, err, vectortypes.ErrDimensionMismatch)
	}
}

func TestCentroid(t *testing.T) {
	c, err := Centroid([]vectortypes.F32{{0, 2}, {2, 4}})
	require.NoError(t, err)
	assert.Equal(t, vectortypes.F32{1, 3}, c)

	c, err = Centroid(nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = Centroid([]vectortypes.F32{{0, 2}, {2, 4, 6}})
	assert.ErrorIs(t, err, vectortypes.ErrDimensionMismatch)
}
