package graph

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// threeSamples returns unit vectors with cosine distances
// d(0,1)=0.10, d(0,2)=0.20, d(1,2)=0.05.
func threeSamples() []vectortypes.Sample {
	cos01, cos02, cos12 := 0.90, 0.80, 0.95
	sin01 := math.Sqrt(1 - cos01*cos01)
	y := (cos12 - cos02*cos01) / sin01
	z := math.Sqrt(1 - cos02*cos02 - y*y)

	return []vectortypes.Sample{
		{ID: "s0", Vector: vectortypes.F32{1, 0, 0}},
		{ID: "s1", Vector: vectortypes.F32{float32(cos01), float32(sin01), 0}},
		{ID: "s2", Vector: vectortypes.F32{float32(cos02), float32(y), float32(z)}},
	}
}

func TestBuild_ThresholdEdges(t *testing.T) {
	samples := threeSamples()

	d01, _ := vectortypes.CosineDistance(samples[0].Vector, samples[1].Vector)
	d02, _ := vectortypes.CosineDistance(samples[0].Vector, samples[2].Vector)
	d12, _ := vectortypes.CosineDistance(samples[1].Vector, samples[2].Vector)
	require.InDelta(t, 0.10, d01, 1e-5)
	require.InDelta(t, 0.20, d02, 1e-5)
	require.InDelta(t, 0.05, d12, 1e-5)

	g, err := Build(samples, DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, 2, g.EdgeCount())
	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, 0, edges[0].From)
	assert.Equal(t, 1, edges[0].To)
	assert.Equal(t, 1, edges[1].From)
	assert.Equal(t, 2, edges[1].To)

	_, ok := g.Weight(0, 2)
	assert.False(t, ok)
}

func TestBuild_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]vectortypes.Sample, 12)
	for i := range samples {
		v := make(vectortypes.F32, 4)
		for j := range v {
			v[j] = 1 + 0.3*rng.Float32()
		}
		samples[i] = vectortypes.Sample{ID: string(rune('a' + i)), Vector: v}
	}

	g, err := Build(samples, DefaultThreshold)
	require.NoError(t, err)
	require.Positive(t, g.EdgeCount())

	for i, node := range g.Nodes {
		for _, c := range node.Connections {
			assert.NotEqual(t, i, c.Neighbor)
			back, ok := g.Weight(c.Neighbor, i)
			require.True(t, ok, "missing reverse edge %d->%d", c.Neighbor, i)
			assert.Equal(t, c.Weight, back)
			assert.Less(t, c.Weight, DefaultThreshold)
		}
	}
}

func TestBuild_IgnoresTier(t *testing.T) {
	samples := []vectortypes.Sample{
		{ID: "a", Vector: vectortypes.F32{1, 0}, Tier: vectortypes.TierBase},
		{ID: "b", Vector: vectortypes.F32{1, 0.01}, Tier: vectortypes.TierPrimary},
	}
	g, err := Build(samples, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuild_DimensionMismatch(t *testing.T) {
	samples := []vectortypes.Sample{
		{ID: "a", Vector: vectortypes.F32{1, 0}},
		{ID: "b", Vector: vectortypes.F32{1}},
	}
	_, err := Build(samples, DefaultThreshold)
	assert.ErrorIs(t, err, vectortypes.ErrDimensionMismatch)
}

func TestShortestPath_Disconnected(t *testing.T) {
	g := &Graph{Nodes: make([]Node, 4)}
	g.addEdge(0, 1, 0.1)
	g.addEdge(2, 3, 0.1)

	p, err := ShortestPath(g, 0, 3)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestShortestPath_PrefersLighterDetour(t *testing.T) {
	g := &Graph{Nodes: make([]Node, 4)}
	g.addEdge(0, 3, 0.14)
	g.addEdge(0, 1, 0.02)
	g.addEdge(1, 2, 0.03)
	g.addEdge(2, 3, 0.04)

	p, err := ShortestPath(g, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, p)

	weights, err := PathWeights(g, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.02, 0.03, 0.04}, weights)
}

func TestShortestPath_Endpoints(t *testing.T) {
	g := &Graph{Nodes: make([]Node, 2)}

	p, err := ShortestPath(g, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p)

	_, err = ShortestPath(g, 0, 5)
	assert.ErrorIs(t, err, ErrNodeOutOfRange)
}

func TestPathWeights_MissingEdge(t *testing.T) {
	g := &Graph{Nodes: make([]Node, 3)}
	g.addEdge(0, 1, 0.1)

	_, err := PathWeights(g, []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrMissingEdge)

	weights, err := PathWeights(g, []int{0})
	require.NoError(t, err)
	assert.Empty(t, weights)
}

// bruteForceCost enumerates every simple path from start to end.
func bruteForceCost(g *Graph, start, end int) float64 {
	best := math.Inf(1)
	visited := make([]bool, g.Len())
	var walk func(node int, cost float64)
	walk = func(node int, cost float64) {
		if node == end {
			best = math.Min(best, cost)
			return
		}
		visited[node] = true
		for _, c := range g.Nodes[node].Connections {
			if !visited[c.Neighbor] {
				walk(c.Neighbor, cost+c.Weight)
			}
		}
		visited[node] = false
	}
	walk(start, 0)
	return best
}

func TestShortestPath_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(7) // 2..8 nodes
		g := &Graph{Nodes: make([]Node, n)}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < 0.45 {
					g.addEdge(i, j, 0.15*rng.Float64())
				}
			}
		}

		start, end := rng.Intn(n), rng.Intn(n)
		want := bruteForceCost(g, start, end)

		p, err := ShortestPath(g, start, end)
		require.NoError(t, err)

		if math.IsInf(want, 1) {
			assert.Nil(t, p, "trial %d: expected no path %d->%d", trial, start, end)
			continue
		}

		require.NotNil(t, p, "trial %d: expected a path %d->%d", trial, start, end)
		assert.Equal(t, start, p[0])
		assert.Equal(t, end, p[len(p)-1])

		got, err := PathCost(g, p)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, "trial %d", trial)
	}
}

func TestBucketWeight(t *testing.T) {
	tests := []struct {
		weight float64
		want   Bucket
		stroke float64
		char   string
	}{
		{0.14, Thin, 1, "-"},
		{0.125, Thin, 1, "-"},
		{0.1, Medium, 2, "="},
		{0.0625, Medium, 2, "="},
		{0.01, Thick, 4, "≡"},
	}

	for _, tt := range tests {
		b := BucketWeight(tt.weight, DefaultBucketThresholds)
		assert.Equal(t, tt.want, b, "weight %v", tt.weight)
		assert.Equal(t, tt.stroke, b.StrokeWidth())
		assert.Equal(t, tt.char, b.Character())
	}
	assert.Equal(t, "medium", Medium.String())
}
