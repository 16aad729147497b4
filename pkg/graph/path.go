package graph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// ErrMissingEdge means a path step has no recorded edge; a path returned by
// ShortestPath never triggers it.
var ErrMissingEdge = errors.New("no edge between consecutive path nodes")

// ErrNodeOutOfRange is returned for path endpoints outside the graph.
var ErrNodeOutOfRange = errors.New("node index out of range")

// ShortestPath runs Dijkstra from start to end and returns the node indices
// along the lightest path, both ends included. It returns nil when end is
// unreachable from start.
func ShortestPath(g *Graph, start, end int) ([]int, error) {
	n := g.Len()
	if start < 0 || start >= n || end < 0 || end >= n {
		return nil, fmt.Errorf("%w: start %d, end %d, nodes %d", ErrNodeOutOfRange, start, end, n)
	}
	if start == end {
		return []int{start}, nil
	}

	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		wg.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.Edges() {
		wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(int64(e.From)), simple.Node(int64(e.To)), e.Weight))
	}

	shortest := path.DijkstraFrom(wg.Node(int64(start)), wg)
	nodes, _ := shortest.To(int64(end))
	if len(nodes) == 0 {
		return nil, nil
	}

	out := make([]int, len(nodes))
	for i, node := range nodes {
		out[i] = int(node.ID())
	}
	return out, nil
}

// PathWeights returns the edge weight of each consecutive step in p.
func PathWeights(g *Graph, p []int) ([]float64, error) {
	if len(p) < 2 {
		return nil, nil
	}

	weights := make([]float64, 0, len(p)-1)
	for i := 0; i < len(p)-1; i++ {
		w, ok := g.Weight(p[i], p[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: %d -> %d", ErrMissingEdge, p[i], p[i+1])
		}
		weights = append(weights, w)
	}
	return weights, nil
}

// PathCost sums the edge weights along p.
func PathCost(g *Graph, p []int) (float64, error) {
	weights, err := PathWeights(g, p)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	return total, nil
}
