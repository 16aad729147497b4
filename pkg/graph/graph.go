// Package graph builds the thresholded cosine similarity graph over a sample
// set and answers weighted shortest-path queries on it.
package graph

import (
	"fmt"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// DefaultThreshold is the cosine distance below which two samples are linked.
const DefaultThreshold = 0.15

// Connection is a weighted link to a neighbor by sample index.
type Connection struct {
	Neighbor int     `json:"neighbor"`
	Weight   float64 `json:"weight"`
}

// Node holds the outgoing connections of one sample.
type Node struct {
	Connections []Connection `json:"connections"`
}

// Edge is an undirected edge reported once, with From < To.
type Edge struct {
	From   int
	To     int
	Weight float64
}

// Graph is an adjacency list indexed by sample position. Every edge is
// stored in both directions with the same weight.
type Graph struct {
	Threshold float64 `json:"threshold"`
	Nodes     []Node  `json:"nodes"`
}

// Build links every pair of samples whose cosine distance is below threshold.
// Each unordered pair is measured once and recorded in both directions.
func Build(samples []vectortypes.Sample, threshold float64) (*Graph, error) {
	g := &Graph{
		Threshold: threshold,
		Nodes:     make([]Node, len(samples)),
	}

	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			weight, err := vectortypes.CosineDistance(samples[i].Vector, samples[j].Vector)
			if err != nil {
				return nil, fmt.Errorf("failed to compare %q and %q: %w", samples[i].ID, samples[j].ID, err)
			}
			if weight < threshold {
				g.addEdge(i, j, weight)
			}
		}
	}
	return g, nil
}

func (g *Graph) addEdge(i, j int, weight float64) {
	g.Nodes[i].Connections = append(g.Nodes[i].Connections, Connection{Neighbor: j, Weight: weight})
	g.Nodes[j].Connections = append(g.Nodes[j].Connections, Connection{Neighbor: i, Weight: weight})
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Weight returns the weight of the edge between i and j, if any.
func (g *Graph) Weight(i, j int) (float64, bool) {
	if i < 0 || i >= len(g.Nodes) {
		return 0, false
	}
	for _, c := range g.Nodes[i].Connections {
		if c.Neighbor == j {
			return c.Weight, true
		}
	}
	return 0, false
}

// Edges lists each undirected edge once, ordered by From then insertion.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i, node := range g.Nodes {
		for _, c := range node.Connections {
			if i < c.Neighbor {
				edges = append(edges, Edge{From: i, To: c.Neighbor, Weight: c.Weight})
			}
		}
	}
	return edges
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, node := range g.Nodes {
		total += len(node.Connections)
	}
	return total / 2
}
