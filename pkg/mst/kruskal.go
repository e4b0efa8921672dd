package mst

import (
	"sort"

	"github.com/ritzau/movie-graph/pkg/graph"
	"github.com/ritzau/movie-graph/pkg/model"
	"github.com/ritzau/movie-graph/pkg/traversal"
)

// ForestEdge is an edge accepted into the minimum spanning forest
type ForestEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// MinimumSpanningForest runs Kruskal's algorithm over the edges.
//
// Duplicate unordered pairs keep their first occurrence. Edges are sorted by
// ascending weight (stable, so input order breaks ties) and accepted when
// they join two components. The loop stops after V-1 edges; on a
// disconnected graph it runs out of edges first and yields a forest.
// Edges touching ids outside nodeIDs are ignored.
func MinimumSpanningForest(nodeIDs []string, edges []model.Edge) []ForestEdge {
	forest := make([]ForestEdge, 0)
	if len(nodeIDs) == 0 {
		return forest
	}

	sets := NewDisjointSet(nodeIDs)

	candidates := make([]ForestEdge, 0, len(edges))
	seen := make(map[[2]string]bool, len(edges))
	for _, edge := range edges {
		if !sets.Contains(edge.Source) || !sets.Contains(edge.Target) {
			continue
		}
		if seen[[2]string{edge.Source, edge.Target}] || seen[[2]string{edge.Target, edge.Source}] {
			continue
		}
		seen[[2]string{edge.Source, edge.Target}] = true

		candidates = append(candidates, ForestEdge{
			Source: edge.Source,
			Target: edge.Target,
			Weight: edge.Weight(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight < candidates[j].Weight
	})

	for _, candidate := range candidates {
		if sets.Union(candidate.Source, candidate.Target) {
			forest = append(forest, candidate)
		}
		if len(forest) == len(nodeIDs)-1 {
			break
		}
	}

	return forest
}

// TotalWeight sums the weights of the forest edges
func TotalWeight(forest []ForestEdge) float64 {
	total := 0.0
	for _, edge := range forest {
		total += edge.Weight
	}
	return total
}

// TraversalOrder lists the nodes reachable from start through forest edges
// in depth-first order. A start without forest edges yields just [start].
func TraversalOrder(forest []ForestEdge, start string) []string {
	adj := graph.NewAdjacency()
	for _, edge := range forest {
		adj.AddNode(edge.Source)
		adj.AddNode(edge.Target)
		adj.AddEdge(edge.Source, edge.Target)
	}

	if !adj.Has(start) {
		return []string{start}
	}
	return traversal.DFS(adj, start)
}
