package components

import (
	"sort"

	"github.com/ritzau/movie-graph/pkg/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// Component is one connected group of movies
type Component struct {
	Members []string `json:"members"` // Node ids in adjacency order
}

// Find returns the connected components of the adjacency index.
// Components are ordered by their first member in adjacency key order, and
// members follow the same order, so the result is stable across calls.
func Find(adj *graph.Adjacency) []Component {
	result := make([]Component, 0)
	if adj.Len() == 0 {
		return result
	}

	position := make(map[string]int, adj.Len())
	for i, id := range adj.Keys() {
		position[id] = i
	}

	mirror := graph.AdjacencyToGonum(adj)
	for _, nodes := range topo.ConnectedComponents(mirror.Graph()) {
		members := mirror.Labels(nodes)
		sort.Slice(members, func(i, j int) bool {
			return position[members[i]] < position[members[j]]
		})
		result = append(result, Component{Members: members})
	}

	sort.Slice(result, func(i, j int) bool {
		return position[result[i].Members[0]] < position[result[j].Members[0]]
	})
	return result
}

// Count returns the number of connected components
func Count(adj *graph.Adjacency) int {
	if adj.Len() == 0 {
		return 0
	}
	mirror := graph.AdjacencyToGonum(adj)
	return len(topo.ConnectedComponents(mirror.Graph()))
}
