package graph

import "github.com/ritzau/movie-graph/pkg/model"

// Adjacency is an undirected neighbor index keyed by node id.
// Keys keep insertion order, which is what makes traversal, the
// connectivity check and Dijkstra's tie-breaking deterministic.
type Adjacency struct {
	keys      []string
	neighbors map[string][]string
}

// NewAdjacency creates an empty adjacency index
func NewAdjacency() *Adjacency {
	return &Adjacency{
		keys:      make([]string, 0),
		neighbors: make(map[string][]string),
	}
}

// BuildAdjacency indexes nodes and edges. Every node becomes a key, even
// without edges. Edges referring to unknown nodes are ignored.
func BuildAdjacency(nodes []model.Node, edges []model.Edge) *Adjacency {
	adj := NewAdjacency()
	for _, node := range nodes {
		adj.AddNode(node.ID)
	}
	for _, edge := range edges {
		adj.AddEdge(edge.Source, edge.Target)
	}
	return adj
}

// AddNode registers id with an empty neighbor list if it is not known yet
func (a *Adjacency) AddNode(id string) {
	if _, exists := a.neighbors[id]; exists {
		return
	}
	a.keys = append(a.keys, id)
	a.neighbors[id] = []string{}
}

// AddEdge links source and target in both directions.
// Returns false if either endpoint is not a key.
func (a *Adjacency) AddEdge(source, target string) bool {
	if !a.Has(source) || !a.Has(target) {
		return false
	}
	a.neighbors[source] = append(a.neighbors[source], target)
	a.neighbors[target] = append(a.neighbors[target], source)
	return true
}

// Has reports whether id is a key
func (a *Adjacency) Has(id string) bool {
	if a == nil {
		return false
	}
	_, exists := a.neighbors[id]
	return exists
}

// Keys returns the node ids in insertion order
func (a *Adjacency) Keys() []string {
	if a == nil {
		return nil
	}
	return a.keys
}

// Neighbors returns the neighbors of id in insertion order
func (a *Adjacency) Neighbors(id string) []string {
	if a == nil {
		return nil
	}
	return a.neighbors[id]
}

// Len returns the number of keys
func (a *Adjacency) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}
