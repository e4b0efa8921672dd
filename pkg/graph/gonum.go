package graph

import (
	"math"

	"github.com/ritzau/movie-graph/pkg/model"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Weighted mirrors the movie graph as a gonum weighted undirected graph so
// that gonum's algorithms can run over it. Node ids are assigned in node order.
type Weighted struct {
	graph  *simple.WeightedUndirectedGraph
	ids    map[string]int64 // Map from node id to gonum ID
	labels map[int64]string // Map from gonum ID back to node id
	nextID int64
}

// NewWeighted creates an empty gonum mirror
func NewWeighted() *Weighted {
	return &Weighted{
		graph:  simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:    make(map[string]int64),
		labels: make(map[int64]string),
	}
}

// ToGonum mirrors nodes and edges. Edge weights are 1/strength. The
// shortest path and spanning forest tests use it to compare against gonum.
func ToGonum(nodes []model.Node, edges []model.Edge) *Weighted {
	w := NewWeighted()
	for _, node := range nodes {
		w.AddNode(node.ID)
	}
	for _, edge := range edges {
		w.SetEdge(edge.Source, edge.Target, edge.Weight())
	}
	return w
}

// AdjacencyToGonum mirrors an adjacency index with unit weights
func AdjacencyToGonum(adj *Adjacency) *Weighted {
	w := NewWeighted()
	for _, id := range adj.Keys() {
		w.AddNode(id)
	}
	for _, id := range adj.Keys() {
		for _, neighbor := range adj.Neighbors(id) {
			w.SetEdge(id, neighbor, 1)
		}
	}
	return w
}

// AddNode adds a node if it is not present yet
func (w *Weighted) AddNode(label string) {
	if _, exists := w.ids[label]; exists {
		return
	}
	w.ids[label] = w.nextID
	w.labels[w.nextID] = label
	w.graph.AddNode(simple.Node(w.nextID))
	w.nextID++
}

// SetEdge sets the undirected edge between two known nodes.
// Self loops and unknown endpoints are ignored.
func (w *Weighted) SetEdge(source, target string, weight float64) {
	from, okFrom := w.ids[source]
	to, okTo := w.ids[target]
	if !okFrom || !okTo || from == to {
		return
	}
	w.graph.SetWeightedEdge(w.graph.NewWeightedEdge(simple.Node(from), simple.Node(to), weight))
}

// Graph returns the underlying gonum graph
func (w *Weighted) Graph() *simple.WeightedUndirectedGraph {
	return w.graph
}

// Node returns the gonum node for a node id, or nil
func (w *Weighted) Node(label string) gonum.Node {
	id, exists := w.ids[label]
	if !exists {
		return nil
	}
	return w.graph.Node(id)
}

// ID returns the gonum ID of a node id
func (w *Weighted) ID(label string) (int64, bool) {
	id, exists := w.ids[label]
	return id, exists
}

// Labels converts gonum nodes back to node ids
func (w *Weighted) Labels(nodes []gonum.Node) []string {
	labels := make([]string, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, w.labels[node.ID()])
	}
	return labels
}
