package graph

import "github.com/ritzau/movie-graph/pkg/model"

// Diff is the difference between two builds of the movie graph
type Diff struct {
	AddedNodes    []model.Node `json:"addedNodes"`
	RemovedNodes  []string     `json:"removedNodes"`  // Node IDs
	ModifiedNodes []model.Node `json:"modifiedNodes"` // Nodes whose movie or flags changed
	AddedEdges    []model.Edge `json:"addedEdges"`
	RemovedEdges  []string     `json:"removedEdges"`  // Edge IDs
	ModifiedEdges []model.Edge `json:"modifiedEdges"` // Edges whose genres or style changed
	FullGraph     bool         `json:"fullGraph"`     // True if there was nothing to diff against
}

// Empty reports whether nothing changed
func (d *Diff) Empty() bool {
	return !d.FullGraph &&
		len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 && len(d.ModifiedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0 && len(d.ModifiedEdges) == 0
}

// ComputeDiff computes the difference between two graphs. Results follow
// the node and edge order of the graph they come from.
func ComputeDiff(previous, current *model.Graph) *Diff {
	if current == nil {
		current = &model.Graph{}
	}

	// If no previous graph, return full graph
	if previous == nil {
		return &Diff{
			AddedNodes: current.Nodes,
			AddedEdges: current.Edges,
			FullGraph:  true,
		}
	}

	diff := &Diff{
		AddedNodes:    make([]model.Node, 0),
		RemovedNodes:  make([]string, 0),
		ModifiedNodes: make([]model.Node, 0),
		AddedEdges:    make([]model.Edge, 0),
		RemovedEdges:  make([]string, 0),
		ModifiedEdges: make([]model.Edge, 0),
	}

	oldNodes := make(map[string]model.Node, len(previous.Nodes))
	for _, node := range previous.Nodes {
		oldNodes[node.ID] = node
	}
	newNodes := make(map[string]bool, len(current.Nodes))
	for _, node := range current.Nodes {
		newNodes[node.ID] = true
		if oldNode, exists := oldNodes[node.ID]; !exists {
			diff.AddedNodes = append(diff.AddedNodes, node)
		} else if !nodesEqual(oldNode, node) {
			diff.ModifiedNodes = append(diff.ModifiedNodes, node)
		}
	}
	for _, node := range previous.Nodes {
		if !newNodes[node.ID] {
			diff.RemovedNodes = append(diff.RemovedNodes, node.ID)
		}
	}

	oldEdges := make(map[string]model.Edge, len(previous.Edges))
	for _, edge := range previous.Edges {
		oldEdges[edge.ID] = edge
	}
	newEdges := make(map[string]bool, len(current.Edges))
	for _, edge := range current.Edges {
		newEdges[edge.ID] = true
		if oldEdge, exists := oldEdges[edge.ID]; !exists {
			diff.AddedEdges = append(diff.AddedEdges, edge)
		} else if !edgesEqual(oldEdge, edge) {
			diff.ModifiedEdges = append(diff.ModifiedEdges, edge)
		}
	}
	for _, edge := range previous.Edges {
		if !newEdges[edge.ID] {
			diff.RemovedEdges = append(diff.RemovedEdges, edge.ID)
		}
	}

	return diff
}

// nodesEqual compares everything except position, which changes during layout
func nodesEqual(a, b model.Node) bool {
	return a.ID == b.ID &&
		a.Selected == b.Selected &&
		a.Recommended == b.Recommended &&
		a.Movie.Title == b.Movie.Title &&
		intsEqual(a.Movie.GenreIDs, b.Movie.GenreIDs)
}

func edgesEqual(a, b model.Edge) bool {
	return a.Source == b.Source &&
		a.Target == b.Target &&
		a.Style == b.Style &&
		intsEqual(a.CommonGenres, b.CommonGenres)
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
