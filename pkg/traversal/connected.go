package traversal

import "github.com/ritzau/movie-graph/pkg/graph"

// IsConnected reports whether every node is reachable from the first key.
// An empty graph is connected.
func IsConnected(adj *graph.Adjacency) bool {
	if adj.Len() == 0 {
		return true
	}
	return len(DFS(adj, adj.Keys()[0])) == adj.Len()
}
