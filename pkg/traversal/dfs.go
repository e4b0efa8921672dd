package traversal

import "github.com/ritzau/movie-graph/pkg/graph"

// DFS returns the depth-first pre-order visit sequence starting at start
func DFS(adj *graph.Adjacency, start string) []string {
	result := make([]string, 0)
	if !adj.Has(start) {
		return result
	}

	visited := make(map[string]bool, adj.Len())
	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		result = append(result, id)

		for _, neighbor := range adj.Neighbors(id) {
			if !visited[neighbor] {
				visit(neighbor)
			}
		}
	}

	visit(start)
	return result
}
