package traversal

import "github.com/ritzau/movie-graph/pkg/graph"

// BFS returns the breadth-first visit sequence starting at start.
// Nodes are marked visited when enqueued so each is queued once.
func BFS(adj *graph.Adjacency, start string) []string {
	result := make([]string, 0)
	if !adj.Has(start) {
		return result
	}

	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, neighbor := range adj.Neighbors(current) {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return result
}
