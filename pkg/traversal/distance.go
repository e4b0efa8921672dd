package traversal

import "github.com/ritzau/movie-graph/pkg/graph"

// distanceQueueNode represents a node in the BFS queue
type distanceQueueNode struct {
	nodeID   string
	distance int
}

// HopDistances computes the number of edges from each node to the nearest
// source. Sources that are not keys are ignored; unreachable nodes are left
// out of the result.
func HopDistances(adj *graph.Adjacency, sources []string) map[string]int {
	distances := make(map[string]int)

	// Initialize BFS queue with sources at distance 0
	queue := []distanceQueueNode{}
	for _, id := range sources {
		if !adj.Has(id) {
			continue
		}
		if _, seen := distances[id]; seen {
			continue
		}
		distances[id] = 0
		queue = append(queue, distanceQueueNode{nodeID: id, distance: 0})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range adj.Neighbors(current.nodeID) {
			if _, exists := distances[neighbor]; !exists {
				distances[neighbor] = current.distance + 1
				queue = append(queue, distanceQueueNode{nodeID: neighbor, distance: current.distance + 1})
			}
		}
	}

	return distances
}
