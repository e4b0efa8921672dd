package shortestpath

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/ritzau/movie-graph/pkg/graph"
)

// Result is a path from source to target inclusive and its total weight.
// An unreachable target has an empty path and an infinite distance.
type Result struct {
	Path     []string
	Distance float64
}

// Reachable reports whether a path was found
func (r Result) Reachable() bool {
	return !math.IsInf(r.Distance, 1)
}

// MarshalJSON encodes an infinite distance as null, since JSON has no infinity
func (r Result) MarshalJSON() ([]byte, error) {
	payload := struct {
		Path      []string `json:"path"`
		Distance  *float64 `json:"distance"`
		Reachable bool     `json:"reachable"`
	}{
		Path:      r.Path,
		Reachable: r.Reachable(),
	}
	if payload.Path == nil {
		payload.Path = []string{}
	}
	if r.Reachable() {
		distance := r.Distance
		payload.Distance = &distance
	}
	return json.Marshal(payload)
}

func unreachable() Result {
	return Result{Path: []string{}, Distance: math.Inf(1)}
}

// nodeState is the per-node bookkeeping of one Dijkstra run
type nodeState struct {
	distance    float64
	predecessor string
	hasPrev     bool
	visited     bool
}

// ShortestPath finds the minimum-weight path from source to target.
//
// The minimum unvisited node is selected by scanning all nodes (O(V²)) in
// scan order: numeric ids ascending, then other ids in adjacency key order.
// The first node seen wins ties. The search stops as soon as the target is
// selected.
func ShortestPath(adj *graph.Adjacency, weights WeightMap, source, target string) Result {
	if !adj.Has(source) || !adj.Has(target) {
		return unreachable()
	}
	if source == target {
		return Result{Path: []string{source}, Distance: 0}
	}

	keys := scanOrder(adj.Keys())
	states := make(map[string]*nodeState, len(keys))
	for _, id := range keys {
		states[id] = &nodeState{distance: math.Inf(1)}
	}
	states[source].distance = 0

	for {
		current, found := "", false
		best := math.Inf(1)
		for _, id := range keys {
			state := states[id]
			if !state.visited && state.distance < best {
				best = state.distance
				current, found = id, true
			}
		}

		// Remaining nodes are unreachable
		if !found {
			break
		}
		if current == target {
			break
		}

		states[current].visited = true

		for _, neighbor := range adj.Neighbors(current) {
			next := states[neighbor]
			if next.visited {
				continue
			}
			alt := best + weights.Lookup(current, neighbor)
			if alt < next.distance {
				next.distance = alt
				next.predecessor = current
				next.hasPrev = true
			}
		}
	}

	end := states[target]
	if math.IsInf(end.distance, 1) {
		return unreachable()
	}

	// Walk predecessors back to the source, then reverse
	path := []string{target}
	for state := end; state.hasPrev; state = states[state.predecessor] {
		path = append(path, state.predecessor)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return Result{Path: path, Distance: end.distance}
}

// scanOrder lists numeric ids in ascending order followed by the remaining
// ids in their original order. Movie ids are decimal, so in practice this
// is ascending id order.
func scanOrder(keys []string) []string {
	type numericKey struct {
		id    string
		value uint64
	}
	numeric := make([]numericKey, 0, len(keys))
	other := make([]string, 0)
	for _, id := range keys {
		if value, ok := parseIndex(id); ok {
			numeric = append(numeric, numericKey{id: id, value: value})
		} else {
			other = append(other, id)
		}
	}
	sort.Slice(numeric, func(i, j int) bool {
		return numeric[i].value < numeric[j].value
	})

	ordered := make([]string, 0, len(keys))
	for _, key := range numeric {
		ordered = append(ordered, key.id)
	}
	return append(ordered, other...)
}

// parseIndex accepts canonical non-negative decimal integers only, so "07"
// and "-1" are not numeric
func parseIndex(id string) (uint64, bool) {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return 0, false
	}
	value, err := strconv.ParseUint(id, 10, 32)
	if err != nil || value == math.MaxUint32 {
		return 0, false
	}
	return value, true
}
