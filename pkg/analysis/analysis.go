// Package analysis runs the movie graph pipeline: graph construction,
// traversal, connectivity, shortest path and minimum spanning forest.
package analysis

import (
	"strconv"

	"github.com/ritzau/movie-graph/pkg/components"
	"github.com/ritzau/movie-graph/pkg/graph"
	"github.com/ritzau/movie-graph/pkg/layout"
	"github.com/ritzau/movie-graph/pkg/logging"
	"github.com/ritzau/movie-graph/pkg/memo"
	"github.com/ritzau/movie-graph/pkg/model"
	"github.com/ritzau/movie-graph/pkg/mst"
	"github.com/ritzau/movie-graph/pkg/shortestpath"
	"github.com/ritzau/movie-graph/pkg/traversal"
)

// Request is the input of one pipeline run
type Request struct {
	Movies      []model.Movie
	Selected    []int
	Recommended []int
	Start       string // Traversal and MST start; empty picks a default
	End         string // Shortest path target; empty picks a default
	Positions   layout.Positions
}

// Report holds everything one run computed
type Report struct {
	Key          string                 `json:"key"`
	Graph        *model.Graph           `json:"graph"`
	Connected    bool                   `json:"connected"`
	Components   []components.Component `json:"components"`
	Start        string                 `json:"start"`
	End          string                 `json:"end"`
	DFS          []string               `json:"dfs"`
	BFS          []string               `json:"bfs"`
	HopDistances map[string]int         `json:"hopDistances"` // Hops from the nearest selected movie
	ShortestPath *shortestpath.Result   `json:"shortestPath"`
	Forest       []mst.ForestEdge       `json:"forest"`
	ForestOrder  []string               `json:"forestOrder"`
	ForestWeight float64                `json:"forestWeight"`
	Changes      *graph.Diff            `json:"changes,omitempty"` // Set by Analyzer against the previous run

	Positions layout.Positions `json:"-"`

	adj     *graph.Adjacency
	weights shortestpath.WeightMap
}

// Empty reports whether the run had no movies to work on
func (r *Report) Empty() bool {
	return r == nil || r.Graph == nil || len(r.Graph.Nodes) == 0
}

// Has reports whether id is a node of the analyzed graph
func (r *Report) Has(id string) bool {
	return r != nil && r.adj.Has(id)
}

// ShortestPathBetween runs the shortest path engine on the analyzed graph
// for another pair of endpoints
func (r *Report) ShortestPathBetween(source, target string) shortestpath.Result {
	if r == nil {
		return shortestpath.ShortestPath(nil, nil, source, target)
	}
	return shortestpath.ShortestPath(r.adj, r.weights, source, target)
}

// ForestOrderFrom walks the minimum spanning forest from another start node
func (r *Report) ForestOrderFrom(start string) []string {
	if r == nil {
		return mst.TraversalOrder(nil, start)
	}
	return mst.TraversalOrder(r.Forest, start)
}

// Run executes the whole pipeline synchronously
func Run(req Request) *Report {
	key := memo.Key(movieIDs(req.Movies), req.Selected, req.Recommended)

	if len(req.Movies) == 0 {
		logging.Debug("no movies to analyze", "key", key)
		return &Report{
			Key:       key,
			Graph:     &model.Graph{Nodes: []model.Node{}, Edges: []model.Edge{}},
			Positions: layout.Positions{},
			adj:       graph.NewAdjacency(),
			weights:   shortestpath.WeightMap{},
		}
	}

	positions := layout.Resolve(req.Movies, req.Positions)
	g := graph.BuildGraph(req.Movies, req.Selected, req.Recommended, positions)
	adj := graph.BuildAdjacency(g.Nodes, g.Edges)
	logging.Debug("graph built", "key", key, "nodes", len(g.Nodes), "edges", len(g.Edges))

	start, end := ResolveEndpoints(adj, req.Selected, req.Start, req.End)

	weights := shortestpath.BuildWeightMap(g.Edges)
	path := shortestpath.ShortestPath(adj, weights, start, end)

	forest := mst.MinimumSpanningForest(adj.Keys(), g.Edges)

	report := &Report{
		Key:          key,
		Graph:        g,
		Connected:    traversal.IsConnected(adj),
		Components:   components.Find(adj),
		Start:        start,
		End:          end,
		DFS:          traversal.DFS(adj, start),
		BFS:          traversal.BFS(adj, start),
		HopDistances: traversal.HopDistances(adj, nodeIDs(req.Selected)),
		ShortestPath: &path,
		Forest:       forest,
		ForestOrder:  mst.TraversalOrder(forest, start),
		ForestWeight: mst.TotalWeight(forest),
		Positions:    positions,
		adj:          adj,
		weights:      weights,
	}

	logging.Debug("analysis finished",
		"key", key,
		"connected", report.Connected,
		"components", len(report.Components),
		"reachable", path.Reachable(),
		"forestEdges", len(forest))
	return report
}

// ResolveEndpoints picks the traversal start and shortest path target.
//
// The start defaults to the first selected movie present in the graph, else
// the first node. The end defaults to the first node other than the start,
// else the start itself. Explicit values that are not nodes fall back to
// the defaults. Both are empty only for an empty graph.
func ResolveEndpoints(adj *graph.Adjacency, selected []int, start, end string) (string, string) {
	keys := adj.Keys()
	if len(keys) == 0 {
		return "", ""
	}

	if start != "" && !adj.Has(start) {
		logging.Warn("start node not in graph, using default", "start", start)
		start = ""
	}
	if start == "" {
		for _, id := range nodeIDs(selected) {
			if adj.Has(id) {
				start = id
				break
			}
		}
	}
	if start == "" {
		start = keys[0]
	}

	if end != "" && !adj.Has(end) {
		logging.Warn("end node not in graph, using default", "end", end)
		end = ""
	}
	if end == "" {
		end = start
		for _, id := range keys {
			if id != start {
				end = id
				break
			}
		}
	}

	return start, end
}

func movieIDs(movies []model.Movie) []int {
	ids := make([]int, len(movies))
	for i, movie := range movies {
		ids[i] = movie.ID
	}
	return ids
}

func nodeIDs(ids []int) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = strconv.Itoa(id)
	}
	return result
}
