package graph

import (
	"fmt"

	"github.com/ritzau/movie-graph/pkg/layout"
	"github.com/ritzau/movie-graph/pkg/model"
)

// membership records which of the caller's id sets a movie belongs to
type membership struct {
	selected    bool
	recommended bool
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// BuildGraph derives the full node and edge set from a movie collection.
// positions may be nil; missing entries are filled by layout.Resolve.
func BuildGraph(movies []model.Movie, selectedIDs, recommendedIDs []int, positions layout.Positions) *model.Graph {
	return &model.Graph{
		Nodes: BuildNodes(movies, selectedIDs, recommendedIDs, positions),
		Edges: BuildEdges(movies, selectedIDs, recommendedIDs),
	}
}

// BuildNodes creates one node per movie, in input order
func BuildNodes(movies []model.Movie, selectedIDs, recommendedIDs []int, positions layout.Positions) []model.Node {
	nodes := make([]model.Node, 0, len(movies))
	if len(movies) == 0 {
		return nodes
	}

	selected := idSet(selectedIDs)
	recommended := idSet(recommendedIDs)
	resolved := layout.Resolve(movies, positions)

	for _, movie := range movies {
		id := movie.NodeID()
		isSelected := selected[movie.ID]
		nodes = append(nodes, model.Node{
			ID:          id,
			Movie:       movie,
			Selected:    isSelected,
			Recommended: recommended[movie.ID] && !isSelected,
			Position:    resolved[id],
		})
	}
	return nodes
}

// BuildEdges connects every pair of movies that shares at least one genre.
// Pairs are visited as (i, j) with i < j in input order, so the edge list and
// everything derived from it is deterministic.
func BuildEdges(movies []model.Movie, selectedIDs, recommendedIDs []int) []model.Edge {
	edges := make([]model.Edge, 0)

	selected := idSet(selectedIDs)
	recommended := idSet(recommendedIDs)

	for i := 0; i < len(movies); i++ {
		first := movies[i]
		firstMembership := membership{selected: selected[first.ID], recommended: recommended[first.ID]}

		for j := i + 1; j < len(movies); j++ {
			second := movies[j]

			common := CommonGenres(first.GenreIDs, second.GenreIDs)
			if len(common) == 0 {
				continue
			}

			secondMembership := membership{selected: selected[second.ID], recommended: recommended[second.ID]}
			edges = append(edges, model.Edge{
				ID:           fmt.Sprintf("edge-%d-%d", first.ID, second.ID),
				Source:       first.NodeID(),
				Target:       second.NodeID(),
				CommonGenres: common,
				Strength:     len(common),
				Style:        EdgeStyleFor(firstMembership.selected, firstMembership.recommended, secondMembership.selected, secondMembership.recommended),
			})
		}
	}

	return edges
}

// CommonGenres returns the genres present in both lists, in the order of a.
// Each genre is reported once.
func CommonGenres(a, b []int) []int {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	inB := idSet(b)
	seen := make(map[int]bool, len(a))
	var common []int
	for _, genre := range a {
		if inB[genre] && !seen[genre] {
			seen[genre] = true
			common = append(common, genre)
		}
	}
	return common
}

// EdgeStyleFor picks the edge style from the membership of both endpoints.
// Precedence: both selected, selected+recommended, any recommended, any
// selected, default.
func EdgeStyleFor(aSelected, aRecommended, bSelected, bRecommended bool) model.EdgeStyle {
	switch {
	case aSelected && bSelected:
		return model.EdgeStyle{Category: model.EdgeBothSelected, Stroke: "#ea384c", Width: 2, Animated: true}
	case (aSelected && bRecommended) || (aRecommended && bSelected):
		return model.EdgeStyle{Category: model.EdgeSelectedRecommended, Stroke: "#3b82f6", Width: 1.5, Animated: true}
	case aRecommended || bRecommended:
		return model.EdgeStyle{Category: model.EdgeRecommended, Stroke: "#60a5fa", Width: 1}
	case aSelected || bSelected:
		return model.EdgeStyle{Category: model.EdgeSelected, Stroke: "#9ca3af", Width: 1}
	default:
		return model.EdgeStyle{Category: model.EdgeDefault, Stroke: "#d1d5db", Width: 1}
	}
}
