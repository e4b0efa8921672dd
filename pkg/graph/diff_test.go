package graph

import (
	"reflect"
	"testing"

	"github.com/ritzau/movie-graph/pkg/model"
)

func TestComputeDiffFullGraph(t *testing.T) {
	current := BuildGraph(sampleMovies(), nil, nil, nil)

	diff := ComputeDiff(nil, current)
	if !diff.FullGraph {
		t.Error("Expected a full graph without a previous build")
	}
	if len(diff.AddedNodes) != len(current.Nodes) || len(diff.AddedEdges) != len(current.Edges) {
		t.Errorf("Expected everything to be added, got %d nodes and %d edges", len(diff.AddedNodes), len(diff.AddedEdges))
	}
	if diff.Empty() {
		t.Error("A full graph is never empty")
	}
}

func TestComputeDiffUnchanged(t *testing.T) {
	previous := BuildGraph(sampleMovies(), []int{1}, nil, nil)
	current := BuildGraph(sampleMovies(), []int{1}, nil, nil)
	current.Nodes[0].Position = model.Position{X: 1, Y: 1}

	if diff := ComputeDiff(previous, current); !diff.Empty() {
		t.Errorf("Expected no changes, got %+v", diff)
	}
}

func TestComputeDiffSelectionChange(t *testing.T) {
	previous := BuildGraph(sampleMovies(), nil, nil, nil)
	current := BuildGraph(sampleMovies(), []int{1}, nil, nil)

	diff := ComputeDiff(previous, current)
	if len(diff.ModifiedNodes) != 1 || diff.ModifiedNodes[0].ID != "1" {
		t.Errorf("Expected node 1 to be modified, got %+v", diff.ModifiedNodes)
	}
	if len(diff.ModifiedEdges) == 0 {
		t.Error("Expected edges of node 1 to change style")
	}
	if len(diff.AddedNodes) != 0 || len(diff.RemovedEdges) != 0 {
		t.Errorf("Unexpected structural changes: %+v", diff)
	}
}

func TestComputeDiffMoviesChanged(t *testing.T) {
	previous := BuildGraph([]model.Movie{
		{ID: 1, GenreIDs: []int{1}},
		{ID: 2, GenreIDs: []int{1}},
	}, nil, nil, nil)
	current := BuildGraph([]model.Movie{
		{ID: 1, GenreIDs: []int{1}},
		{ID: 3, GenreIDs: []int{1}},
	}, nil, nil, nil)

	diff := ComputeDiff(previous, current)
	if !reflect.DeepEqual(diff.RemovedNodes, []string{"2"}) {
		t.Errorf("RemovedNodes = %v, want [2]", diff.RemovedNodes)
	}
	if len(diff.AddedNodes) != 1 || diff.AddedNodes[0].ID != "3" {
		t.Errorf("AddedNodes = %+v, want node 3", diff.AddedNodes)
	}
	if !reflect.DeepEqual(diff.RemovedEdges, []string{"edge-1-2"}) {
		t.Errorf("RemovedEdges = %v, want [edge-1-2]", diff.RemovedEdges)
	}
	if len(diff.AddedEdges) != 1 || diff.AddedEdges[0].ID != "edge-1-3" {
		t.Errorf("AddedEdges = %+v, want edge-1-3", diff.AddedEdges)
	}
}
