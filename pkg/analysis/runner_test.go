package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/ritzau/movie-graph/pkg/model"
	"github.com/ritzau/movie-graph/pkg/pubsub"
)

// recordingPublisher keeps published event types per topic
type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(map[string][]string)}
}

func (p *recordingPublisher) Subscribe(ctx context.Context, topic string) (pubsub.Subscription, error) {
	return nil, nil
}

func (p *recordingPublisher) Publish(topic string, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[topic] = append(p.events[topic], eventType)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[topic])
}

func TestAnalyzerPublishes(t *testing.T) {
	pub := newRecordingPublisher()
	analyzer := NewAnalyzer(pub)

	if _, err := analyzer.Analyze(context.Background(), Request{Movies: scenarioMovies()}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got := pub.events[pubsub.TopicAnalysis]; len(got) != 2 || got[0] != "running" || got[1] != "complete" {
		t.Errorf("Expected running then complete, got %v", got)
	}
	if pub.count(pubsub.TopicGraph) != 1 {
		t.Errorf("Expected one graph event, got %d", pub.count(pubsub.TopicGraph))
	}
}

func TestAnalyzerSkipsUnchangedInput(t *testing.T) {
	pub := newRecordingPublisher()
	analyzer := NewAnalyzer(pub)
	ctx := context.Background()

	first, err := analyzer.Analyze(ctx, Request{Movies: scenarioMovies(), Selected: []int{1}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// Same movies and selection again
	second, err := analyzer.Analyze(ctx, Request{Movies: scenarioMovies(), Selected: []int{1}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if first != second {
		t.Error("Expected the cached report for unchanged input")
	}
	if pub.count(pubsub.TopicGraph) != 1 {
		t.Errorf("Expected no new graph event, got %d", pub.count(pubsub.TopicGraph))
	}

	third, err := analyzer.Analyze(ctx, Request{Movies: scenarioMovies(), Selected: []int{2}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if third == first {
		t.Error("Expected a new report after the selection changed")
	}
	if analyzer.Last() != third {
		t.Error("Last() should return the latest report")
	}
}

func TestAnalyzerRerunsOnNewEndpoints(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx := context.Background()

	first, _ := analyzer.Analyze(ctx, Request{Movies: cliqueMovies()})
	second, _ := analyzer.Analyze(ctx, Request{Movies: cliqueMovies(), Start: "3"})

	if first == second {
		t.Fatal("Expected a new report for a different start")
	}
	if second.Start != "3" {
		t.Errorf("Expected start 3, got %s", second.Start)
	}
}

func TestAnalyzerKeepsPositions(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx := context.Background()

	first, _ := analyzer.Analyze(ctx, Request{Movies: scenarioMovies()})
	first.Positions["1"] = model.Position{X: 1, Y: 2}

	second, _ := analyzer.Analyze(ctx, Request{Movies: scenarioMovies(), Selected: []int{1}})
	if got := second.Positions["1"]; got != (model.Position{X: 1, Y: 2}) {
		t.Errorf("Expected previous position to be kept, got %+v", got)
	}
}

func TestAnalyzerCancelled(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := analyzer.Analyze(ctx, Request{Movies: scenarioMovies()}); err == nil {
		t.Error("Expected error for a cancelled context")
	}
	if analyzer.Last() != nil {
		t.Error("Expected no report after a cancelled run")
	}
}

func TestAnalyzerReset(t *testing.T) {
	pub := newRecordingPublisher()
	analyzer := NewAnalyzer(pub)
	ctx := context.Background()

	analyzer.Analyze(ctx, Request{Movies: scenarioMovies()})
	analyzer.Reset()
	analyzer.Analyze(ctx, Request{Movies: scenarioMovies()})

	if pub.count(pubsub.TopicGraph) != 2 {
		t.Errorf("Expected a rerun after Reset, got %d graph events", pub.count(pubsub.TopicGraph))
	}
}

func TestAnalyzerComputesChanges(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx := context.Background()

	first, _ := analyzer.Analyze(ctx, Request{Movies: scenarioMovies()})
	if first.Changes == nil || !first.Changes.FullGraph {
		t.Fatal("Expected the first run to report a full graph")
	}

	second, _ := analyzer.Analyze(ctx, Request{Movies: scenarioMovies(), Selected: []int{2}})
	if second.Changes.FullGraph {
		t.Error("Expected a diff against the previous run")
	}
	if len(second.Changes.ModifiedNodes) != 1 || second.Changes.ModifiedNodes[0].ID != "2" {
		t.Errorf("Expected node 2 to be modified, got %+v", second.Changes.ModifiedNodes)
	}
}

func TestAnalyzerRerunsOnGenreChange(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx := context.Background()

	first, _ := analyzer.Analyze(ctx, Request{Movies: []model.Movie{
		{ID: 1, GenreIDs: []int{1}},
		{ID: 2, GenreIDs: []int{2}},
	}})
	if first.Connected {
		t.Fatal("Expected movies without shared genres to be disconnected")
	}

	second, _ := analyzer.Analyze(ctx, Request{Movies: []model.Movie{
		{ID: 1, GenreIDs: []int{1}},
		{ID: 2, GenreIDs: []int{1}},
	}})
	if second == first {
		t.Fatal("Expected a new report after genres changed")
	}
	if !second.Connected || len(second.Graph.Edges) != 1 {
		t.Errorf("Expected one edge after the genre edit, got %d (connected=%v)", len(second.Graph.Edges), second.Connected)
	}
}

func TestAnalyzerRerunsOnMovieOrder(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	ctx := context.Background()

	movies := []model.Movie{
		{ID: 1, GenreIDs: []int{1}},
		{ID: 2, GenreIDs: []int{1}},
		{ID: 3, GenreIDs: []int{1}},
	}
	first, _ := analyzer.Analyze(ctx, Request{Movies: movies})

	reordered := []model.Movie{movies[2], movies[0], movies[1]}
	second, _ := analyzer.Analyze(ctx, Request{Movies: reordered})
	if second == first {
		t.Fatal("Expected a new report after the movies were reordered")
	}
	if second.Start != "3" || second.DFS[0] != "3" {
		t.Errorf("Expected traversal to start at the new first movie, got start=%s dfs=%v", second.Start, second.DFS)
	}
}
