package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ritzau/movie-graph/pkg/analysis"
	"github.com/ritzau/movie-graph/pkg/catalog"
	"github.com/ritzau/movie-graph/pkg/model"
	"github.com/ritzau/movie-graph/pkg/pubsub"
)

func newTestServer(t *testing.T) (*Server, *pubsub.SSEPublisher) {
	t.Helper()
	pub := pubsub.NewSSEPublisher()
	t.Cleanup(func() { pub.Close() })

	s := NewServer(analysis.NewAnalyzer(pub), pub)
	s.SetCatalog(catalog.New([]model.Movie{
		{ID: 1, Title: "A", GenreIDs: []int{1, 2}},
		{ID: 2, Title: "B", GenreIDs: []int{2, 3}},
		{ID: 3, Title: "C", GenreIDs: []int{4}},
		{ID: 4, Title: "D", GenreIDs: []int{3}},
	}))
	s.SetSelection([]int{1}, []int{2})

	if _, err := s.Reanalyze(context.Background()); err != nil {
		t.Fatalf("Reanalyze() error = %v", err)
	}
	return s, pub
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGraph(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/api/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request id header")
	}

	var g model.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 2 {
		t.Errorf("Expected 4 nodes and 2 edges, got %d and %d", len(g.Nodes), len(g.Edges))
	}
	if g.Edges[0].Style.Category != model.EdgeSelectedRecommended {
		t.Errorf("Expected selected-recommended style, got %s", g.Edges[0].Style.Category)
	}
}

func TestHandleGraphNotReady(t *testing.T) {
	pub := pubsub.NewSSEPublisher()
	defer pub.Close()
	s := NewServer(analysis.NewAnalyzer(pub), pub)

	rec := do(t, s, "GET", "/api/graph", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before the first analysis, got %d", rec.Code)
	}
}

func TestHandleAnalysis(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/api/analysis", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var report map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if report["start"] != "1" || report["connected"] != false {
		t.Errorf("Unexpected report: start=%v connected=%v", report["start"], report["connected"])
	}
}

func TestHandleAnalysisEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/api/analysis?start=4&end=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var report struct {
		Start        string   `json:"start"`
		DFS          []string `json:"dfs"`
		ShortestPath struct {
			Path []string `json:"path"`
		} `json:"shortestPath"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if report.Start != "4" {
		t.Errorf("Expected start 4, got %s", report.Start)
	}
	if !reflect.DeepEqual(report.ShortestPath.Path, []string{"4", "2", "1"}) {
		t.Errorf("Expected path 4 -> 2 -> 1, got %v", report.ShortestPath.Path)
	}

	// The published report keeps its own endpoints
	if s.analyzer.Last().Start != "1" {
		t.Errorf("Ad-hoc query changed the last report")
	}

	if rec := do(t, s, "GET", "/api/analysis?start=99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown start, got %d", rec.Code)
	}
}

func TestHandleShortestPath(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantPath  []string
		reachable bool
	}{
		{"path", "from=1&to=4", http.StatusOK, []string{"1", "2", "4"}, true},
		{"same node", "from=3&to=3", http.StatusOK, []string{"3"}, true},
		{"unreachable", "from=1&to=3", http.StatusOK, []string{}, false},
		{"missing param", "from=1", http.StatusBadRequest, nil, false},
		{"unknown node", "from=1&to=99", http.StatusNotFound, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "GET", "/api/shortest-path?"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("Expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var result struct {
				Path      []string `json:"path"`
				Reachable bool     `json:"reachable"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if !reflect.DeepEqual(result.Path, tt.wantPath) || result.Reachable != tt.reachable {
				t.Errorf("Got %+v, want path %v reachable %v", result, tt.wantPath, tt.reachable)
			}
		})
	}
}

func TestHandleForest(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, "GET", "/api/mst?start=4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var forest ForestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &forest); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(forest.Edges) != 2 {
		t.Errorf("Expected 2 forest edges, got %d", len(forest.Edges))
	}
	if !reflect.DeepEqual(forest.Order, []string{"4", "2", "1"}) {
		t.Errorf("Order = %v, want [4 2 1]", forest.Order)
	}

	if rec := do(t, s, "GET", "/api/mst?start=99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown start, got %d", rec.Code)
	}
}

func TestHandleSelection(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, "PUT", "/api/selection", `{"selected":[3],"recommended":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := s.analyzer.Last().Start; got != "3" {
		t.Errorf("Expected start to follow the new selection, got %s", got)
	}

	if rec := do(t, s, "PUT", "/api/selection", `{"selected":`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
	if rec := do(t, s, "GET", "/api/selection", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}
}

func TestHandleSubscribeUnknownTopic(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := do(t, s, "GET", "/api/subscribe/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown topic, got %d", rec.Code)
	}
}

func TestHandleSubscribeAnalysis(t *testing.T) {
	s, _ := newTestServer(t)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/api/subscribe/analysis", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Subscribe request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	// The latest status is replayed on connect
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event pubsub.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("Invalid event: %v", err)
		}
		if event.Topic != pubsub.TopicAnalysis || event.Type != "complete" {
			t.Errorf("Expected replayed complete event, got %s/%s", event.Topic, event.Type)
		}
		return
	}
	t.Fatalf("Stream ended without an event: %v", scanner.Err())
}
