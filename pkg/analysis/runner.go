package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ritzau/movie-graph/pkg/graph"
	"github.com/ritzau/movie-graph/pkg/logging"
	"github.com/ritzau/movie-graph/pkg/memo"
	"github.com/ritzau/movie-graph/pkg/model"
	"github.com/ritzau/movie-graph/pkg/pubsub"
)

// Analyzer re-runs the pipeline when its input changes and publishes the
// outcome to subscribers
type Analyzer struct {
	publisher pubsub.Publisher
	tracker   memo.Tracker
	mu        sync.Mutex // Prevent concurrent analysis runs
	last      *Report
}

// NewAnalyzer creates an analyzer. The publisher may be nil.
func NewAnalyzer(publisher pubsub.Publisher) *Analyzer {
	return &Analyzer{publisher: publisher}
}

// Last returns the most recent report, or nil before the first run
func (a *Analyzer) Last() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Analyze runs the pipeline for req unless the input is the same as last
// time, in which case the previous report is returned. Positions from the
// previous report are reused when req carries none.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	key := memo.Key(movieIDs(req.Movies), req.Selected, req.Recommended)
	if !a.tracker.Changed(runKey(key, req)) && a.last != nil {
		logging.DebugContext(ctx, "analysis input unchanged", "key", key)
		return a.last, nil
	}

	if req.Positions == nil && a.last != nil {
		req.Positions = a.last.Positions
	}

	logging.InfoContext(ctx, "starting analysis",
		"key", key,
		"movies", len(req.Movies),
		"selected", len(req.Selected),
		"recommended", len(req.Recommended))
	a.publishStatus("running", "Analyzing movie graph...", key)

	report := Run(req)

	var previous *model.Graph
	if a.last != nil {
		previous = a.last.Graph
	}
	report.Changes = graph.ComputeDiff(previous, report.Graph)
	a.last = report

	a.publish(pubsub.TopicGraph, "built", pubsub.GraphSummary{
		Key:           report.Key,
		Nodes:         len(report.Graph.Nodes),
		Edges:         len(report.Graph.Edges),
		Connected:     report.Connected,
		Components:    len(report.Components),
		AddedNodes:    len(report.Changes.AddedNodes),
		RemovedNodes:  len(report.Changes.RemovedNodes),
		ModifiedNodes: len(report.Changes.ModifiedNodes),
		AddedEdges:    len(report.Changes.AddedEdges),
		RemovedEdges:  len(report.Changes.RemovedEdges),
		FullGraph:     report.Changes.FullGraph,
	})
	a.publishStatus("complete", "Analysis complete", key)

	logging.InfoContext(ctx, "analysis complete",
		"key", key,
		"nodes", len(report.Graph.Nodes),
		"edges", len(report.Graph.Edges),
		"connected", report.Connected)
	return report, nil
}

// runKey extends the memo key with everything else that shapes a report:
// movie order, genres and other movie fields, and the requested endpoints
func runKey(key string, req Request) string {
	movies := make([]string, len(req.Movies))
	for i, movie := range req.Movies {
		movies[i] = fmt.Sprintf("%+v", movie)
	}
	return memo.Fingerprint(key, strings.Join(movies, "\n"), req.Start, req.End)
}

// Reset forgets the previous input so the next Analyze always recomputes
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker.Reset()
	a.last = nil
}

func (a *Analyzer) publishStatus(state, message, key string) {
	a.publish(pubsub.TopicAnalysis, state, pubsub.AnalysisStatus{
		State:   state,
		Message: message,
		Key:     key,
	})
}

func (a *Analyzer) publish(topic, eventType string, data interface{}) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(topic, eventType, data); err != nil {
		logging.Warn("failed to publish event", "topic", topic, "type", eventType, "error", err)
	}
}
