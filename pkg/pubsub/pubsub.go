package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the analysis pipeline
const (
	TopicGraph    = "graph"    // Node/edge set changed
	TopicAnalysis = "analysis" // A new analysis report is available
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "graph", "analysis")
	Type    string          `json:"type"`    // Event type (e.g., "running", "complete", "error")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// GraphSummary describes the node/edge set of the latest build and how it
// differs from the one before
type GraphSummary struct {
	Key        string `json:"key"` // Memo key of the input the graph was built from
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Connected  bool   `json:"connected"`
	Components int    `json:"components"`

	AddedNodes    int  `json:"addedNodes"`
	RemovedNodes  int  `json:"removedNodes"`
	ModifiedNodes int  `json:"modifiedNodes"`
	AddedEdges    int  `json:"addedEdges"`
	RemovedEdges  int  `json:"removedEdges"`
	FullGraph     bool `json:"fullGraph"` // No previous build to compare with
}

// AnalysisStatus reports progress of an analysis run
type AnalysisStatus struct {
	State   string `json:"state"`   // running, complete, unchanged, error
	Message string `json:"message"` // Human-readable status message
	Key     string `json:"key"`     // Memo key of the input being analyzed
}
