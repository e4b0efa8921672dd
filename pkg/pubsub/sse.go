package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/movie-graph/pkg/logging"
)

// subscriberBuffer bounds how far a subscriber may fall behind before older
// events are dropped in favor of newer ones
const subscriberBuffer = 16

// SSEPublisher implements Publisher for Server-Sent Events. It remembers
// the latest event of every topic and hands it to new subscribers first,
// so a client that connects late still sees the current state.
type SSEPublisher struct {
	mu     sync.Mutex
	topics map[string]*topicState
	closed bool
}

// topicState is the per-topic bookkeeping
type topicState struct {
	version     int
	latest      *Event
	subscribers map[*sseSubscription]struct{}
}

// NewSSEPublisher creates a new SSE-based publisher
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		topics: make(map[string]*topicState),
	}
}

// topic returns the state of name, creating it on first use. Callers hold p.mu.
func (p *SSEPublisher) topic(name string) *topicState {
	state, ok := p.topics[name]
	if !ok {
		state = &topicState{subscribers: make(map[*sseSubscription]struct{})}
		p.topics[name] = state
	}
	return state
}

// Subscribe creates a subscription that first receives the latest event of
// the topic, if any. Cancelling ctx closes the subscription.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, subscriberBuffer),
		stop:      make(chan struct{}),
		publisher: p,
	}

	state := p.topic(topic)
	state.subscribers[sub] = struct{}{}
	if state.latest != nil {
		// The channel is new, so this never blocks
		sub.events <- *state.latest
		logging.Debug("replayed latest event to new subscriber", "topic", topic, "version", state.latest.Version)
	}

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.stop:
		}
	}()

	return sub, nil
}

// Publish records the event as the latest of its topic and sends it to all
// subscribers. A subscriber that is behind loses its oldest pending event
// rather than the new one.
func (p *SSEPublisher) Publish(topic string, eventType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	state := p.topic(topic)
	state.version++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    jsonData,
		Version: state.version,
	}
	state.latest = &event

	for sub := range state.subscribers {
		sub.deliver(event)
	}
	return nil
}

// Close shuts down the publisher and ends every subscription
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, state := range p.topics {
		for sub := range state.subscribers {
			sub.end()
		}
		state.subscribers = nil
	}
	return nil
}

// sseSubscription implements Subscription. Its channel is only written and
// closed while the publisher's lock is held.
type sseSubscription struct {
	topic     string
	events    chan Event
	stop      chan struct{} // Closed together with events
	publisher *SSEPublisher
	done      bool
}

// Topic returns the subscription topic
func (s *sseSubscription) Topic() string {
	return s.topic
}

// Events returns a channel for receiving events. It is closed when the
// subscription or the publisher is closed.
func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

// Close ends the subscription
func (s *sseSubscription) Close() error {
	p := s.publisher
	p.mu.Lock()
	defer p.mu.Unlock()

	if state, ok := p.topics[s.topic]; ok {
		delete(state.subscribers, s)
	}
	s.end()
	return nil
}

func (s *sseSubscription) deliver(event Event) {
	select {
	case s.events <- event:
		return
	default:
	}

	select {
	case dropped := <-s.events:
		logging.Warn("subscriber behind, dropping event", "topic", s.topic, "version", dropped.Version)
	default:
	}

	select {
	case s.events <- event:
	default:
		logging.Warn("could not deliver event", "topic", s.topic, "version", event.Version)
	}
}

func (s *sseSubscription) end() {
	if s.done {
		return
	}
	s.done = true
	close(s.events)
	close(s.stop)
}

// WriteSSE writes an event in Server-Sent Events framing: "data: {json}\n\n"
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = fmt.Fprintf(w, "data: %s\n\n", jsonData)
	return err
}
