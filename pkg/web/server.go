package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/ritzau/movie-graph/pkg/analysis"
	"github.com/ritzau/movie-graph/pkg/catalog"
	"github.com/ritzau/movie-graph/pkg/logging"
	"github.com/ritzau/movie-graph/pkg/mst"
	"github.com/ritzau/movie-graph/pkg/pubsub"
)

// Selection is the body of PUT /api/selection
type Selection struct {
	Selected    []int `json:"selected"`
	Recommended []int `json:"recommended"`
}

// ForestResponse is the body of GET /api/mst
type ForestResponse struct {
	Start  string           `json:"start"`
	Edges  []mst.ForestEdge `json:"edges"`
	Order  []string         `json:"order"`
	Weight float64          `json:"weight"`
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	analyzer  *analysis.Analyzer
	publisher pubsub.Publisher

	mu          sync.RWMutex
	catalog     *catalog.Catalog
	selected    []int
	recommended []int
	start       string
	end         string
}

// NewServer creates a new web server that serves the analyzer's results
func NewServer(analyzer *analysis.Analyzer, publisher pubsub.Publisher) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		analyzer:  analyzer,
		publisher: publisher,
		catalog:   catalog.New(nil),
	}
	s.setupRoutes()
	return s
}

// SetCatalog replaces the movie catalog
func (s *Server) SetCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
}

// SetSelection replaces the selected and recommended movie ids
func (s *Server) SetSelection(selected, recommended []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append([]int(nil), selected...)
	s.recommended = append([]int(nil), recommended...)
}

// SetEndpoints sets the default traversal start and shortest path target
func (s *Server) SetEndpoints(start, end string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = start
	s.end = end
}

// Request builds the analysis request for the current state
func (s *Server) Request() analysis.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.Request{
		Movies:      s.catalog.Movies,
		Selected:    s.selected,
		Recommended: s.recommended,
		Start:       s.start,
		End:         s.end,
	}
}

// Reanalyze runs the analyzer on the current state
func (s *Server) Reanalyze(ctx context.Context) (*analysis.Report, error) {
	return s.analyzer.Analyze(ctx, s.Request())
}

// Handler returns the HTTP handler with request logging applied
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/{topic}", s.handleSubscribe).Methods("GET")

	// API routes
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/analysis", s.handleAnalysis).Methods("GET")
	s.router.HandleFunc("/api/shortest-path", s.handleShortestPath).Methods("GET")
	s.router.HandleFunc("/api/mst", s.handleForest).Methods("GET")
	s.router.HandleFunc("/api/selection", s.handleSelection).Methods("PUT")
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if topic != pubsub.TopicAnalysis && topic != pubsub.TopicGraph {
		http.Error(w, fmt.Sprintf("unknown topic %q", topic), http.StatusNotFound)
		return
	}

	// Create subscription
	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

	// Send initial comment to establish connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	flush(w)

	// Stream events
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "error writing SSE event", "topic", topic, "error", err)
				return
			}
			flush(w)
		}
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lastReport(w)
	if !ok {
		return
	}
	writeJSON(w, r, report.Graph)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lastReport(w)
	if !ok {
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		writeJSON(w, r, report)
		return
	}

	for _, id := range []string{start, end} {
		if id != "" && !report.Has(id) {
			http.Error(w, fmt.Sprintf("movie %q not in graph", id), http.StatusNotFound)
			return
		}
	}

	// Ad-hoc endpoints do not replace the published report
	req := s.Request()
	req.Positions = report.Positions
	if start != "" {
		req.Start = start
	}
	if end != "" {
		req.End = end
	}
	writeJSON(w, r, analysis.Run(req))
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lastReport(w)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}
	for _, id := range []string{from, to} {
		if !report.Has(id) {
			http.Error(w, fmt.Sprintf("movie %q not in graph", id), http.StatusNotFound)
			return
		}
	}

	writeJSON(w, r, report.ShortestPathBetween(from, to))
}

func (s *Server) handleForest(w http.ResponseWriter, r *http.Request) {
	report, ok := s.lastReport(w)
	if !ok {
		return
	}

	start := r.URL.Query().Get("start")
	if start == "" {
		start = report.Start
	} else if !report.Has(start) {
		http.Error(w, fmt.Sprintf("movie %q not in graph", start), http.StatusNotFound)
		return
	}

	writeJSON(w, r, ForestResponse{
		Start:  start,
		Edges:  report.Forest,
		Order:  report.ForestOrderFrom(start),
		Weight: report.ForestWeight,
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var selection Selection
	if err := json.NewDecoder(r.Body).Decode(&selection); err != nil {
		http.Error(w, fmt.Sprintf("invalid selection: %v", err), http.StatusBadRequest)
		return
	}

	s.SetSelection(selection.Selected, selection.Recommended)
	logging.InfoContext(r.Context(), "selection updated",
		"selected", len(selection.Selected),
		"recommended", len(selection.Recommended))

	report, err := s.Reanalyze(r.Context())
	if err != nil {
		logging.ErrorContext(r.Context(), "analysis failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, report)
}

// lastReport writes 503 and returns false if nothing was analyzed yet
func (s *Server) lastReport(w http.ResponseWriter) (*analysis.Report, bool) {
	report := s.analyzer.Last()
	if report == nil {
		http.Error(w, "analysis not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Start serves the API on the specified port until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("web server shutdown failed", "error", err)
		}
	}()

	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}
