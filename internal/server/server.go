// Package server implements a development log-search service that answers
// GET /search from a local bbolt event store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/storage"
)

// maxBodySize is the maximum accepted ingest body (10MB).
const maxBodySize = 10 << 20

const msgMissingFilter = "Please provide 'source' or 'contains' query parameter"

type Server struct {
	store   *storage.Store
	limiter *ipRateLimiter
	nextID  atomic.Uint64
}

type Option func(*Server)

// WithIngestLimit sets the per-client ingest rate. A non-positive rate
// disables limiting.
func WithIngestLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newIPRateLimiter(rate.Limit(perSecond), burst)
	}
}

func New(store *storage.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		limiter: newIPRateLimiter(rate.Limit(50), 100),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the service's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(search.SearchPath, s.handleSearch)
	mux.HandleFunc("/ingest", s.handleIngest)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return logRequests(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debuglog.Infof("Search service starting on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	debuglog.Infof("Search service stopped")
	return nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := storage.Filter{
		Source:   r.URL.Query().Get(search.ParamSource),
		Contains: r.URL.Query().Get(search.ParamContains),
	}
	if filter.Source == "" && filter.Contains == "" {
		http.Error(w, msgMissingFilter, http.StatusBadRequest)
		return
	}

	start := time.Now()
	scan, err := s.store.Scan(filter)
	if err != nil {
		debuglog.Errorf("Scan failed: %v", err)
		http.Error(w, "Scan failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, buildResult(scan, time.Since(start)))
}

func buildResult(scan *storage.ScanResult, elapsed time.Duration) *search.Result {
	matches := make([]search.Match, 0, len(scan.Matches))
	for _, e := range scan.Matches {
		matches = append(matches, search.Match{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Source:    e.Source,
			Message:   e.Message,
		})
	}

	return &search.Result{
		Stats: search.Stats{
			ScannedSegments: int64(scan.ScannedSegments),
			ScannedEvents:   int64(scan.ScannedEvents),
			Duration:        elapsed.String(),
			MatchCount:      int64(len(matches)),
		},
		Matches: matches,
	}
}

// ingestEvent is the wire form accepted by /ingest. Ts is Unix
// milliseconds; zero means now.
type ingestEvent struct {
	ID      string `json:"id"`
	Ts      int64  `json:"ts"`
	Message string `json:"msg"`
	Source  string `json:"source,omitempty"`
}

// handleIngest stores a single event or a batch as one new segment.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.limiter != nil && !s.limiter.allow(r) {
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body or body too large", http.StatusBadRequest)
		return
	}

	var batch []ingestEvent
	if err := json.Unmarshal(body, &batch); err != nil {
		var single ingestEvent
		if err := json.Unmarshal(body, &single); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		batch = []ingestEvent{single}
	}

	events := make([]storage.Event, 0, len(batch))
	now := time.Now()
	for i, in := range batch {
		if in.Message == "" {
			http.Error(w, fmt.Sprintf("event %d: msg is required", i), http.StatusBadRequest)
			return
		}
		ts := now
		if in.Ts != 0 {
			ts = time.UnixMilli(in.Ts)
		}
		id := in.ID
		if id == "" {
			id = "ing-" + strconv.FormatUint(s.nextID.Add(1), 10)
		}
		events = append(events, storage.Event{
			ID:        id,
			Timestamp: ts.UTC(),
			Source:    in.Source,
			Message:   in.Message,
		})
	}

	seq, err := s.store.AppendSegment(events)
	if err != nil {
		if errors.Is(err, storage.ErrEmptySegment) {
			http.Error(w, "No events", http.StatusBadRequest)
			return
		}
		debuglog.Errorf("Ingest failed: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	debuglog.WithFields(map[string]interface{}{
		"segment": seq,
		"events":  len(events),
	}).Infof("Segment stored")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"segment": seq,
		"events":  len(events),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debuglog.Warnf("Failed to encode response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		debuglog.WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"query":    r.URL.RawQuery,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debugf("Request served")
	})
}
