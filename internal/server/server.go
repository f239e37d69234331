package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"netcheck/internal/models"
	"netcheck/internal/storage"
)

const defaultHistoryLimit = 200

// Server exposes the latest verdicts over HTTP.
type Server struct {
	httpServer   *http.Server
	store        *storage.RecordStore
	live         *LiveFeed
	gatherer     prometheus.Gatherer
	logger       logrus.FieldLogger
	historyLimit int
}

// New creates a configured HTTP server for the checker. historyLimit caps
// how many records /api/history returns; non-positive means the default.
func New(addr string, store *storage.RecordStore, live *LiveFeed, gatherer prometheus.Gatherer, logger logrus.FieldLogger, historyLimit int) *Server {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	s := &Server{
		store:        store,
		live:         live,
		gatherer:     gatherer,
		logger:       logger,
		historyLimit: historyLimit,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleLatest)
		r.Get("/history", s.handleHistory)
		r.Get("/verdict", s.handleVerdict)
		r.Get("/live", s.handleLive)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	record, ok := s.store.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"checked_at": nil,
			"results":    models.ResultSet{},
		})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	writeJSON(w, http.StatusOK, s.store.HistoryN(limit))
}

// handleVerdict returns the verdict message as plain text, with 503 while
// the internet is considered down or before the first cycle completes.
func (s *Server) handleVerdict(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	record, ok := s.store.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("No checks completed yet\n"))
		return
	}
	status := http.StatusOK
	if !record.Verdict.InternetUp {
		status = http.StatusServiceUnavailable
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(record.Verdict.Message + "\n"))
}

// parseLimit reads ?limit= clamped to ceiling; missing or invalid values yield ceiling.
func parseLimit(r *http.Request, ceiling int) int {
	value, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || value <= 0 || value > ceiling {
		return ceiling
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
