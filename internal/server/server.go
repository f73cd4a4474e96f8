// Package server exposes dashboards over HTTP as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/collector"
	"github.com/Shirsha07/nifty-200-dashboard/internal/dashboard"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/recorder"
	"github.com/Shirsha07/nifty-200-dashboard/internal/universe"
)

// Pipeline runs passes and lists the universe.
type Pipeline interface {
	Run(ctx context.Context, req dashboard.Request) (*model.Dashboard, error)
	Universe(ctx context.Context) ([]string, error)
}

// Server serves the dashboard API.
type Server struct {
	pipeline Pipeline
	recorder recorder.Recorder
	defaults dashboard.Request
	// latest, when set, returns the last scheduled dashboard.
	latest func() *model.Dashboard
	router *mux.Router
}

// New creates a Server. defaults fills in request fields the client omits.
func New(p Pipeline, rec recorder.Recorder, defaults dashboard.Request, latest func() *model.Dashboard) *Server {
	s := &Server{pipeline: p, recorder: rec, defaults: defaults, latest: latest, router: mux.NewRouter()}

	s.router.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/api/dashboard/latest", s.handleLatest).Methods(http.MethodGet)
	s.router.HandleFunc("/api/symbols", s.handleSymbols).Methods(http.MethodGet)
	s.router.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
	})
	s.router.Use(logRequests)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zap.S().Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := s.defaults
	if v := strings.TrimSpace(q.Get("symbol")); v != "" {
		req.Symbol = v
	}
	if v := strings.TrimSpace(q.Get("period")); v != "" {
		req.Period = model.Period(v)
	}
	if v := strings.TrimSpace(q.Get("interval")); v != "" {
		req.Interval = model.Interval(v)
	}

	d, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := s.recorder.RecordPass(d, recorder.TriggerHTTP); err != nil {
		zap.S().Errorf("record pass: %v", err)
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	var d *model.Dashboard
	if s.latest != nil {
		d = s.latest()
	}
	if d == nil {
		writeError(w, http.StatusNotFound, errors.New("no scheduled dashboard yet"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.pipeline.Universe(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(symbols), "symbols": symbols})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be between 1 and 500"))
			return
		}
		limit = n
	}
	passes, err := s.recorder.RecentPasses(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if passes == nil {
		passes = []recorder.PassRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"passes": passes})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, universe.ErrUniverseUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
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
		zap.S().Debugf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Millisecond))
	})
}
