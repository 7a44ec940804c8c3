// Package server exposes the orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/orchestrator"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// DefaultAddr is used when Start is given an empty address.
const DefaultAddr = ":8080"

const maxBodyBytes = 1 << 20

// Answerer is the part of the orchestrator the server calls.
type Answerer interface {
	Answer(ctx context.Context, text string, opts ...orchestrator.AnswerOption) (*models.QueryResult, error)
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Query   string           `json:"query"`
	History []models.Message `json:"history,omitempty"`
}

// Handler returns the API mux. registry may be nil, in which case
// /metrics is not served.
func Handler(a Answerer, registry *prometheus.Registry, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req AskRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}
		for _, m := range req.History {
			if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
				http.Error(w, "history role must be user or assistant", http.StatusBadRequest)
				return
			}
		}

		res, err := a.Answer(r.Context(), req.Query, orchestrator.WithHistory(req.History))
		if err != nil {
			logger.Error("answer failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Trace-Id", res.TraceID)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			logger.Warn("write response", "error", err)
		}
	})
	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start serves h on addr until ctx is cancelled.
func Start(ctx context.Context, addr string, h http.Handler) error {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
