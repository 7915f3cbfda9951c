// Package server exposes the conversation-layer HTTP surface: one
// turn endpoint plus a thread draft listing used for re-anchoring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/draftrules"
	"github.com/attache-ai/attache/internal/nlp"
	"github.com/attache-ai/attache/internal/router"
)

// Server wires the turn router into chi.
type Server struct {
	router *router.Router
	logger *slog.Logger
}

// New creates the HTTP server facade.
func New(turns *router.Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{router: turns, logger: logger}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/turns", s.handleTurn)
	r.Get("/v1/threads/{threadID}/drafts", s.handleThreadDrafts)

	return otelhttp.NewHandler(r, "attache")
}

// turnRequest is the wire shape of one conversation turn.
type turnRequest struct {
	Query        string               `json:"query"`
	ThreadID     string               `json:"thread_id"`
	MessageID    string               `json:"message_id"`
	History      []nlp.Message        `json:"history,omitempty"`
	AnchoredItem *domain.AnchoredItem `json:"anchored_item,omitempty"`
}

// turnResponse is the wire shape of a turn result.
type turnResponse struct {
	Kind         router.ResponseKind            `json:"kind"`
	Draft        *domain.Draft                  `json:"draft,omitempty"`
	Completeness *draftrules.CompletenessReport `json:"completeness,omitempty"`
	Notice       string                         `json:"notice,omitempty"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ThreadID == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "thread_id and query are required")
		return
	}

	AddLogField(r.Context(), "thread_id", req.ThreadID)

	result, err := s.router.HandleTurn(r.Context(), router.TurnRequest{
		Query:     req.Query,
		ThreadID:  req.ThreadID,
		MessageID: req.MessageID,
		History:   req.History,
		Anchor:    req.AnchoredItem,
	})
	if err != nil {
		AddLogField(r.Context(), "error", err.Error())
		writeError(w, http.StatusServiceUnavailable, "turn could not be processed, retry")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Kind:         result.Kind,
		Draft:        result.Draft,
		Completeness: result.Completeness,
		Notice:       result.Notice,
	})
}

func (s *Server) handleThreadDrafts(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if threadID == "" {
		writeError(w, http.StatusBadRequest, "thread id is required")
		return
	}

	drafts, err := s.router.ActiveDrafts(r.Context(), threadID)
	if err != nil {
		AddLogField(r.Context(), "error", err.Error())
		writeError(w, http.StatusServiceUnavailable, "drafts could not be listed, retry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
