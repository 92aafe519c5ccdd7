// Package api provides the thin HTTP boundary over the feed service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/newsmux/newsmux/internal/service"
)

// Server holds the boundary's dependencies.
type Server struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewServer creates the API server.
func NewServer(svc *service.Service) *Server {
	return &Server{
		svc:    svc,
		logger: slog.Default(),
	}
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/feed/{section}", s.handleFeed)
	mux.HandleFunc("GET /api/sections", s.handleSections)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

// handleFeed serves one section's feed. The service never fails, so
// the handler always answers 200 with a well-formed body.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	useCache := r.URL.Query().Get("nocache") != "1"

	// An abandoned client must not cancel in-flight provider fetches;
	// a completed fetch still warms the cache for the next request.
	ctx := context.WithoutCancel(r.Context())
	result := s.svc.GetSectionFeed(ctx, section, useCache)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"sections": s.svc.Sections()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
