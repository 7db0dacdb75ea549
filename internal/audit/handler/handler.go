// Package handler exposes the audit trail over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docvault/internal/audit"
	"docvault/internal/platform/metrics"
	"docvault/internal/platform/middleware"
	"docvault/internal/transport/http/shared"
	dErrors "docvault/pkg/domain-errors"
	"docvault/pkg/requestcontext"
)

// Handler serves a caller's own trail entries.
type Handler struct {
	logger       *slog.Logger
	store        audit.Store
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(store audit.Store, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, store: store, metrics: m, jwtValidator: jwtValidator}
}

func (h *Handler) Register(r chi.Router) {
	ar := chi.NewRouter()
	ar.Use(middleware.Recovery(h.logger))
	ar.Use(middleware.RequestID)
	ar.Use(middleware.Logger(h.logger))
	ar.Use(middleware.Timeout(10 * time.Second))
	ar.Use(middleware.Latency(h.metrics))
	ar.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	ar.Get("/", h.handleList)
	r.Mount("/audit", ar)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor := requestcontext.Caller(r.Context())
	if actor == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	entries, err := h.store.ListByActor(r.Context(), actor)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list audit entries"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, auditResponse{Entries: entries})
}

type auditResponse struct {
	Entries []audit.Entry `json:"entries"`
}
