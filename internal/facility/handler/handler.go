// Package handler exposes the facility directory over HTTP. The directory
// is read-only from the outside; entries are seeded at startup.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docvault/internal/facility"
	"docvault/internal/platform/metrics"
	"docvault/internal/platform/middleware"
	"docvault/internal/transport/http/shared"
)

// Handler handles directory lookup endpoints.
type Handler struct {
	logger    *slog.Logger
	directory *facility.Directory
	metrics   *metrics.Metrics
}

func New(directory *facility.Directory, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, directory: directory, metrics: m}
}

// Register registers the directory routes with the chi router. Lookups are
// public: the directory holds nothing sensitive and clients need it before
// they can authenticate a grant.
func (h *Handler) Register(r chi.Router) {
	fr := chi.NewRouter()
	fr.Use(middleware.Recovery(h.logger))
	fr.Use(middleware.RequestID)
	fr.Use(middleware.Logger(h.logger))
	fr.Use(middleware.Latency(h.metrics))
	fr.Get("/", h.handleSearch)
	fr.Get("/{address}", h.handleResolve)
	r.Mount("/facilities", fr)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	entries, err := h.directory.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, facilitiesResponse{Facilities: entries})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	entry, err := h.directory.Resolve(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entry)
}

type facilitiesResponse struct {
	Facilities []facility.Facility `json:"facilities"`
}
