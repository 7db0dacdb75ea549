// Package handler exposes the registry operations over HTTP. It is a thin
// layer: identifiers are parsed at this boundary, domain rules stay in the
// registry, and the submission coordinator is the only collaborator.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docvault/internal/platform/metrics"
	"docvault/internal/platform/middleware"
	"docvault/internal/registry"
	"docvault/internal/transport/http/shared"
	id "docvault/pkg/domain"
	dErrors "docvault/pkg/domain-errors"
	pstrings "docvault/pkg/platform/strings"
	"docvault/pkg/requestcontext"
)

// Service defines the coordinator surface the handler depends on.
type Service interface {
	UploadDocument(ctx context.Context, owner id.AccountID, contentRef, docType, integrityHash string) (registry.DocumentUploaded, id.CommitHandle, error)
	DeactivateDocument(ctx context.Context, caller id.AccountID, docID id.DocumentID) (id.CommitHandle, error)
	GrantAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID, expiresAt int64) (registry.AccessGranted, id.CommitHandle, error)
	RevokeAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID) (*registry.AccessRevoked, id.CommitHandle, error)
	BatchGrantAccess(ctx context.Context, caller id.AccountID, docIDs []id.DocumentID, facilities []id.FacilityID, expiresAt int64) (registry.BatchAccessGranted, id.CommitHandle, error)
	GetDocument(docID id.DocumentID) (registry.Document, error)
	GetUserDocuments(owner id.AccountID) []id.DocumentID
	HasValidAccess(docID id.DocumentID, facility id.FacilityID) bool
}

// Handler handles document and access-grant endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new registry Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the registry routes with the chi router. The access
// check is registered without auth: it is cheap, side-effect-free, and
// returns false rather than erroring for unknown ids.
func (h *Handler) Register(r chi.Router) {
	authed := func(gr chi.Router) {
		gr.Use(middleware.Recovery(h.logger))
		gr.Use(middleware.RequestID)
		gr.Use(middleware.RequestTime)
		gr.Use(middleware.Logger(h.logger))
		gr.Use(middleware.Timeout(30 * time.Second))
		gr.Use(middleware.ContentTypeJSON)
		gr.Use(middleware.Latency(h.metrics))
		gr.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	}

	docs := chi.NewRouter()
	authed(docs)
	docs.Post("/", h.handleUploadDocument)
	docs.Get("/", h.handleGetUserDocuments)
	docs.Get("/{documentID}", h.handleGetDocument)
	docs.Post("/{documentID}/deactivate", h.handleDeactivateDocument)
	r.Mount("/documents", docs)

	access := chi.NewRouter()
	access.Group(func(gr chi.Router) {
		authed(gr)
		gr.Post("/grants", h.handleGrantAccess)
		gr.Post("/revocations", h.handleRevokeAccess)
		gr.Post("/batch-grants", h.handleBatchGrantAccess)
	})
	access.Group(func(gr chi.Router) {
		gr.Use(middleware.Recovery(h.logger))
		gr.Use(middleware.RequestID)
		gr.Use(middleware.Latency(h.metrics))
		gr.Get("/check", h.handleAccessCheck)
	})
	r.Mount("/access", access)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (id.AccountID, bool) {
	account := requestcontext.Caller(r.Context())
	if account == "" {
		// Unreachable when RequireAuth is configured correctly.
		h.logger.ErrorContext(r.Context(), "caller missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return account, true
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req uploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if _, err := id.ParseDocumentType(req.DocType); err != nil {
		shared.WriteError(w, err)
		return
	}

	ev, handle, err := h.service.UploadDocument(r.Context(), owner, req.ContentRef, req.DocType, req.IntegrityHash)
	if err != nil {
		h.writeServiceError(w, r, "upload document", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, uploadDocumentResponse{
		DocumentID: ev.DocumentID,
		TxHash:     handle.String(),
		CreatedAt:  ev.CreatedAt,
	})
}

func (h *Handler) handleDeactivateDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	handle, err := h.service.DeactivateDocument(r.Context(), caller, docID)
	if err != nil {
		h.writeServiceError(w, r, "deactivate document", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, deactivateDocumentResponse{TxHash: handle.String()})
}

func (h *Handler) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req grantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	facility, err := id.ParseFacilityID(req.Facility)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ev, handle, err := h.service.GrantAccess(r.Context(), caller, req.DocumentID, facility, req.ExpiresAt)
	if err != nil {
		h.writeServiceError(w, r, "grant access", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, grantAccessResponse{
		TxHash:     handle.String(),
		DocumentID: ev.DocumentID,
		Facility:   ev.Facility,
		ExpiresAt:  ev.ExpiresAt,
	})
}

func (h *Handler) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req revokeAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	facility, err := id.ParseFacilityID(req.Facility)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ev, handle, err := h.service.RevokeAccess(r.Context(), caller, req.DocumentID, facility)
	if err != nil {
		h.writeServiceError(w, r, "revoke access", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, revokeAccessResponse{
		TxHash:  handle.String(),
		Revoked: ev != nil,
	})
}

func (h *Handler) handleBatchGrantAccess(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req batchGrantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	// Duplicate facilities in a batch are harmless (grants are last-write-
	// wins) but would inflate the event payload.
	cleaned := pstrings.DedupeAndTrim(req.Facilities)
	facilities := make([]id.FacilityID, 0, len(cleaned))
	for _, raw := range cleaned {
		facility, err := id.ParseFacilityID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		facilities = append(facilities, facility)
	}

	ev, handle, err := h.service.BatchGrantAccess(r.Context(), caller, req.DocumentIDs, facilities, req.ExpiresAt)
	if err != nil {
		h.writeServiceError(w, r, "batch grant access", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, batchGrantAccessResponse{
		TxHash:      handle.String(),
		DocumentIDs: ev.DocumentIDs,
		Facilities:  ev.Facilities,
		ExpiresAt:   ev.ExpiresAt,
	})
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.service.GetDocument(docID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleGetUserDocuments(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	owner := caller
	if raw := r.URL.Query().Get("owner"); raw != "" {
		parsed, err := id.ParseAccountID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		owner = parsed
	}

	shared.WriteJSON(w, http.StatusOK, userDocumentsResponse{
		Owner:       owner,
		DocumentIDs: h.service.GetUserDocuments(owner),
	})
}

func (h *Handler) handleAccessCheck(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(r.URL.Query().Get("document_id"))
	if err != nil {
		// Never expose errors through the check channel: an unparseable id
		// is simply not granted.
		shared.WriteJSON(w, http.StatusOK, accessCheckResponse{Granted: false})
		return
	}
	facility, err := id.ParseFacilityID(r.URL.Query().Get("facility"))
	if err != nil {
		shared.WriteJSON(w, http.StatusOK, accessCheckResponse{Granted: false})
		return
	}

	shared.WriteJSON(w, http.StatusOK, accessCheckResponse{
		Granted: h.service.HasValidAccess(docID, facility),
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	requestID := requestcontext.RequestID(r.Context())
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), "registry operation failed",
			"op", op,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(r.Context(), "registry operation rejected",
			"op", op,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}
