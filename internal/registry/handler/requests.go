package handler

import (
	"docvault/internal/registry"
	id "docvault/pkg/domain"
)

type uploadDocumentRequest struct {
	ContentRef    string `json:"content_ref"`
	DocType       string `json:"doc_type"`
	IntegrityHash string `json:"integrity_hash"`
}

type uploadDocumentResponse struct {
	DocumentID id.DocumentID `json:"document_id"`
	TxHash     string        `json:"tx_hash"`
	CreatedAt  int64         `json:"created_at"`
}

type grantAccessRequest struct {
	DocumentID id.DocumentID `json:"document_id"`
	Facility   string        `json:"facility"`
	ExpiresAt  int64         `json:"expires_at"`
}

type grantAccessResponse struct {
	TxHash     string        `json:"tx_hash"`
	DocumentID id.DocumentID `json:"document_id"`
	Facility   id.FacilityID `json:"facility"`
	ExpiresAt  int64         `json:"expires_at"`
}

type revokeAccessRequest struct {
	DocumentID id.DocumentID `json:"document_id"`
	Facility   string        `json:"facility"`
}

type revokeAccessResponse struct {
	TxHash string `json:"tx_hash"`
	// Revoked is false when the revocation was an idempotent no-op.
	Revoked bool `json:"revoked"`
}

type batchGrantAccessRequest struct {
	DocumentIDs []id.DocumentID `json:"document_ids"`
	Facilities  []string        `json:"facilities"`
	ExpiresAt   int64           `json:"expires_at"`
}

type batchGrantAccessResponse struct {
	TxHash      string          `json:"tx_hash"`
	DocumentIDs []id.DocumentID `json:"document_ids"`
	Facilities  []id.FacilityID `json:"facilities"`
	ExpiresAt   int64           `json:"expires_at"`
}

type deactivateDocumentResponse struct {
	TxHash string `json:"tx_hash"`
}

type documentResponse struct {
	DocumentID    id.DocumentID `json:"document_id"`
	Owner         id.AccountID  `json:"owner"`
	ContentRef    string        `json:"content_ref"`
	DocType       string        `json:"doc_type"`
	IntegrityHash string        `json:"integrity_hash"`
	CreatedAt     int64         `json:"created_at"`
	Active        bool          `json:"active"`
}

func toDocumentResponse(doc registry.Document) documentResponse {
	return documentResponse{
		DocumentID:    doc.ID,
		Owner:         doc.Owner,
		ContentRef:    doc.ContentRef,
		DocType:       doc.DocType,
		IntegrityHash: doc.IntegrityHash,
		CreatedAt:     doc.CreatedAt,
		Active:        doc.Active,
	}
}

type userDocumentsResponse struct {
	Owner       id.AccountID    `json:"owner"`
	DocumentIDs []id.DocumentID `json:"document_ids"`
}

type accessCheckResponse struct {
	Granted bool `json:"granted"`
}
