// Package audit records a queryable trail of committed registry actions. It
// subscribes to registry events, so the trail only ever contains state
// transitions that actually happened.
package audit

import (
	"time"

	id "docvault/pkg/domain"
)

// Actions recorded in the trail. They mirror the registry event set;
// deactivation emits no registry event and is not audited.
const (
	ActionDocumentUploaded   = "document_uploaded"
	ActionAccessGranted      = "access_granted"
	ActionAccessRevoked      = "access_revoked"
	ActionBatchAccessGranted = "batch_access_granted"
)

// Entry is one audit record.
type Entry struct {
	ID          string          `json:"id"`
	Action      string          `json:"action"`
	Actor       id.AccountID    `json:"actor"`
	DocumentIDs []id.DocumentID `json:"documentIds,omitempty"`
	Facilities  []id.FacilityID `json:"facilities,omitempty"`
	ExpiresAt   int64           `json:"expiresAt,omitempty"`
	RecordedAt  time.Time       `json:"recordedAt"`
}
