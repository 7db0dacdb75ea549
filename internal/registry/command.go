package registry

import (
	"context"

	id "docvault/pkg/domain"
)

// Op names the registry command a log entry carries.
type Op string

const (
	OpUploadDocument     Op = "upload_document"
	OpDeactivateDocument Op = "deactivate_document"
	OpGrantAccess        Op = "grant_access"
	OpRevokeAccess       Op = "revoke_access"
	OpBatchGrantAccess   Op = "batch_grant_access"
)

// Command is the serialized form of a committed registry mutation. The
// append-only log stores commands, not state: replaying them in commit order
// through the same transition code reconstructs the document and grant
// tables. At pins the logical time of the original commit so replay is
// deterministic; document ids are reassigned by the same monotonic counter
// and therefore come out identical.
type Command struct {
	Op     Op           `json:"op"`
	Caller id.AccountID `json:"caller"`
	At     int64        `json:"at"`

	ContentRef    string `json:"content_ref,omitempty"`
	DocType       string `json:"doc_type,omitempty"`
	IntegrityHash string `json:"integrity_hash,omitempty"`

	DocumentID  id.DocumentID   `json:"document_id,omitempty"`
	DocumentIDs []id.DocumentID `json:"document_ids,omitempty"`
	Facility    id.FacilityID   `json:"facility,omitempty"`
	Facilities  []id.FacilityID `json:"facilities,omitempty"`
	ExpiresAt   int64           `json:"expires_at,omitempty"`
}

// CommandLog is the append-only persistence surface for committed commands.
// Append is called inside the registry's serialized commit section, so
// entries land in commit order. Replay must deliver them back in the same
// order.
type CommandLog interface {
	Append(ctx context.Context, cmd Command) error
	Replay(ctx context.Context, fn func(Command) error) error
}
