package registry

import (
	id "docvault/pkg/domain"
)

// Document is a registered content reference. All fields except Active are
// immutable after creation; Active transitions true->false exactly once and
// never back.
type Document struct {
	ID            id.DocumentID
	Owner         id.AccountID
	ContentRef    string
	DocType       string
	IntegrityHash string
	CreatedAt     int64
	Active        bool
}

// Grant is a time-bounded authorization for one facility to access one
// document. Grants are keyed by (document, facility): re-granting the same
// pair overwrites ExpiresAt and clears Revoked rather than creating a
// duplicate. Grants are never deleted; revocation and expiry only end them
// logically so the audit trail stays intact.
type Grant struct {
	DocumentID id.DocumentID
	Facility   id.FacilityID
	ExpiresAt  int64
	Revoked    bool
}

// valid reports whether the grant authorizes access at the given logical
// time, assuming its document is active. Expiry is exclusive: a grant is dead
// the moment now reaches ExpiresAt.
func (g Grant) valid(now int64) bool {
	return !g.Revoked && now < g.ExpiresAt
}

type grantKey struct {
	doc      id.DocumentID
	facility id.FacilityID
}
