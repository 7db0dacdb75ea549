// Package registry is the authoritative store of documents and access
// grants. All mutations pass through it, commands are strictly serialized
// behind one write lock, and every committed command is appended to the
// command log before it mutates state.
package registry

import (
	"context"
	"log/slog"
	"sync"

	id "docvault/pkg/domain"
	dErrors "docvault/pkg/domain-errors"
)

// Registry holds the document and grant tables. Command operations execute
// to completion under an exclusive lock; queries take a shared lock and see
// a consistent snapshot (never a partially applied batch).
type Registry struct {
	mu     sync.RWMutex
	clock  Clock
	log    CommandLog
	bus    *Bus
	logger *slog.Logger

	nextID    uint64
	docs      map[id.DocumentID]*Document
	ownerDocs map[id.AccountID][]id.DocumentID
	grants    map[grantKey]*Grant
}

func New(clock Clock, log CommandLog, bus *Bus, logger *slog.Logger) *Registry {
	return &Registry{
		clock:     clock,
		log:       log,
		bus:       bus,
		logger:    logger,
		nextID:    1,
		docs:      make(map[id.DocumentID]*Document),
		ownerDocs: make(map[id.AccountID][]id.DocumentID),
		grants:    make(map[grantKey]*Grant),
	}
}

// Load replays the command log and rebuilds the document and grant tables.
// Call once before serving traffic. Replay reapplies commands through the
// same transition code but does not re-append them or re-publish events.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	err := r.log.Replay(ctx, func(cmd Command) error {
		if err := r.replay(cmd); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "command log replay failed")
	}
	r.logger.InfoContext(ctx, "registry state rebuilt from command log", "commands", count, "documents", len(r.docs))
	return nil
}

func (r *Registry) replay(cmd Command) error {
	switch cmd.Op {
	case OpUploadDocument:
		r.applyUpload(cmd)
	case OpDeactivateDocument:
		r.applyDeactivate(cmd)
	case OpGrantAccess:
		r.applyGrant(cmd)
	case OpRevokeAccess:
		r.applyRevoke(cmd)
	case OpBatchGrantAccess:
		r.applyBatchGrant(cmd)
	default:
		return dErrors.Newf(dErrors.CodeInternal, "unknown command op %q", cmd.Op)
	}
	return nil
}

// UploadDocument registers a new content reference for the owner and returns
// the DocumentUploaded event. The registry treats contentRef, docType and
// integrityHash as opaque; only non-emptiness of the identifiers matters.
func (r *Registry) UploadDocument(ctx context.Context, owner id.AccountID, contentRef, docType, integrityHash string) (DocumentUploaded, error) {
	if owner == "" {
		return DocumentUploaded{}, dErrors.New(dErrors.CodeInvalidInput, "owner cannot be empty")
	}
	if contentRef == "" {
		return DocumentUploaded{}, dErrors.New(dErrors.CodeInvalidInput, "content reference cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cmd := Command{
		Op:            OpUploadDocument,
		Caller:        owner,
		At:            r.clock.Now(),
		ContentRef:    contentRef,
		DocType:       docType,
		IntegrityHash: integrityHash,
	}
	if err := r.log.Append(ctx, cmd); err != nil {
		return DocumentUploaded{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append upload command")
	}
	ev := r.applyUpload(cmd)
	r.bus.publish(ev)
	return ev, nil
}

func (r *Registry) applyUpload(cmd Command) DocumentUploaded {
	docID := id.DocumentID(r.nextID)
	r.nextID++

	doc := &Document{
		ID:            docID,
		Owner:         cmd.Caller,
		ContentRef:    cmd.ContentRef,
		DocType:       cmd.DocType,
		IntegrityHash: cmd.IntegrityHash,
		CreatedAt:     cmd.At,
		Active:        true,
	}
	r.docs[docID] = doc
	r.ownerDocs[cmd.Caller] = append(r.ownerDocs[cmd.Caller], docID)

	return DocumentUploaded{
		DocumentID: docID,
		Owner:      cmd.Caller,
		ContentRef: cmd.ContentRef,
		DocType:    cmd.DocType,
		CreatedAt:  cmd.At,
	}
}

// DeactivateDocument permanently excludes a document from new grants and
// positive access checks. Deactivating an already-inactive document is a
// no-op success; reactivation does not exist.
func (r *Registry) DeactivateDocument(ctx context.Context, caller id.AccountID, docID id.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.ownedDocument(caller, docID)
	if err != nil {
		return err
	}
	if !doc.Active {
		return nil
	}

	cmd := Command{Op: OpDeactivateDocument, Caller: caller, At: r.clock.Now(), DocumentID: docID}
	if err := r.log.Append(ctx, cmd); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append deactivate command")
	}
	r.applyDeactivate(cmd)
	return nil
}

func (r *Registry) applyDeactivate(cmd Command) {
	if doc, ok := r.docs[cmd.DocumentID]; ok {
		doc.Active = false
	}
}

// GrantAccess installs or overwrites the (document, facility) grant and
// returns the AccessGranted event. Re-granting resets a prior revocation:
// the pair holds at most one record and the last write wins.
func (r *Registry) GrantAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID, expiresAt int64) (AccessGranted, error) {
	if facility == "" {
		return AccessGranted{}, dErrors.New(dErrors.CodeInvalidInput, "facility cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	doc, err := r.checkGrantable(caller, docID, expiresAt, now)
	if err != nil {
		return AccessGranted{}, err
	}

	cmd := Command{
		Op:         OpGrantAccess,
		Caller:     caller,
		At:         now,
		DocumentID: docID,
		Facility:   facility,
		ExpiresAt:  expiresAt,
	}
	if err := r.log.Append(ctx, cmd); err != nil {
		return AccessGranted{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append grant command")
	}
	r.applyGrant(cmd)

	ev := AccessGranted{DocumentID: docID, Owner: doc.Owner, Facility: facility, ExpiresAt: expiresAt}
	r.bus.publish(ev)
	return ev, nil
}

func (r *Registry) applyGrant(cmd Command) {
	r.installGrant(cmd.DocumentID, cmd.Facility, cmd.ExpiresAt)
}

func (r *Registry) installGrant(docID id.DocumentID, facility id.FacilityID, expiresAt int64) {
	key := grantKey{doc: docID, facility: facility}
	if g, ok := r.grants[key]; ok {
		g.ExpiresAt = expiresAt
		g.Revoked = false
		return
	}
	r.grants[key] = &Grant{DocumentID: docID, Facility: facility, ExpiresAt: expiresAt}
}

// RevokeAccess ends the (document, facility) grant. Revoking a pair with no
// live grant is an idempotent no-op: nothing is logged and no event is
// emitted. The grant record itself is retained for audit.
func (r *Registry) RevokeAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID) (*AccessRevoked, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.ownedDocument(caller, docID)
	if err != nil {
		return nil, err
	}

	grant, ok := r.grants[grantKey{doc: docID, facility: facility}]
	if !ok || grant.Revoked {
		return nil, nil
	}

	cmd := Command{Op: OpRevokeAccess, Caller: caller, At: r.clock.Now(), DocumentID: docID, Facility: facility}
	if err := r.log.Append(ctx, cmd); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append revoke command")
	}
	r.applyRevoke(cmd)

	ev := AccessRevoked{DocumentID: docID, Owner: doc.Owner, Facility: facility}
	r.bus.publish(ev)
	return &ev, nil
}

func (r *Registry) applyRevoke(cmd Command) {
	if g, ok := r.grants[grantKey{doc: cmd.DocumentID, facility: cmd.Facility}]; ok {
		g.Revoked = true
	}
}

// BatchGrantAccess applies the cartesian product of documents and facilities
// as one atomic unit. Validation runs over every pair before anything is
// installed; the first failure aborts the whole batch with no partial
// application. On success exactly one BatchAccessGranted event is emitted.
func (r *Registry) BatchGrantAccess(ctx context.Context, caller id.AccountID, docIDs []id.DocumentID, facilities []id.FacilityID, expiresAt int64) (BatchAccessGranted, error) {
	if len(docIDs) == 0 {
		return BatchAccessGranted{}, dErrors.New(dErrors.CodeInvalidInput, "document ids must not be empty")
	}
	if len(facilities) == 0 {
		return BatchAccessGranted{}, dErrors.New(dErrors.CodeInvalidInput, "facilities must not be empty")
	}
	for _, f := range facilities {
		if f == "" {
			return BatchAccessGranted{}, dErrors.New(dErrors.CodeInvalidInput, "facility cannot be empty")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Validation pass: no mutation until every pair has been checked.
	now := r.clock.Now()
	for _, docID := range docIDs {
		if _, err := r.checkGrantable(caller, docID, expiresAt, now); err != nil {
			return BatchAccessGranted{}, err
		}
	}

	cmd := Command{
		Op:          OpBatchGrantAccess,
		Caller:      caller,
		At:          now,
		DocumentIDs: append([]id.DocumentID(nil), docIDs...),
		Facilities:  append([]id.FacilityID(nil), facilities...),
		ExpiresAt:   expiresAt,
	}
	if err := r.log.Append(ctx, cmd); err != nil {
		return BatchAccessGranted{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append batch grant command")
	}
	r.applyBatchGrant(cmd)

	ev := BatchAccessGranted{
		DocumentIDs: cmd.DocumentIDs,
		Owner:       caller,
		Facilities:  cmd.Facilities,
		ExpiresAt:   expiresAt,
	}
	r.bus.publish(ev)
	return ev, nil
}

func (r *Registry) applyBatchGrant(cmd Command) {
	for _, docID := range cmd.DocumentIDs {
		for _, facility := range cmd.Facilities {
			r.installGrant(docID, facility, cmd.ExpiresAt)
		}
	}
}

// GetDocument returns a copy of the document, including deactivated ones so
// the audit trail stays queryable.
func (r *Registry) GetDocument(docID id.DocumentID) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[docID]
	if !ok {
		return Document{}, dErrors.Newf(dErrors.CodeNotFound, "document %s not found", docID)
	}
	return *doc, nil
}

// GetUserDocuments returns the owner's document ids in upload order.
func (r *Registry) GetUserDocuments(owner id.AccountID) []id.DocumentID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]id.DocumentID(nil), r.ownerDocs[owner]...)
}

// HasValidAccess reports whether the facility currently holds a valid grant
// on the document. It is a pure query: unknown documents yield false rather
// than an error, so the check channel cannot be used to probe errors.
func (r *Registry) HasValidAccess(docID id.DocumentID, facility id.FacilityID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[docID]
	if !ok || !doc.Active {
		return false
	}
	grant, ok := r.grants[grantKey{doc: docID, facility: facility}]
	if !ok {
		return false
	}
	return grant.valid(r.clock.Now())
}

// ownedDocument fetches a document and enforces ownership. Callers hold r.mu.
func (r *Registry) ownedDocument(caller id.AccountID, docID id.DocumentID) (*Document, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "document %s not found", docID)
	}
	if doc.Owner != caller {
		return nil, dErrors.Newf(dErrors.CodeNotOwner, "caller %s does not own document %s", caller, docID)
	}
	return doc, nil
}

// checkGrantable enforces the full grant precondition set for one document.
func (r *Registry) checkGrantable(caller id.AccountID, docID id.DocumentID, expiresAt, now int64) (*Document, error) {
	doc, err := r.ownedDocument(caller, docID)
	if err != nil {
		return nil, err
	}
	if !doc.Active {
		return nil, dErrors.Newf(dErrors.CodeDocumentInactive, "document %s is deactivated", docID)
	}
	if expiresAt <= now {
		return nil, dErrors.Newf(dErrors.CodeInvalidExpiry, "expiry %d is not in the future for document %s", expiresAt, docID)
	}
	return doc, nil
}
