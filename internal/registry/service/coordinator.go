// Package service implements the submission coordinator: it converts caller
// intents into atomic registry transitions and reports one commit handle per
// committed transition, batch or single.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"docvault/internal/ledger"
	"docvault/internal/platform/metrics"
	"docvault/internal/registry"
	id "docvault/pkg/domain"
	dErrors "docvault/pkg/domain-errors"
)

// Coordinator fronts the registry with the external commit channel. The
// transport is confirmed before the registry mutates, so a timeout or
// cancellation during submission leaves no partial state; a registry
// rejection after confirmation surfaces the domain error and discards the
// handle, like a reverted transaction. Rejected commands are final: the
// coordinator never retries, since retrying a logically-rejected operation
// cannot succeed without different inputs.
type Coordinator struct {
	registry  *registry.Registry
	transport ledger.Transport
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func New(reg *registry.Registry, transport ledger.Transport, logger *slog.Logger, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		registry:  reg,
		transport: transport,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("docvault/registry/service"),
	}
}

func (c *Coordinator) submit(ctx context.Context, sub ledger.Submission) (id.CommitHandle, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.submit",
		trace.WithAttributes(
			attribute.String("op", string(sub.Op)),
			attribute.String("caller", sub.Caller.String()),
		))
	defer span.End()

	handle, err := c.transport.Submit(ctx, sub)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			if c.metrics != nil {
				c.metrics.SubmissionTimeouts.Inc()
			}
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "ledger did not confirm submission in time")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "ledger submission failed")
	}
	span.SetAttributes(attribute.String("handle", handle.String()))
	return handle, nil
}

// UploadDocument registers a content reference and returns the upload event
// with the commit handle of the submission.
func (c *Coordinator) UploadDocument(ctx context.Context, owner id.AccountID, contentRef, docType, integrityHash string) (registry.DocumentUploaded, id.CommitHandle, error) {
	handle, err := c.submit(ctx, ledger.Submission{Op: registry.OpUploadDocument, Caller: owner})
	if err != nil {
		return registry.DocumentUploaded{}, "", err
	}

	ev, err := c.registry.UploadDocument(ctx, owner, contentRef, docType, integrityHash)
	if err != nil {
		return registry.DocumentUploaded{}, "", err
	}
	if c.metrics != nil {
		c.metrics.DocumentsUploaded.Inc()
	}
	c.logger.InfoContext(ctx, "document uploaded",
		"document_id", ev.DocumentID.String(),
		"owner", owner.String(),
		"handle", handle.String(),
	)
	return ev, handle, nil
}

// DeactivateDocument permanently retires a document from new grants.
func (c *Coordinator) DeactivateDocument(ctx context.Context, caller id.AccountID, docID id.DocumentID) (id.CommitHandle, error) {
	handle, err := c.submit(ctx, ledger.Submission{
		Op:          registry.OpDeactivateDocument,
		Caller:      caller,
		DocumentIDs: []id.DocumentID{docID},
	})
	if err != nil {
		return "", err
	}

	if err := c.registry.DeactivateDocument(ctx, caller, docID); err != nil {
		return "", err
	}
	if c.metrics != nil {
		c.metrics.DocumentsDeactivated.Inc()
	}
	return handle, nil
}

// GrantAccess issues a single time-bounded grant.
func (c *Coordinator) GrantAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID, expiresAt int64) (registry.AccessGranted, id.CommitHandle, error) {
	handle, err := c.submit(ctx, ledger.Submission{
		Op:          registry.OpGrantAccess,
		Caller:      caller,
		DocumentIDs: []id.DocumentID{docID},
		Facilities:  []id.FacilityID{facility},
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return registry.AccessGranted{}, "", err
	}

	ev, err := c.registry.GrantAccess(ctx, caller, docID, facility, expiresAt)
	if err != nil {
		return registry.AccessGranted{}, "", err
	}
	if c.metrics != nil {
		c.metrics.GrantsIssued.Inc()
	}
	return ev, handle, nil
}

// RevokeAccess ends a grant. The event is nil when the revocation was an
// idempotent no-op.
func (c *Coordinator) RevokeAccess(ctx context.Context, caller id.AccountID, docID id.DocumentID, facility id.FacilityID) (*registry.AccessRevoked, id.CommitHandle, error) {
	handle, err := c.submit(ctx, ledger.Submission{
		Op:          registry.OpRevokeAccess,
		Caller:      caller,
		DocumentIDs: []id.DocumentID{docID},
		Facilities:  []id.FacilityID{facility},
	})
	if err != nil {
		return nil, "", err
	}

	ev, err := c.registry.RevokeAccess(ctx, caller, docID, facility)
	if err != nil {
		return nil, "", err
	}
	if ev != nil && c.metrics != nil {
		c.metrics.GrantsRevoked.Inc()
	}
	return ev, handle, nil
}

// BatchGrantAccess applies the cartesian product of documents and facilities
// atomically and returns one handle standing for the whole batch. Callers
// never receive per-pair handles; that is the point of batch submission.
// Re-submitting the same batch after a SubmissionTimeout is safe: grants are
// last-write-wins, so the duplicate is a no-op.
func (c *Coordinator) BatchGrantAccess(ctx context.Context, caller id.AccountID, docIDs []id.DocumentID, facilities []id.FacilityID, expiresAt int64) (registry.BatchAccessGranted, id.CommitHandle, error) {
	handle, err := c.submit(ctx, ledger.Submission{
		Op:          registry.OpBatchGrantAccess,
		Caller:      caller,
		DocumentIDs: docIDs,
		Facilities:  facilities,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return registry.BatchAccessGranted{}, "", err
	}

	ev, err := c.registry.BatchGrantAccess(ctx, caller, docIDs, facilities, expiresAt)
	if err != nil {
		return registry.BatchAccessGranted{}, "", err
	}
	if c.metrics != nil {
		c.metrics.BatchGrants.Inc()
	}
	c.logger.InfoContext(ctx, "batch grant committed",
		"owner", caller.String(),
		"documents", len(ev.DocumentIDs),
		"facilities", len(ev.Facilities),
		"handle", handle.String(),
	)
	return ev, handle, nil
}

// GetDocument passes through to the registry.
func (c *Coordinator) GetDocument(docID id.DocumentID) (registry.Document, error) {
	return c.registry.GetDocument(docID)
}

// GetUserDocuments passes through to the registry.
func (c *Coordinator) GetUserDocuments(owner id.AccountID) []id.DocumentID {
	return c.registry.GetUserDocuments(owner)
}

// HasValidAccess is a pure query and bypasses the transport entirely.
func (c *Coordinator) HasValidAccess(docID id.DocumentID, facility id.FacilityID) bool {
	granted := c.registry.HasValidAccess(docID, facility)
	if c.metrics != nil {
		c.metrics.IncrementAccessCheck(granted)
	}
	return granted
}
