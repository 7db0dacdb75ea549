// Package ledger models the external commit channel for registry
// submissions. The registry's invariants are identical under every
// transport; only commit latency and handle generation differ, so demo and
// production wiring choose a Transport instead of special-casing modes.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"docvault/internal/registry"
	id "docvault/pkg/domain"
)

// Submission summarizes one intended state transition for anchoring. It
// carries identifiers only; the registry remains the source of truth for
// the resulting state.
type Submission struct {
	Op          registry.Op     `json:"op"`
	Caller      id.AccountID    `json:"caller"`
	DocumentIDs []id.DocumentID `json:"document_ids,omitempty"`
	Facilities  []id.FacilityID `json:"facilities,omitempty"`
	ExpiresAt   int64           `json:"expires_at,omitempty"`
}

// Transport confirms a submission on the external commit channel and mints
// the commit handle. Submit must respect ctx: a deadline or cancellation
// before confirmation returns an error and the coordinator then leaves the
// registry untouched.
type Transport interface {
	Submit(ctx context.Context, sub Submission) (id.CommitHandle, error)
}

// newHandle mints a transaction-hash shaped commit handle: "0x" plus 64
// lowercase hex characters.
func newHandle() id.CommitHandle {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return id.CommitHandle("0x" + hex.EncodeToString(buf))
}
