package ledger

import (
	"context"

	id "docvault/pkg/domain"
)

// LoopbackTransport confirms submissions synchronously without leaving the
// process. It is the transport for local runs and tests.
type LoopbackTransport struct{}

func NewLoopback() *LoopbackTransport {
	return &LoopbackTransport{}
}

func (t *LoopbackTransport) Submit(ctx context.Context, _ Submission) (id.CommitHandle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return newHandle(), nil
}
