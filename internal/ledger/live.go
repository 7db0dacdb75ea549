package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	id "docvault/pkg/domain"
)

const defaultSubmitTimeout = 30 * time.Second

// LiveTransport submits to an external consensus service over HTTP and waits
// for the confirmed transaction hash. Confirmation latency is bounded by the
// configured timeout; the caller maps a deadline error to the submission
// timeout taxonomy.
type LiveTransport struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewLive builds a transport for the given submission endpoint. Returns nil
// when the endpoint is empty (live ledger not configured), mirroring the
// optional-infrastructure convention of the redis client.
func NewLive(endpoint string, timeout time.Duration) *LiveTransport {
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	return &LiveTransport{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type submitResponse struct {
	TxHash string `json:"txHash"`
	Error  string `json:"error,omitempty"`
}

func (t *LiveTransport) Submit(ctx context.Context, sub Submission) (id.CommitHandle, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit to ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ledger rejected submission: status %d", resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ledger response: %w", err)
	}
	if out.Error != "" {
		return "", errors.New("ledger error: " + out.Error)
	}
	if out.TxHash == "" {
		return "", errors.New("ledger response missing txHash")
	}
	return id.CommitHandle(out.TxHash), nil
}
