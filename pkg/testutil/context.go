package testutil

import (
	"net/http"

	id "docvault/pkg/domain"
	"docvault/pkg/requestcontext"
)

// WithCaller adds an authenticated account to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, account string) *http.Request {
	parsed, err := id.ParseAccountID(account)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), parsed))
}
