package domain

import (
	"strconv"

	dErrors "docvault/pkg/domain-errors"
)

// AccountID is the opaque identity of a caller (a wallet address in the
// reference deployment). The registry never inspects its structure beyond
// non-emptiness; checksum or encoding validation belongs to the input layer.
type AccountID string

// ParseAccountID constructs an AccountID from external input.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id cannot be empty")
	}
	return AccountID(s), nil
}

func (a AccountID) String() string { return string(a) }

// FacilityID is the opaque identity of a third party that can receive access
// grants. Like AccountID, it is resolved by an external directory and treated
// as an opaque string here.
type FacilityID string

// ParseFacilityID constructs a FacilityID from external input.
func ParseFacilityID(s string) (FacilityID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "facility id cannot be empty")
	}
	return FacilityID(s), nil
}

func (f FacilityID) String() string { return string(f) }

// DocumentID identifies a registered document. IDs are assigned by the
// registry, monotonically increasing and never reused.
type DocumentID uint64

// ParseDocumentID parses a decimal document id from external input.
func ParseDocumentID(s string) (DocumentID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "document id cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "document id must be a positive integer")
	}
	return DocumentID(n), nil
}

func (d DocumentID) String() string { return strconv.FormatUint(uint64(d), 10) }

// CommitHandle is the opaque correlation token returned for one committed
// submission, batch or single. In the reference deployment it is a
// transaction hash: "0x" followed by 64 lowercase hex characters.
type CommitHandle string

func (h CommitHandle) String() string { return string(h) }
