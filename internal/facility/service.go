package facility

import (
	"context"
	"errors"
	"strings"

	dErrors "docvault/pkg/domain-errors"
	"docvault/pkg/platform/sentinel"
)

// Directory serves lookups against the facility store.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// Search returns facilities whose name or type contains the query,
// case-insensitively. An empty query returns the full directory.
func (d *Directory) Search(ctx context.Context, query string) ([]Facility, error) {
	all, err := d.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list facilities")
	}
	if query == "" {
		return all, nil
	}
	q := strings.ToLower(query)
	out := make([]Facility, 0, len(all))
	for _, f := range all {
		if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Type), q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Resolve looks up a directory entry by its on-ledger address.
func (d *Directory) Resolve(ctx context.Context, address string) (Facility, error) {
	f, err := d.store.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Facility{}, dErrors.Newf(dErrors.CodeNotFound, "facility %s not found", address)
		}
		return Facility{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve facility")
	}
	return f, nil
}
