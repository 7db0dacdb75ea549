package facility

import "context"

// Store is the persistence surface for directory entries. Implementations
// return sentinel.ErrNotFound for unknown addresses.
type Store interface {
	Save(ctx context.Context, f Facility) error
	List(ctx context.Context) ([]Facility, error)
	FindByAddress(ctx context.Context, address string) (Facility, error)
}
