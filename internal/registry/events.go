package registry

import (
	"sync"

	id "docvault/pkg/domain"
)

// Event is a domain event emitted by the registry after a committed state
// transition. Subscribers observe events in commit order.
type Event interface {
	Name() string
}

// DocumentUploaded is emitted when a document is registered.
type DocumentUploaded struct {
	DocumentID id.DocumentID
	Owner      id.AccountID
	ContentRef string
	DocType    string
	CreatedAt  int64
}

func (DocumentUploaded) Name() string { return "DocumentUploaded" }

// AccessGranted is emitted for a single grant.
type AccessGranted struct {
	DocumentID id.DocumentID
	Owner      id.AccountID
	Facility   id.FacilityID
	ExpiresAt  int64
}

func (AccessGranted) Name() string { return "AccessGranted" }

// AccessRevoked is emitted when an existing grant is revoked. Revoking a
// nonexistent grant is a silent no-op and emits nothing.
type AccessRevoked struct {
	DocumentID id.DocumentID
	Owner      id.AccountID
	Facility   id.FacilityID
}

func (AccessRevoked) Name() string { return "AccessRevoked" }

// BatchAccessGranted is emitted once per committed batch, listing every
// document and facility covered. A batch of one is observably different from
// a single AccessGranted; subscribers rely on that distinction.
type BatchAccessGranted struct {
	DocumentIDs []id.DocumentID
	Owner       id.AccountID
	Facilities  []id.FacilityID
	ExpiresAt   int64
}

func (BatchAccessGranted) Name() string { return "BatchAccessGranted" }

// Bus fans registry events out to subscribers. Publishing happens inside the
// registry's serialized commit section, so subscribers see events in commit
// order. Handlers must be fast and must not call back into the registry.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(ev)
	}
}
