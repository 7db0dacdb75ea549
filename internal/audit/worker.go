package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docvault/internal/registry"
	id "docvault/pkg/domain"
)

// Sink receives entries after they are persisted, for fan-out to external
// systems. A nil sink is allowed.
type Sink interface {
	Publish(ctx context.Context, entry Entry) error
}

// Worker consumes registry events off a buffered inbox and persists them as
// trail entries. The inbox decouples the registry's commit section from
// storage and sink latency; when the inbox is full, events are dropped with a
// log line rather than stalling commits.
type Worker struct {
	store  Store
	sink   Sink
	logger *slog.Logger
	inbox  chan registry.Event
}

func NewWorker(store Store, sink Sink, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		store:  store,
		sink:   sink,
		logger: logger,
		inbox:  make(chan registry.Event, buffer),
	}
}

// Intake returns the subscription callback to register on the registry bus.
func (w *Worker) Intake() func(registry.Event) {
	return func(ev registry.Event) {
		select {
		case w.inbox <- ev:
		default:
			w.logger.Warn("audit inbox full, dropping event", "event", ev.Name())
		}
	}
}

// Run processes the inbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.inbox:
			w.record(ctx, ev)
		}
	}
}

func (w *Worker) record(ctx context.Context, ev registry.Event) {
	entry, ok := toEntry(ev)
	if !ok {
		w.logger.Warn("unrecognized registry event", "event", ev.Name())
		return
	}
	if err := w.store.Append(ctx, entry); err != nil {
		w.logger.Error("audit append failed", "action", entry.Action, "error", err.Error())
		return
	}
	if w.sink != nil {
		if err := w.sink.Publish(ctx, entry); err != nil {
			w.logger.Error("audit sink publish failed", "action", entry.Action, "error", err.Error())
		}
	}
}

func toEntry(ev registry.Event) (Entry, bool) {
	base := Entry{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
	}
	switch e := ev.(type) {
	case registry.DocumentUploaded:
		base.Action = ActionDocumentUploaded
		base.Actor = e.Owner
		base.DocumentIDs = []id.DocumentID{e.DocumentID}
	case registry.AccessGranted:
		base.Action = ActionAccessGranted
		base.Actor = e.Owner
		base.DocumentIDs = []id.DocumentID{e.DocumentID}
		base.Facilities = []id.FacilityID{e.Facility}
		base.ExpiresAt = e.ExpiresAt
	case registry.AccessRevoked:
		base.Action = ActionAccessRevoked
		base.Actor = e.Owner
		base.DocumentIDs = []id.DocumentID{e.DocumentID}
		base.Facilities = []id.FacilityID{e.Facility}
	case registry.BatchAccessGranted:
		base.Action = ActionBatchAccessGranted
		base.Actor = e.Owner
		base.DocumentIDs = append([]id.DocumentID(nil), e.DocumentIDs...)
		base.Facilities = append([]id.FacilityID(nil), e.Facilities...)
		base.ExpiresAt = e.ExpiresAt
	default:
		return Entry{}, false
	}
	return base, true
}
