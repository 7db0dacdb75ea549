//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"docvault/internal/registry"
	"docvault/internal/registry/store"
	id "docvault/pkg/domain"
	"docvault/pkg/platform/tx"
	"docvault/pkg/testutil/containers"
)

type PostgresLogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	log      *store.PostgresLog
}

func TestPostgresLogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLogSuite))
}

func (s *PostgresLogSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.log = store.NewPostgresLog(s.postgres.DB)
	s.Require().NoError(s.log.EnsureSchema(context.Background()))
}

func (s *PostgresLogSuite) SetupTest() {
	_, err := s.postgres.DB.ExecContext(context.Background(), "TRUNCATE registry_log RESTART IDENTITY")
	s.Require().NoError(err)
}

func (s *PostgresLogSuite) TestAppendAndReplay() {
	ctx := context.Background()
	commands := []registry.Command{
		{Op: registry.OpUploadDocument, Caller: "0xowner", At: 100, ContentRef: "ipfs://QmRef", DocType: "medical_record", IntegrityHash: "0xhash"},
		{Op: registry.OpGrantAccess, Caller: "0xowner", At: 101, DocumentID: 1, Facility: "0xclinic", ExpiresAt: 200},
		{
			Op:          registry.OpBatchGrantAccess,
			Caller:      "0xowner",
			At:          102,
			DocumentIDs: []id.DocumentID{1, 2},
			Facilities:  []id.FacilityID{"0xclinic", "0xhospital"},
			ExpiresAt:   300,
		},
	}
	for _, cmd := range commands {
		s.Require().NoError(s.log.Append(ctx, cmd))
	}

	var replayed []registry.Command
	err := s.log.Replay(ctx, func(cmd registry.Command) error {
		replayed = append(replayed, cmd)
		return nil
	})
	s.Require().NoError(err)
	s.Equal(commands, replayed)
}

func (s *PostgresLogSuite) TestRegistryRebuildsFromDurableLog() {
	ctx := context.Background()

	first := registryWithLog(s.log)
	s.Require().NoError(first.Load(ctx))
	ev, err := first.UploadDocument(ctx, "0xowner", "ipfs://QmRef", "medical_record", "0xhash")
	s.Require().NoError(err)
	_, err = first.GrantAccess(ctx, "0xowner", ev.DocumentID, "0xclinic", registry.WallClock{}.Now()+3600)
	s.Require().NoError(err)

	second := registryWithLog(s.log)
	s.Require().NoError(second.Load(ctx))

	doc, err := second.GetDocument(ev.DocumentID)
	s.Require().NoError(err)
	s.Equal(id.AccountID("0xowner"), doc.Owner)
	s.True(second.HasValidAccess(ev.DocumentID, "0xclinic"))
}

func registryWithLog(log registry.CommandLog) *registry.Registry {
	return registry.New(registry.WallClock{}, log, registry.NewBus(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *PostgresLogSuite) TestAppendJoinsCallerTransaction() {
	ctx := context.Background()

	dbTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(ctx, dbTx)

	s.Require().NoError(s.log.Append(txCtx, registry.Command{Op: registry.OpUploadDocument, Caller: "0xowner", At: 1}))
	s.Require().NoError(dbTx.Rollback())

	count := 0
	s.Require().NoError(s.log.Replay(ctx, func(registry.Command) error {
		count++
		return nil
	}))
	s.Zero(count, "rolled back append must not be visible")
}

func (s *PostgresLogSuite) TestSchemaIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.log.EnsureSchema(ctx))
	s.Require().NoError(s.log.EnsureSchema(ctx))
}
