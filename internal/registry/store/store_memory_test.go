package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"docvault/internal/registry"
	id "docvault/pkg/domain"
)

type InMemoryLogSuite struct {
	suite.Suite
	log *InMemoryLog
	ctx context.Context
}

func (s *InMemoryLogSuite) SetupTest() {
	s.log = NewInMemoryLog()
	s.ctx = context.Background()
}

func TestInMemoryLogSuite(t *testing.T) {
	suite.Run(t, new(InMemoryLogSuite))
}

func (s *InMemoryLogSuite) TestAppendAndReplay() {
	s.Run("replays commands in append order", func() {
		commands := []registry.Command{
			{Op: registry.OpUploadDocument, Caller: "0xowner", At: 100, ContentRef: "ref-1"},
			{Op: registry.OpGrantAccess, Caller: "0xowner", At: 101, DocumentID: 1, Facility: "0xclinic", ExpiresAt: 200},
			{Op: registry.OpRevokeAccess, Caller: "0xowner", At: 102, DocumentID: 1, Facility: "0xclinic"},
		}
		for _, cmd := range commands {
			s.Require().NoError(s.log.Append(s.ctx, cmd))
		}

		var replayed []registry.Command
		err := s.log.Replay(s.ctx, func(cmd registry.Command) error {
			replayed = append(replayed, cmd)
			return nil
		})
		s.Require().NoError(err)
		s.Equal(commands, replayed)
	})

	s.Run("empty log replays nothing", func() {
		fresh := NewInMemoryLog()
		count := 0
		s.Require().NoError(fresh.Replay(s.ctx, func(registry.Command) error {
			count++
			return nil
		}))
		s.Zero(count)
	})

	s.Run("replay stops on callback error", func() {
		s.Require().NoError(s.log.Append(s.ctx, registry.Command{Op: registry.OpUploadDocument}))
		err := s.log.Replay(s.ctx, func(registry.Command) error {
			return context.Canceled
		})
		s.ErrorIs(err, context.Canceled)
	})

	s.Run("replay honors context cancellation", func() {
		s.Require().NoError(s.log.Append(s.ctx, registry.Command{Op: registry.OpUploadDocument}))
		cancelled, cancel := context.WithCancel(s.ctx)
		cancel()

		err := s.log.Replay(cancelled, func(registry.Command) error { return nil })
		s.ErrorIs(err, context.Canceled)
	})

	s.Run("batch command round-trips its slices", func() {
		cmd := registry.Command{
			Op:          registry.OpBatchGrantAccess,
			Caller:      "0xowner",
			At:          103,
			DocumentIDs: []id.DocumentID{1, 2},
			Facilities:  []id.FacilityID{"0xclinic", "0xhospital"},
			ExpiresAt:   300,
		}
		fresh := NewInMemoryLog()
		s.Require().NoError(fresh.Append(s.ctx, cmd))

		var got registry.Command
		s.Require().NoError(fresh.Replay(s.ctx, func(c registry.Command) error {
			got = c
			return nil
		}))
		s.Equal(cmd, got)
	})
}
