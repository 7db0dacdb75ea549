package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"docvault/internal/ledger"
	"docvault/internal/ledger/mocks"
	"docvault/internal/registry"
	"docvault/internal/registry/store"
	id "docvault/pkg/domain"
	dErrors "docvault/pkg/domain-errors"
)

const (
	owner  = id.AccountID("0xowner")
	clinic = id.FacilityID("0xclinic")
	handle = id.CommitHandle("0xabcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
)

type CoordinatorSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	transport *mocks.MockTransport
	clock     *registry.ManualClock
	log       *store.InMemoryLog
	registry  *registry.Registry
	coord     *Coordinator
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.transport = mocks.NewMockTransport(s.ctrl)
	s.clock = registry.NewManualClock(1_000)
	s.log = store.NewInMemoryLog()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.registry = registry.New(s.clock, s.log, registry.NewBus(), logger)
	s.coord = New(s.registry, s.transport, logger, nil)
}

func (s *CoordinatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) expectSubmit(op registry.Op) *gomock.Call {
	return s.transport.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub ledger.Submission) (id.CommitHandle, error) {
			s.Equal(op, sub.Op)
			return handle, nil
		})
}

func (s *CoordinatorSuite) upload() id.DocumentID {
	s.expectSubmit(registry.OpUploadDocument)
	ev, h, err := s.coord.UploadDocument(s.ctx, owner, "ipfs://QmRef", "medical_record", "0xhash")
	s.Require().NoError(err)
	s.Equal(handle, h)
	return ev.DocumentID
}

func (s *CoordinatorSuite) TestSubmissionConfirmsBeforeCommit() {
	s.Run("upload returns the transport handle", func() {
		docID := s.upload()
		doc, err := s.coord.GetDocument(docID)
		s.Require().NoError(err)
		s.True(doc.Active)
	})

	s.Run("transport failure leaves no state behind", func() {
		logged := s.log.Len()
		s.transport.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			Return(id.CommitHandle(""), context.DeadlineExceeded)

		_, _, err := s.coord.UploadDocument(s.ctx, owner, "ipfs://QmOther", "other", "")
		s.True(dErrors.Is(err, dErrors.CodeTimeout))
		s.Equal(logged, s.log.Len(), "nothing may be logged when submission fails")
	})

	s.Run("cancellation maps to internal, not timeout", func() {
		s.transport.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			Return(id.CommitHandle(""), context.Canceled)

		_, _, err := s.coord.UploadDocument(s.ctx, owner, "ipfs://QmOther", "other", "")
		s.Require().Error(err)
		s.False(dErrors.Is(err, dErrors.CodeTimeout))
		s.True(dErrors.Is(err, dErrors.CodeInternal))
	})
}

func (s *CoordinatorSuite) TestRegistryRejectionAfterConfirmation() {
	s.Run("domain error surfaces and handle is discarded", func() {
		docID := s.upload()

		// Grant with an expiry in the past: transport confirms, registry
		// rejects, no grant exists afterwards.
		s.expectSubmit(registry.OpGrantAccess)
		_, _, err := s.coord.GrantAccess(s.ctx, owner, docID, clinic, s.clock.Now()-1)
		s.True(dErrors.Is(err, dErrors.CodeInvalidExpiry))
		s.False(s.coord.HasValidAccess(docID, clinic))
	})
}

func (s *CoordinatorSuite) TestGrantRevokeRoundTrip() {
	docID := s.upload()

	s.expectSubmit(registry.OpGrantAccess)
	ev, h, err := s.coord.GrantAccess(s.ctx, owner, docID, clinic, s.clock.Now()+100)
	s.Require().NoError(err)
	s.Equal(handle, h)
	s.Equal(clinic, ev.Facility)
	s.True(s.coord.HasValidAccess(docID, clinic))

	s.expectSubmit(registry.OpRevokeAccess)
	revoked, h, err := s.coord.RevokeAccess(s.ctx, owner, docID, clinic)
	s.Require().NoError(err)
	s.Equal(handle, h)
	s.Require().NotNil(revoked)
	s.False(s.coord.HasValidAccess(docID, clinic))

	// Idempotent repeat still submits, but the registry no-ops.
	s.expectSubmit(registry.OpRevokeAccess)
	revoked, _, err = s.coord.RevokeAccess(s.ctx, owner, docID, clinic)
	s.Require().NoError(err)
	s.Nil(revoked)
}

func (s *CoordinatorSuite) TestBatchGrant() {
	s.Run("one submission covers the whole batch", func() {
		doc1 := s.upload()
		doc2 := s.upload()

		s.expectSubmit(registry.OpBatchGrantAccess).Times(1)
		ev, h, err := s.coord.BatchGrantAccess(s.ctx, owner,
			[]id.DocumentID{doc1, doc2}, []id.FacilityID{clinic}, s.clock.Now()+100)
		s.Require().NoError(err)
		s.Equal(handle, h)
		s.Len(ev.DocumentIDs, 2)
		s.True(s.coord.HasValidAccess(doc1, clinic))
		s.True(s.coord.HasValidAccess(doc2, clinic))
	})

	s.Run("timeout before commit leaves no partial state", func() {
		doc1 := s.upload()
		doc2 := s.upload()
		logged := s.log.Len()

		s.transport.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			Return(id.CommitHandle(""), context.DeadlineExceeded)

		_, _, err := s.coord.BatchGrantAccess(s.ctx, owner,
			[]id.DocumentID{doc1, doc2}, []id.FacilityID{clinic}, s.clock.Now()+100)
		s.True(dErrors.Is(err, dErrors.CodeTimeout))
		s.Equal(logged, s.log.Len())
		s.False(s.coord.HasValidAccess(doc1, clinic))
		s.False(s.coord.HasValidAccess(doc2, clinic))
	})
}

func (s *CoordinatorSuite) TestQueriesBypassTransport() {
	docID := s.upload()

	// No EXPECT set up for queries: any Submit call would fail the test.
	_, err := s.coord.GetDocument(docID)
	s.Require().NoError(err)
	s.Equal([]id.DocumentID{docID}, s.coord.GetUserDocuments(owner))
	s.False(s.coord.HasValidAccess(docID, clinic))
}

func (s *CoordinatorSuite) TestLoopbackTransport() {
	coord := New(s.registry, ledger.NewLoopback(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	ev, h, err := coord.UploadDocument(s.ctx, owner, "ipfs://QmRef", "other", "")
	s.Require().NoError(err)
	s.Require().Len(h.String(), 66)
	s.Equal("0x", h.String()[:2])

	_, h2, err := coord.GrantAccess(s.ctx, owner, ev.DocumentID, clinic, s.clock.Now()+100)
	s.Require().NoError(err)
	s.NotEqual(h, h2, "each submission gets a fresh handle")
}
