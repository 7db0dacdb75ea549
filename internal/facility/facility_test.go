package facility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "docvault/pkg/domain-errors"
	"docvault/pkg/platform/sentinel"
)

type DirectorySuite struct {
	suite.Suite
	ctx       context.Context
	store     *InMemoryStore
	directory *Directory
}

func (s *DirectorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.directory = NewDirectory(s.store)
	s.Require().NoError(Seed(s.ctx, s.store))
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) TestSeed() {
	s.Run("seeds the bootstrap directory once", func() {
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 5)
		s.Equal("City General Hospital", all[0].Name)
	})

	s.Run("reseeding does not duplicate entries", func() {
		s.Require().NoError(Seed(s.ctx, s.store))
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 5)
	})
}

func (s *DirectorySuite) TestSearch() {
	s.Run("empty query returns the full directory", func() {
		all, err := s.directory.Search(s.ctx, "")
		s.Require().NoError(err)
		s.Len(all, 5)
	})

	s.Run("matches names case-insensitively", func() {
		found, err := s.directory.Search(s.ctx, "wellness")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("Wellness Medical Center", found[0].Name)
	})

	s.Run("matches facility types", func() {
		found, err := s.directory.Search(s.ctx, "clinic")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("Medicare Clinic", found[0].Name)
	})

	s.Run("no match yields an empty list, not an error", func() {
		found, err := s.directory.Search(s.ctx, "veterinary")
		s.Require().NoError(err)
		s.Empty(found)
	})
}

func (s *DirectorySuite) TestResolve() {
	s.Run("resolves a known address", func() {
		f, err := s.directory.Resolve(s.ctx, "0xdAC17F958D2ee523a2206206994597C13D831ec7")
		s.Require().NoError(err)
		s.Equal("HealthCare Insurance Co.", f.Name)
	})

	s.Run("unknown address yields not found", func() {
		_, err := s.directory.Resolve(s.ctx, "0x0000000000000000000000000000000000000000")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *DirectorySuite) TestStoreContract() {
	s.Run("find by address returns the sentinel for misses", func() {
		_, err := s.store.FindByAddress(s.ctx, "0xmissing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save overwrites by address and keeps order", func() {
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		first := all[0]
		first.Name = "Renamed Hospital"
		s.Require().NoError(s.store.Save(s.ctx, first))

		all, err = s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 5)
		s.Equal("Renamed Hospital", all[0].Name)
	})
}
