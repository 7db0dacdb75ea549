//go:build integration

package facility_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docvault/internal/facility"
	platformredis "docvault/internal/platform/redis"
	"docvault/pkg/platform/sentinel"
	"docvault/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	client *platformredis.Client
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	client, err := platformredis.New(s.redis.Addr)
	s.Require().NoError(err)
	s.client = client
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CachedStoreSuite) TestReadThrough() {
	ctx := context.Background()
	inner := facility.NewInMemoryStore()
	cached := facility.NewCachedStore(inner, s.client, time.Minute)
	s.Require().NoError(facility.Seed(ctx, cached))

	const addr = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"

	s.Run("lookup populates the cache", func() {
		f, err := cached.FindByAddress(ctx, addr)
		s.Require().NoError(err)
		s.Equal("City General Hospital", f.Name)

		exists, err := s.client.Exists(ctx, "facility:addr:"+addr).Result()
		s.Require().NoError(err)
		s.EqualValues(1, exists)
	})

	s.Run("cache serves reads when the inner store misses", func() {
		// Drop the entry from the inner store only; the cached copy from the
		// previous lookup must still resolve.
		fresh := facility.NewCachedStore(facility.NewInMemoryStore(), s.client, time.Minute)
		f, err := fresh.FindByAddress(ctx, addr)
		s.Require().NoError(err)
		s.Equal("City General Hospital", f.Name)
	})

	s.Run("unknown address misses both layers", func() {
		_, err := cached.FindByAddress(ctx, "0xmissing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save writes through to the cache", func() {
		f, err := inner.FindByAddress(ctx, addr)
		s.Require().NoError(err)
		f.Name = "Renamed Hospital"
		s.Require().NoError(cached.Save(ctx, f))

		got, err := cached.FindByAddress(ctx, addr)
		s.Require().NoError(err)
		s.Equal("Renamed Hospital", got.Name)
	})
}
