package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	platformredis "docvault/internal/platform/redis"
)

// CachedStore is a read-through Redis cache in front of another Store.
// Lookups by address are the hot path (every grant submission resolves its
// facilities); listings always go to the inner store.
type CachedStore struct {
	inner  Store
	client *platformredis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *platformredis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func cacheKey(address string) string {
	return "facility:addr:" + address
}

func (s *CachedStore) Save(ctx context.Context, f Facility) error {
	if err := s.inner.Save(ctx, f); err != nil {
		return err
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal facility: %w", err)
	}
	if err := s.client.Set(ctx, cacheKey(f.Address.String()), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache facility: %w", err)
	}
	return nil
}

func (s *CachedStore) List(ctx context.Context) ([]Facility, error) {
	return s.inner.List(ctx)
}

func (s *CachedStore) FindByAddress(ctx context.Context, address string) (Facility, error) {
	payload, err := s.client.Get(ctx, cacheKey(address)).Bytes()
	if err == nil {
		var f Facility
		if err := json.Unmarshal(payload, &f); err == nil {
			return f, nil
		}
		// Corrupt cache entry: fall through to the inner store.
	} else if !errors.Is(err, goredis.Nil) {
		return Facility{}, fmt.Errorf("facility cache read: %w", err)
	}

	f, err := s.inner.FindByAddress(ctx, address)
	if err != nil {
		return Facility{}, err
	}
	if payload, err := json.Marshal(f); err == nil {
		_ = s.client.Set(ctx, cacheKey(address), payload, s.ttl).Err()
	}
	return f, nil
}

var _ Store = (*CachedStore)(nil)
