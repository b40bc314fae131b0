package session

import (
	"context"
	"errors"
	"time"

	"countries_app_echo/internal/services"
)

// RedisStore keeps markers in Redis so they survive restarts and are shared
// between server replicas.
type RedisStore struct {
	cache *services.RedisCache
}

// NewRedisStore wraps a connected cache.
func NewRedisStore(cache *services.RedisCache) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Put(ctx context.Context, id string, ttl time.Duration) error {
	return s.cache.Set(ctx, markerKey(id), true, ttl)
}

func (s *RedisStore) Has(ctx context.Context, id string) (bool, error) {
	var marker bool
	err := s.cache.Get(ctx, markerKey(id), &marker)
	if errors.Is(err, services.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return marker, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, markerKey(id))
}
