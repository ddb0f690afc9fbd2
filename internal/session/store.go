package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentx-admin/internal/domain"
	xerrors "rentx-admin/pkg/utils/errors"
	"rentx-admin/pkg/utils/cache"
)

const sessionNamespace = "dashboard_sessions"

// Store persists sessions by id. Get returns xerrors.ErrSessionNotFound for unknown
// or expired ids.
type Store interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	cache *cache.Cache
}

func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func (r *RedisStore) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.cache.Set(ctx, sessionNamespace, s.ID, payload, ttl)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.cache.Get(ctx, sessionNamespace, id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, xerrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionNamespace, id)
}
