// Package session implements the SessionStore port on Redis. Wizard state is
// short-lived by nature, so every entry carries a TTL and an expired session
// simply surfaces as unknown.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shipment-consolidation-service/internal/domain"
)

const (
	draftPrefix      = "session:draft:"
	allocationPrefix = "session:allocation:"

	// DefaultTTL bounds how long an operator can park a half-built wizard.
	DefaultTTL = 30 * time.Minute
)

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) PutDraft(ctx context.Context, d *domain.ShipmentDraft) error {
	return s.put(ctx, draftPrefix+d.DraftID, d)
}

func (s *RedisSessionStore) GetDraft(ctx context.Context, id string) (*domain.ShipmentDraft, error) {
	var d domain.ShipmentDraft
	if err := s.get(ctx, draftPrefix+id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisSessionStore) DeleteDraft(ctx context.Context, id string) error {
	return s.del(ctx, draftPrefix+id)
}

func (s *RedisSessionStore) PutAllocation(ctx context.Context, a *domain.AllocationSession) error {
	return s.put(ctx, allocationPrefix+a.SessionID, a)
}

func (s *RedisSessionStore) GetAllocation(ctx context.Context, id string) (*domain.AllocationSession, error) {
	var a domain.AllocationSession
	if err := s.get(ctx, allocationPrefix+id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RedisSessionStore) DeleteAllocation(ctx context.Context, id string) error {
	return s.del(ctx, allocationPrefix+id)
}

func (s *RedisSessionStore) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session store: encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: set %q: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) get(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("session store: %q: %w", key, domain.ErrUnknownSession)
	}
	if err != nil {
		return fmt.Errorf("session store: get %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("session store: decode %q: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session store: delete %q: %w", key, err)
	}
	return nil
}
