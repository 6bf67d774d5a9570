// Package draft persists unsaved dashboard form state in Redis so a
// user can close the browser mid-edit and pick up where they left off.
package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("draft not found")

// defaultTTL is how long an untouched draft survives.
const defaultTTL = 7 * 24 * time.Hour

// Store saves opaque draft payloads keyed by tenant and form key.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a Redis-backed draft store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: defaultTTL}
}

func draftKey(tenantID, key string) string {
	return fmt.Sprintf("draft:%s:%s", tenantID, key)
}

// Save stores a draft payload, resetting its expiry.
func (s *Store) Save(ctx context.Context, tenantID, key string, payload []byte) error {
	if err := s.rdb.Set(ctx, draftKey(tenantID, key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns a previously saved draft payload.
func (s *Store) Load(ctx context.Context, tenantID, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, draftKey(tenantID, key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return data, nil
}

// Clear removes a draft, typically after the form is submitted.
func (s *Store) Clear(ctx context.Context, tenantID, key string) error {
	if err := s.rdb.Del(ctx, draftKey(tenantID, key)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
