// Package session maps opaque tokens to authenticated-user summaries. The
// store sits behind a small key-value port so the process-local map can be
// swapped for Redis without touching call sites.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sobrio/internal/domain/user"
)

// Summary is the per-session snapshot of the authenticated user.
type Summary struct {
	UserID    uint      `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      user.Role `json:"role"`
}

// KV is the storage port: string keys, byte values, TTL-based expiry.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by KV implementations for missing or expired keys.
var ErrNotFound = fmt.Errorf("session: key not found")

// Store issues opaque session tokens with a fixed lifetime bound to the
// session cookie max-age.
type Store struct {
	kv     KV
	prefix string
	ttl    time.Duration
}

func NewStore(kv KV, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "sobrio:session:"
	}
	return &Store{
		kv:     kv,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Create stores the summary under a fresh random token and returns it.
func (s *Store) Create(ctx context.Context, summary Summary) (string, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session summary: %w", err)
	}

	token := uuid.NewString()
	if err := s.kv.Set(ctx, s.prefix+token, data, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get returns the summary for a token, or (nil, nil) when the token is
// unknown or expired.
func (s *Store) Get(ctx context.Context, token string) (*Summary, error) {
	if token == "" {
		return nil, nil
	}

	data, err := s.kv.Get(ctx, s.prefix+token)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session summary: %w", err)
	}
	return &summary, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, s.prefix+token); err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
