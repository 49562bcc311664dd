// Package credentials persists the bearer token and the cached user profile
// as two independent string entries of an origin-scoped key-value store.
//
// Reads fail closed: a missing, unreadable or malformed entry is reported as
// absent and logged, never returned as an error.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/logger"
)

// Persisted entry names.
const (
	TokenKey = "workshop_token"
	UserKey  = "workshop_user"
)

// Store is the durable backing copy of the session.
type Store struct {
	kv domain.KeyValueStore
}

// NewStore wraps kv.
func NewStore(kv domain.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Save writes both entries, overwriting existing ones. The previous profile
// is removed before the new token is written, so a failed write leaves at
// most a token without a profile, never a token paired with another user.
func (s *Store) Save(ctx context.Context, token string, profile domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Remove(ctx, UserKey); err != nil {
		return fmt.Errorf("remove %s: %w", UserKey, err)
	}
	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store %s: %w", TokenKey, err)
	}
	if err := s.kv.Set(ctx, UserKey, string(data)); err != nil {
		return fmt.Errorf("store %s: %w", UserKey, err)
	}
	return nil
}

// Clear removes both entries. Both removals are attempted even if the first
// fails.
func (s *Store) Clear(ctx context.Context) error {
	var errs []error
	if err := s.kv.Remove(ctx, TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", TokenKey, err))
	}
	if err := s.kv.Remove(ctx, UserKey); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", UserKey, err))
	}
	return errors.Join(errs...)
}

// ReadToken returns the stored token. An empty string counts as absent.
func (s *Store) ReadToken(ctx context.Context) (string, bool) {
	token, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", TokenKey).Msg("Stored token unreadable, treating as absent")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ReadProfile returns the stored profile, or false when it is missing or
// does not decode to a JSON object.
func (s *Store) ReadProfile(ctx context.Context) (*domain.UserProfile, bool) {
	raw, ok, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", UserKey).Msg("Stored profile unreadable, treating as absent")
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var profile *domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil || profile == nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", UserKey).Msg("Stored profile malformed, treating as absent")
		return nil, false
	}
	return profile, true
}
