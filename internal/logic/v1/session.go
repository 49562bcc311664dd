package v1

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/logger"
	"github.com/duynhne/workshop-console/middleware"
)

// CredentialStore is the durable copy of the session. It is written through
// on every change and read only by Initialize.
type CredentialStore interface {
	Save(ctx context.Context, token string, profile domain.UserProfile) error
	Clear(ctx context.Context) error
	ReadToken(ctx context.Context) (string, bool)
	ReadProfile(ctx context.Context) (*domain.UserProfile, bool)
}

// Listener receives the current user after every change; nil means logged out.
// Listeners run synchronously on the mutating goroutine and must not call
// Initialize, RecordAuthentication, Logout, Subscribe or an unsubscribe func.
type Listener func(user *domain.UserProfile)

// Snapshot is a consistent view of the session taken at one instant.
type Snapshot struct {
	Token string
	User  *domain.UserProfile
}

// IsAuthenticated reports whether a token is held. It says nothing about
// whether the server still accepts it.
func (s Snapshot) IsAuthenticated() bool { return s.Token != "" }

func (s Snapshot) HasRole(role string) bool { return s.User != nil && s.User.Role == role }

func (s Snapshot) IsAdmin() bool { return s.HasRole(domain.RoleAdmin) }

// SessionState is the single in-memory source of who is logged in. One
// instance is built by the composition root and shared by reference.
type SessionState struct {
	store CredentialStore

	// mu guards the fields read by the accessors.
	mu    sync.RWMutex
	token string
	user  *domain.UserProfile

	// writeMu serializes mutations with their notification so listeners see
	// changes in the order they were made.
	writeMu     sync.Mutex
	initialized bool
	closed      bool
	done        chan struct{}
	listeners   map[uint64]Listener
	nextID      uint64
}

// NewSessionState creates a logged-out session backed by store.
func NewSessionState(store CredentialStore) *SessionState {
	return &SessionState{
		store:     store,
		done:      make(chan struct{}),
		listeners: make(map[uint64]Listener),
	}
}

// Initialize rehydrates the session from the credential store. The token is
// not validated against the server. It may be called once.
func (s *SessionState) Initialize(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "session.initialize", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.initialized {
		return fmt.Errorf("initialize: %w", ErrAlreadyInitialized)
	}
	s.initialized = true

	token, _ := s.store.ReadToken(ctx)
	user, _ := s.store.ReadProfile(ctx)
	s.set(token, user)

	span.SetAttributes(
		attribute.Bool("session.token_present", token != ""),
		attribute.Bool("session.profile_present", user != nil),
	)
	event := logger.FromContext(ctx).Info().Bool("authenticated", token != "")
	if user != nil {
		event = event.Str("username", user.Username).Str("role", user.Role)
	}
	event.Msg("Session restored")

	middleware.RecordSessionChange("initialize")
	s.publish()
	return nil
}

// RecordAuthentication stores the token and derived profile of a successful
// login or registration and publishes the new user. When the store cannot be
// written the in-memory session is still updated and ErrPersistence is
// returned.
func (s *SessionState) RecordAuthentication(ctx context.Context, resp domain.AuthResponse) error {
	ctx, span := middleware.StartSpan(ctx, "session.record_authentication", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", resp.Username),
	))
	defer span.End()

	if resp.Token == "" {
		return fmt.Errorf("record authentication for %q: %w", resp.Username, ErrEmptyToken)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	profile := resp.Profile()
	var err error
	if saveErr := s.store.Save(ctx, resp.Token, profile); saveErr != nil {
		span.RecordError(saveErr)
		err = fmt.Errorf("record authentication for %q: %w: %w", resp.Username, ErrPersistence, saveErr)
	}

	s.set(resp.Token, &profile)
	middleware.RecordSessionChange("authenticate")
	s.publish()

	logger.FromContext(ctx).Info().
		Int64("user_id", profile.ID).
		Str("username", profile.Username).
		Str("role", profile.Role).
		Msg("Session authenticated")
	return err
}

// Logout clears the credential store and publishes nil. No server call is
// made. The in-memory session is cleared even if the store is not.
func (s *SessionState) Logout(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "session.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	if clearErr := s.store.Clear(ctx); clearErr != nil {
		span.RecordError(clearErr)
		err = fmt.Errorf("logout: %w: %w", ErrPersistence, clearErr)
	}

	s.set("", nil)
	middleware.RecordSessionChange("logout")
	s.publish()

	logger.FromContext(ctx).Info().Msg("Session cleared")
	return err
}

// Teardown drops every listener and closes every Watch channel. Later
// changes are still applied and persisted but no longer published.
func (s *SessionState) Teardown() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	clear(s.listeners)
}

// Subscribe registers fn and immediately calls it with the current user.
// The returned func removes the listener.
func (s *SessionState) Subscribe(fn Listener) (unsubscribe func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	fn(s.CurrentUser())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.writeMu.Lock()
			defer s.writeMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// Watch is Subscribe as a channel. The channel holds at most the latest
// value; a slow reader skips intermediate ones. It is closed once ctx is
// done or the session is torn down.
func (s *SessionState) Watch(ctx context.Context) <-chan *domain.UserProfile {
	ch := make(chan *domain.UserProfile, 1)
	unsubscribe := s.Subscribe(func(user *domain.UserProfile) {
		select {
		case <-ch:
		default:
		}
		ch <- user
	})
	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		unsubscribe()
		close(ch)
	}()
	return ch
}

// IsAuthenticated reports whether a token is currently held.
func (s *SessionState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the bearer token, if any.
func (s *SessionState) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// CurrentUser returns a copy of the last published user, or nil.
func (s *SessionState) CurrentUser() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.user)
}

func (s *SessionState) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

func (s *SessionState) IsAdmin() bool { return s.HasRole(domain.RoleAdmin) }

// Snapshot captures token and user together.
func (s *SessionState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: copyProfile(s.user)}
}

func (s *SessionState) set(token string, user *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = copyProfile(user)
}

// publish must be called with writeMu held.
func (s *SessionState) publish() {
	if s.closed {
		return
	}
	for _, fn := range s.listeners {
		fn(s.CurrentUser())
	}
}

func copyProfile(p *domain.UserProfile) *domain.UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
