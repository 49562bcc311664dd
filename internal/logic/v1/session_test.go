package v1

import (
	"context"
	"errors"
	"testing"

	"github.com/duynhne/workshop-console/internal/core/credentials"
	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/core/repository"
)

var adminResponse = domain.AuthResponse{
	Token:    "test-jwt-token",
	Type:     "Bearer",
	ID:       1,
	Username: "admin",
	Email:    "admin@test.com",
	FullName: "Admin User",
	Role:     domain.RoleAdmin,
}

func newSession(t *testing.T) (*SessionState, *credentials.Store, *repository.MemoryStorageRepository) {
	t.Helper()
	kv := repository.NewMemoryStorageRepository("http://api.test")
	store := credentials.NewStore(kv)
	return NewSessionState(store), store, kv
}

type brokenStore struct{ err error }

func (b brokenStore) Save(context.Context, string, domain.UserProfile) error { return b.err }
func (b brokenStore) Clear(context.Context) error                            { return b.err }
func (b brokenStore) ReadToken(context.Context) (string, bool)               { return "", false }
func (b brokenStore) ReadProfile(context.Context) (*domain.UserProfile, bool) {
	return nil, false
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		user     string
		wantUser bool
		wantAuth bool
	}{
		{name: "empty store"},
		{name: "valid session", token: "tok", user: `{"id":1,"username":"admin","email":"admin@test.com","fullName":"Admin","role":"ADMIN"}`, wantUser: true, wantAuth: true},
		{name: "malformed profile", token: "tok", user: `{"id":`, wantUser: false, wantAuth: true},
		{name: "token only", token: "tok", wantAuth: true},
		{name: "profile without token", user: `{"id":2,"username":"mech","role":"MECHANIC"}`, wantUser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, _, kv := newSession(t)
			if tt.token != "" {
				_ = kv.Set(ctx, credentials.TokenKey, tt.token)
			}
			if tt.user != "" {
				_ = kv.Set(ctx, credentials.UserKey, tt.user)
			}

			if err := s.Initialize(ctx); err != nil {
				t.Fatalf("Initialize: %v", err)
			}
			if got := s.CurrentUser() != nil; got != tt.wantUser {
				t.Errorf("CurrentUser present = %v, want %v", got, tt.wantUser)
			}
			if got := s.IsAuthenticated(); got != tt.wantAuth {
				t.Errorf("IsAuthenticated = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestInitializeOnce(t *testing.T) {
	s, _, _ := newSession(t)
	ctx := context.Background()
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := s.Initialize(ctx); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Initialize error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestRecordAuthenticationRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t)

	if err := s.RecordAuthentication(ctx, adminResponse); err != nil {
		t.Fatalf("RecordAuthentication: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("IsAuthenticated = false after authentication")
	}

	token, ok := store.ReadToken(ctx)
	if !ok || token != adminResponse.Token {
		t.Errorf("stored token = %q, %v", token, ok)
	}
	profile, ok := store.ReadProfile(ctx)
	if !ok {
		t.Fatal("stored profile missing")
	}
	if *profile != adminResponse.Profile() {
		t.Errorf("stored profile = %+v, want %+v", *profile, adminResponse.Profile())
	}

	// A fresh process sees the same session.
	restored := NewSessionState(store)
	_ = restored.Initialize(ctx)
	if u := restored.CurrentUser(); u == nil || *u != adminResponse.Profile() {
		t.Errorf("restored user = %+v", u)
	}
}

func TestRecordAuthenticationRejectsEmptyToken(t *testing.T) {
	s, _, _ := newSession(t)
	resp := adminResponse
	resp.Token = ""
	if err := s.RecordAuthentication(context.Background(), resp); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("error = %v, want ErrEmptyToken", err)
	}
	if s.IsAuthenticated() || s.CurrentUser() != nil {
		t.Error("session changed by rejected authentication")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t)

	mech := adminResponse
	mech.Token, mech.Username, mech.Role = "tok-2", "mechanic", domain.RoleMechanic
	for _, r := range []domain.AuthResponse{adminResponse, mech} {
		if err := s.RecordAuthentication(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated = true after logout")
	}
	if s.CurrentUser() != nil {
		t.Error("CurrentUser != nil after logout")
	}
	if _, ok := store.ReadToken(ctx); ok {
		t.Error("token entry survived logout")
	}
	if _, ok := store.ReadProfile(ctx); ok {
		t.Error("profile entry survived logout")
	}
}

func TestPersistenceFailureStillUpdatesMemory(t *testing.T) {
	ctx := context.Background()
	s := NewSessionState(brokenStore{err: domain.ErrStorageUnavailable})

	err := s.RecordAuthentication(ctx, adminResponse)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("error = %v, want ErrPersistence wrapping ErrStorageUnavailable", err)
	}
	if !s.IsAuthenticated() {
		t.Error("in-memory session not updated")
	}

	if err := s.Logout(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Logout error = %v, want ErrPersistence", err)
	}
	if s.IsAuthenticated() || s.CurrentUser() != nil {
		t.Error("logout left an in-memory session")
	}
}

type failProfileWrites struct {
	*repository.MemoryStorageRepository
}

func (f failProfileWrites) Set(ctx context.Context, key, value string) error {
	if key == credentials.UserKey {
		return domain.ErrStorageUnavailable
	}
	return f.MemoryStorageRepository.Set(ctx, key, value)
}

func TestPartialSaveDoesNotRestoreStaleRole(t *testing.T) {
	ctx := context.Background()
	s, _, kv := newSession(t)
	if err := s.RecordAuthentication(ctx, adminResponse); err != nil {
		t.Fatal(err)
	}

	mech := adminResponse
	mech.Token, mech.Username, mech.Role = "mech-tok", "mechanic", domain.RoleMechanic
	flaky := NewSessionState(credentials.NewStore(failProfileWrites{kv}))
	if err := flaky.RecordAuthentication(ctx, mech); !errors.Is(err, ErrPersistence) {
		t.Fatalf("error = %v, want ErrPersistence", err)
	}

	restarted := NewSessionState(credentials.NewStore(kv))
	if err := restarted.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if token, _ := restarted.Token(); token != "mech-tok" {
		t.Errorf("token = %q, want mech-tok", token)
	}
	if restarted.IsAdmin() {
		t.Errorf("mechanic token restored with admin role: %+v", restarted.CurrentUser())
	}
	if Evaluate(restarted.Snapshot(), Navigation{URL: "/services"}, AdminRequired).Allowed {
		t.Error("admin view allowed after partial save")
	}
}

func TestRoleDerivation(t *testing.T) {
	tests := []struct {
		role      string
		wantAdmin bool
	}{
		{role: domain.RoleAdmin, wantAdmin: true},
		{role: domain.RoleMechanic, wantAdmin: false},
		{role: domain.RoleReceptionist, wantAdmin: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			s, _, _ := newSession(t)
			resp := adminResponse
			resp.Role = tt.role
			_ = s.RecordAuthentication(context.Background(), resp)

			if got := s.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin = %v, want %v", got, tt.wantAdmin)
			}
			if s.IsAdmin() != s.HasRole(domain.RoleAdmin) {
				t.Error("IsAdmin disagrees with HasRole(ADMIN)")
			}
			if !s.HasRole(tt.role) {
				t.Errorf("HasRole(%q) = false", tt.role)
			}
		})
	}

	s, _, _ := newSession(t)
	if s.HasRole(domain.RoleAdmin) || s.IsAdmin() {
		t.Error("anonymous session reports a role")
	}
}

func TestSubscribeReplaysLatest(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)
	_ = s.RecordAuthentication(ctx, adminResponse)

	var got []*domain.UserProfile
	unsubscribe := s.Subscribe(func(u *domain.UserProfile) { got = append(got, u) })

	if len(got) != 1 || got[0] == nil || got[0].Username != "admin" {
		t.Fatalf("replayed value = %+v, want admin", got)
	}

	_ = s.Logout(ctx)
	if len(got) != 2 || got[1] != nil {
		t.Fatalf("after logout got %+v, want trailing nil", got)
	}

	unsubscribe()
	unsubscribe()
	_ = s.RecordAuthentication(ctx, adminResponse)
	if len(got) != 2 {
		t.Errorf("listener called after unsubscribe: %d values", len(got))
	}
}

func TestSubscribeSeesEveryChangeInOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	var names []string
	s.Subscribe(func(u *domain.UserProfile) {
		if u == nil {
			names = append(names, "")
			return
		}
		names = append(names, u.Username)
	})

	_ = s.Initialize(ctx)
	_ = s.RecordAuthentication(ctx, adminResponse)
	_ = s.Logout(ctx)

	want := []string{"", "", "admin", ""}
	if len(names) != len(want) {
		t.Fatalf("names = %q, want %q", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListenerReadsPostChangeState(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)
	_ = s.RecordAuthentication(ctx, adminResponse)

	var authenticatedInListener []bool
	s.Subscribe(func(*domain.UserProfile) {
		authenticatedInListener = append(authenticatedInListener, s.IsAuthenticated())
	})
	_ = s.Logout(ctx)

	if authenticatedInListener[len(authenticatedInListener)-1] {
		t.Error("listener observed pre-logout state")
	}
}

func TestCurrentUserIsACopy(t *testing.T) {
	s, _, _ := newSession(t)
	_ = s.RecordAuthentication(context.Background(), adminResponse)

	u := s.CurrentUser()
	u.Role = domain.RoleMechanic
	if !s.IsAdmin() {
		t.Error("mutating the returned profile changed the session")
	}
}

func TestTeardown(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	calls := 0
	s.Subscribe(func(*domain.UserProfile) { calls++ })
	s.Teardown()

	_ = s.RecordAuthentication(ctx, adminResponse)
	if calls != 1 {
		t.Errorf("listener called %d times, want only the initial replay", calls)
	}

	s.Subscribe(func(*domain.UserProfile) { calls++ })
	if calls != 1 {
		t.Error("Subscribe after Teardown delivered a value")
	}
	if !s.IsAuthenticated() {
		t.Error("state not updated after Teardown")
	}
}

func TestWatch(t *testing.T) {
	s, _, _ := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Watch(ctx)
	if u := <-ch; u != nil {
		t.Fatalf("first value = %+v, want nil", u)
	}

	_ = s.RecordAuthentication(context.Background(), adminResponse)
	if u := <-ch; u == nil || u.Username != "admin" {
		t.Fatalf("second value = %+v, want admin", u)
	}

	cancel()
	for range ch {
	}
}

func TestTeardownClosesWatchers(t *testing.T) {
	s, _, _ := newSession(t)
	ch := s.Watch(context.Background())
	<-ch

	s.Teardown()
	s.Teardown()
	for range ch {
	}

	late := s.Watch(context.Background())
	if _, ok := <-late; ok {
		t.Error("Watch after Teardown delivered a value")
	}
}
