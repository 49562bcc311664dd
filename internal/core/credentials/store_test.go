package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/core/repository"
)

type failingStore struct {
	domain.KeyValueStore
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Remove(context.Context, string) error             { return f.err }

// failOnKey delegates to the wrapped store but fails every Set of key.
type failOnKey struct {
	domain.KeyValueStore
	key string
}

func (f failOnKey) Set(ctx context.Context, key, value string) error {
	if key == f.key {
		return domain.ErrStorageUnavailable
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

var mechanic = domain.UserProfile{
	ID:       7,
	Username: "mechanic",
	Email:    "mech@test.com",
	FullName: "Mike Mechanic",
	Role:     domain.RoleMechanic,
}

func TestSaveWritesPersistedLayout(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStorageRepository("http://api.test")
	store := NewStore(kv)

	if err := store.Save(ctx, "tok-1", mechanic); err != nil {
		t.Fatalf("Save: %v", err)
	}

	token, _, _ := kv.Get(ctx, TokenKey)
	if token != "tok-1" {
		t.Errorf("raw token = %q, want tok-1", token)
	}

	raw, _, _ := kv.Get(ctx, UserKey)
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("stored profile is not JSON: %v", err)
	}
	for _, k := range []string{"id", "username", "email", "fullName", "role"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("stored profile missing %q: %s", k, raw)
		}
	}
}

func TestReadProfile(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		set    bool
		wantOK bool
	}{
		{name: "absent", set: false, wantOK: false},
		{name: "valid", raw: `{"id":7,"username":"mechanic","email":"mech@test.com","fullName":"Mike Mechanic","role":"MECHANIC"}`, set: true, wantOK: true},
		{name: "partial object", raw: `{"id":1,"username":"admin"}`, set: true, wantOK: true},
		{name: "malformed", raw: `{"id":`, set: true, wantOK: false},
		{name: "null", raw: `null`, set: true, wantOK: false},
		{name: "array", raw: `[1,2]`, set: true, wantOK: false},
		{name: "empty", raw: ``, set: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := repository.NewMemoryStorageRepository("http://api.test")
			if tt.set {
				_ = kv.Set(ctx, UserKey, tt.raw)
			}
			profile, ok := NewStore(kv).ReadProfile(ctx)
			if ok != tt.wantOK {
				t.Fatalf("ReadProfile ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && profile == nil {
				t.Fatal("ReadProfile returned ok with nil profile")
			}
		})
	}
}

func TestReadTokenEmptyIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStorageRepository("http://api.test")
	_ = kv.Set(ctx, TokenKey, "")
	if _, ok := NewStore(kv).ReadToken(ctx); ok {
		t.Error("empty token reported as present")
	}
}

func TestReadFailuresDegradeToAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingStore{err: domain.ErrStorageUnavailable})

	if _, ok := store.ReadToken(ctx); ok {
		t.Error("ReadToken ok on failing store")
	}
	if _, ok := store.ReadProfile(ctx); ok {
		t.Error("ReadProfile ok on failing store")
	}
}

func TestClearIdempotentAndJoinsErrors(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStorageRepository("http://api.test")
	store := NewStore(kv)
	_ = store.Save(ctx, "tok", mechanic)

	for i := 0; i < 2; i++ {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear #%d: %v", i+1, err)
		}
	}
	if _, ok := store.ReadToken(ctx); ok {
		t.Error("token survived Clear")
	}
	if _, ok := store.ReadProfile(ctx); ok {
		t.Error("profile survived Clear")
	}

	err := NewStore(failingStore{err: domain.ErrStorageUnavailable}).Clear(ctx)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("Clear error = %v, want ErrStorageUnavailable", err)
	}
	if !strings.Contains(err.Error(), TokenKey) || !strings.Contains(err.Error(), UserKey) {
		t.Errorf("Clear error should mention both keys: %v", err)
	}
}

func TestSealedStore(t *testing.T) {
	ctx := context.Background()
	inner := repository.NewMemoryStorageRepository("http://api.test")
	sealed := NewSealedStore(inner, "s3cret", "http://api.test")
	store := NewStore(sealed)

	if err := store.Save(ctx, "tok-sealed", mechanic); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, _, _ := inner.Get(ctx, TokenKey)
	if raw == "tok-sealed" || strings.Contains(raw, "tok-sealed") {
		t.Errorf("token stored in clear: %q", raw)
	}

	token, ok := store.ReadToken(ctx)
	if !ok || token != "tok-sealed" {
		t.Errorf("ReadToken = %q, %v", token, ok)
	}
	profile, ok := store.ReadProfile(ctx)
	if !ok || *profile != mechanic {
		t.Errorf("ReadProfile = %+v, %v", profile, ok)
	}

	wrongKey := NewStore(NewSealedStore(inner, "other", "http://api.test"))
	if _, ok := wrongKey.ReadToken(ctx); ok {
		t.Error("token opened with the wrong secret")
	}

	_ = inner.Set(ctx, UserKey, "plain-text")
	if _, ok := store.ReadProfile(ctx); ok {
		t.Error("unsealed value accepted")
	}
}

func TestSaveProfileFailureDropsPreviousProfile(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStorageRepository("http://api.test")
	admin := domain.UserProfile{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	if err := NewStore(kv).Save(ctx, "admin-tok", admin); err != nil {
		t.Fatal(err)
	}

	store := NewStore(failOnKey{KeyValueStore: kv, key: UserKey})
	err := store.Save(ctx, "mech-tok", mechanic)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("Save error = %v, want ErrStorageUnavailable", err)
	}

	if token, ok := store.ReadToken(ctx); !ok || token != "mech-tok" {
		t.Errorf("ReadToken = %q, %v", token, ok)
	}
	if p, ok := store.ReadProfile(ctx); ok {
		t.Errorf("profile of the previous user survived: %+v", p)
	}
}
