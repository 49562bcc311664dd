package v1

import (
	"testing"

	"github.com/duynhne/workshop-console/internal/core/domain"
)

func snapshot(token, role string) Snapshot {
	s := Snapshot{Token: token}
	if role != "" {
		s.User = &domain.UserProfile{ID: 1, Username: "u", Role: role}
	}
	return s
}

func TestGuardDecisionTable(t *testing.T) {
	tests := []struct {
		name         string
		guard        Guard
		session      Snapshot
		url          string
		wantAllowed  bool
		wantRedirect string
	}{
		{
			name:         "anonymous on member view",
			guard:        AuthRequired,
			session:      snapshot("", ""),
			url:          "/dashboard",
			wantRedirect: "/login?returnUrl=/dashboard",
		},
		{
			name:        "authenticated on member view",
			guard:       AuthRequired,
			session:     snapshot("tok", domain.RoleMechanic),
			url:         "/dashboard",
			wantAllowed: true,
		},
		{
			name:         "mechanic on admin view",
			guard:        AdminRequired,
			session:      snapshot("tok", domain.RoleMechanic),
			url:          "/services",
			wantRedirect: "/dashboard",
		},
		{
			name:        "admin on admin view",
			guard:       AdminRequired,
			session:     snapshot("tok", domain.RoleAdmin),
			url:         "/services",
			wantAllowed: true,
		},
		{
			name:         "anonymous on admin view goes to landing, not login",
			guard:        AdminRequired,
			session:      snapshot("", ""),
			url:          "/services",
			wantRedirect: "/dashboard",
		},
		{
			name:         "cached admin profile without token",
			guard:        AdminRequired,
			session:      snapshot("", domain.RoleAdmin),
			url:          "/services",
			wantRedirect: "/dashboard",
		},
		{
			name:         "authenticated on login view",
			guard:        GuestOnly,
			session:      snapshot("tok", domain.RoleReceptionist),
			url:          "/login",
			wantRedirect: "/dashboard",
		},
		{
			name:        "anonymous on login view",
			guard:       GuestOnly,
			session:     snapshot("", ""),
			url:         "/login",
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.guard(tt.session, Navigation{URL: tt.url})
			if d.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", d.Allowed, tt.wantAllowed)
			}
			if d.Redirect != tt.wantRedirect {
				t.Errorf("Redirect = %q, want %q", d.Redirect, tt.wantRedirect)
			}
		})
	}
}

func TestEvaluateFirstDenialWins(t *testing.T) {
	calls := 0
	counting := func(s Snapshot, n Navigation) Decision {
		calls++
		return Decision{Allowed: true, Guard: "counting"}
	}

	d := Evaluate(snapshot("", ""), Navigation{URL: "/services"}, AdminRequired, counting)
	if d.Allowed || d.Guard != GuardAdminRequired {
		t.Errorf("decision = %+v, want admin_required denial", d)
	}
	if calls != 0 {
		t.Error("guard after the first denial was evaluated")
	}

	d = Evaluate(snapshot("tok", domain.RoleAdmin), Navigation{URL: "/services"}, AuthRequired, AdminRequired)
	if !d.Allowed {
		t.Errorf("decision = %+v, want allowed", d)
	}

	if d := Evaluate(snapshot("", ""), Navigation{URL: "/"}); !d.Allowed {
		t.Error("no guards should allow")
	}
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{target: "/dashboard", want: "/login?returnUrl=/dashboard"},
		{target: "/customers?page=2&search=a b", want: "/login?returnUrl=/customers%3Fpage%3D2%26search%3Da+b"},
		{target: "", want: "/login"},
	}
	for _, tt := range tests {
		if got := LoginRedirect(tt.target); got != tt.want {
			t.Errorf("LoginRedirect(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestSafeReturnURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "/customers?page=2", want: "/customers?page=2"},
		{raw: "", want: "/dashboard"},
		{raw: "https://evil.test/", want: "/dashboard"},
		{raw: "//evil.test/", want: "/dashboard"},
		{raw: "/\\evil.test", want: "/dashboard"},
		{raw: "/login", want: "/dashboard"},
		{raw: "dashboard", want: "/dashboard"},
	}
	for _, tt := range tests {
		if got := SafeReturnURL(tt.raw); got != tt.want {
			t.Errorf("SafeReturnURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
