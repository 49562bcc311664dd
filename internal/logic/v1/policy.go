package v1

import (
	"net/url"
	"strings"
)

// Well-known console locations.
const (
	LoginPath      = "/login"
	LandingPath    = "/dashboard"
	ReturnURLParam = "returnUrl"
)

// Guard names, used in decisions and metrics.
const (
	GuardAuthRequired  = "auth_required"
	GuardAdminRequired = "admin_required"
	GuardGuestOnly     = "guest_only"
)

// Navigation is an attempt to enter a console view.
type Navigation struct {
	// URL is the requested location: path plus query, e.g. "/customers?page=2".
	URL string
}

// Decision is the outcome of evaluating guards for one navigation.
type Decision struct {
	Allowed  bool
	Guard    string
	Redirect string
}

// Guard is a pure predicate over a session snapshot. It never blocks.
type Guard func(Snapshot, Navigation) Decision

// AuthRequired admits authenticated sessions and sends everyone else to the
// login view, remembering where they were going.
func AuthRequired(s Snapshot, nav Navigation) Decision {
	if s.IsAuthenticated() {
		return Decision{Allowed: true, Guard: GuardAuthRequired}
	}
	return Decision{Guard: GuardAuthRequired, Redirect: LoginRedirect(nav.URL)}
}

// AdminRequired admits authenticated ADMIN sessions. Both anonymous and
// non-admin sessions are sent to the landing view, not to login.
func AdminRequired(s Snapshot, _ Navigation) Decision {
	if s.IsAuthenticated() && s.IsAdmin() {
		return Decision{Allowed: true, Guard: GuardAdminRequired}
	}
	return Decision{Guard: GuardAdminRequired, Redirect: LandingPath}
}

// GuestOnly keeps authenticated sessions away from the login view.
func GuestOnly(s Snapshot, _ Navigation) Decision {
	if !s.IsAuthenticated() {
		return Decision{Allowed: true, Guard: GuardGuestOnly}
	}
	return Decision{Guard: GuardGuestOnly, Redirect: LandingPath}
}

// Evaluate runs guards in order and returns the first denial. With no
// guards, or when every guard allows, the last allow is returned.
func Evaluate(s Snapshot, nav Navigation, guards ...Guard) Decision {
	d := Decision{Allowed: true}
	for _, g := range guards {
		d = g(s, nav)
		if !d.Allowed {
			return d
		}
	}
	return d
}

// LoginRedirect builds the login location carrying target as the return URL.
// Slashes are left readable: "/login?returnUrl=/dashboard".
func LoginRedirect(target string) string {
	if target == "" {
		return LoginPath
	}
	escaped := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return LoginPath + "?" + ReturnURLParam + "=" + escaped
}

// SafeReturnURL accepts only local console paths as post-login targets and
// falls back to the landing view otherwise.
func SafeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return LandingPath
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return LandingPath
	}
	if u.Path == LoginPath {
		return LandingPath
	}
	return raw
}
