package client

import "net/http"

// TokenSource yields the current bearer token. SessionState satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, bool)

func (f TokenFunc) Token() (string, bool) { return f() }

// Authorizer is the request pipeline stage that attaches the session's
// bearer token. It only reads the token source; responses, including 401s,
// are passed back untouched.
type Authorizer struct {
	tokens TokenSource
	next   http.RoundTripper
}

// NewAuthorizer wraps next. A nil next uses http.DefaultTransport.
func NewAuthorizer(tokens TokenSource, next http.RoundTripper) *Authorizer {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authorizer{tokens: tokens, next: next}
}

func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	return a.next.RoundTrip(Authorize(req, a.tokens))
}

// Authorize returns req itself when no token is held, otherwise a clone
// carrying "Authorization: Bearer <token>". req is never modified.
func Authorize(req *http.Request, tokens TokenSource) *http.Request {
	token, ok := tokens.Token()
	if !ok || token == "" {
		return req
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
