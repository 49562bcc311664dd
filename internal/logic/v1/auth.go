package v1

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/middleware"
)

// Authenticator is the slice of the workshop API that issues tokens.
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
}

// AuthService drives the session from login, registration and logout.
// Rejections from the API are returned unchanged; nothing is retried.
type AuthService struct {
	api     Authenticator
	session *SessionState
}

// NewAuthService creates a new AuthService.
func NewAuthService(api Authenticator, session *SessionState) *AuthService {
	return &AuthService{api: api, session: session}
}

// Login authenticates against the API and records the result.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, err
	}
	if err := s.session.RecordAuthentication(ctx, *resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return resp, nil
}

// Register creates an account through the API and records the result.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
		attribute.String("email", req.Email),
	))
	defer span.End()

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, err
	}
	if err := s.session.RecordAuthentication(ctx, *resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("registration.success", true))
	span.AddEvent("user.registered")
	return resp, nil
}

// Logout ends the local session. Server-side invalidation is not attempted.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}
