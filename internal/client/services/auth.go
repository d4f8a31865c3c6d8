// Package services contains application services for the Snapline client.
// This file defines the authentication service: registration, login/logout,
// forced logout, identity derivation, and OTP password reset.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snapline/internal/client/api"
	"github.com/dmitrijs2005/snapline/internal/client/session"
)

// AuthService owns the session lifecycle on the client.
//
// Contract:
//   - Register / Login: authenticate against the server and persist the
//     returned session token.
//   - Logout: best-effort server-side invalidation, then local clear.
//   - ForceLogout: local clear only, the reaction to a session.Bus event.
//   - CurrentUserID: identity derived from the stored token; "" when logged
//     out or the token is malformed.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, input api.RegisterInput) error
	Login(ctx context.Context, login, password string) error
	Logout(ctx context.Context) error
	ForceLogout(ctx context.Context) error
	CurrentUserID(ctx context.Context) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type authService struct {
	client api.Client
	tokens session.Store
	bus    *session.Bus
}

// NewAuthService constructs an AuthService bound to the given API client,
// token store, and session event bus.
func NewAuthService(client api.Client, tokens session.Store, bus *session.Bus) AuthService {
	return &authService{client: client, tokens: tokens, bus: bus}
}

func (a *authService) Register(ctx context.Context, input api.RegisterInput) error {
	result, err := a.client.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	// A token we cannot persist is a session we do not have: surface the
	// storage failure instead of logging and continuing.
	if err := a.tokens.Save(ctx, result.Token); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, login, password string) error {
	result, err := a.client.Login(ctx, login, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.tokens.Save(ctx, result.Token); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	return nil
}

// Logout invalidates the session server-side when reachable and always
// clears the local token. A server already treating us as logged out is not
// an error.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil && !api.IsUnauthorized(err) {
		return fmt.Errorf("logout error: %w", err)
	}
	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("token clearing error: %w", err)
	}
	return nil
}

// ForceLogout clears credentials without calling the server. It is the
// handler for a "session invalid" announcement, so it must not re-announce.
func (a *authService) ForceLogout(ctx context.Context) error {
	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("token clearing error: %w", err)
	}
	return nil
}

func (a *authService) CurrentUserID(ctx context.Context) (string, error) {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("token reading error: %w", err)
	}
	if token == "" {
		return "", nil
	}
	id, ok := session.UserID(token)
	if !ok {
		// Malformed token: no identity, not a crash.
		return "", nil
	}
	return id, nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	return a.client.RequestPasswordReset(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return a.client.ResetPassword(ctx, email, otp, newPassword)
}
