// Package api implements the client side of the Snapline HTTP API: a typed
// Client interface, an HTTP implementation, and the transport that attaches
// the bearer token to every outbound request.
package api

import (
	"context"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// RegisterInput holds the data required to create a new account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Client is the remote API surface the rest of the client programs against.
//
// All methods honor context cancellation. Failures are reported as *Error with
// a Kind; errors.Is(err, ErrUnauthorized) identifies rejected sessions.
type Client interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, login, password string) (*AuthResult, error)
	Logout(ctx context.Context) error

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetFriends(ctx context.Context) ([]models.User, error)

	UploadSnap(ctx context.Context, caption, filename string, image []byte) (*models.Snap, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}
