// Package services contains the server's application services sitting
// between the HTTP/docsync transports and the repositories.
package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/snapline/internal/common"
	"github.com/dmitrijs2005/snapline/internal/dbx"
	"github.com/dmitrijs2005/snapline/internal/logging"
	"github.com/dmitrijs2005/snapline/internal/models"
	"github.com/dmitrijs2005/snapline/internal/server/auth"
	sc "github.com/dmitrijs2005/snapline/internal/server/config"
	smodels "github.com/dmitrijs2005/snapline/internal/server/models"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/repomanager"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: rm, config: config, logger: logger}
}

// Register creates an account and opens its first session. The uniqueness
// checks and the insert run in one transaction so two concurrent signups
// cannot both claim a name.
func (s *UserService) Register(ctx context.Context, username, email, name, password string) (string, models.User, error) {

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", models.User{}, fmt.Errorf("password hashing error: %w", err)
	}

	account := &smodels.Account{Username: username, Email: email, Name: name, PasswordHash: hash}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		if taken, err := users.UsernameExists(ctx, username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("username: %w", common.ErrorAlreadyExists)
		}
		if taken, err := users.EmailExists(ctx, email); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("email: %w", common.ErrorAlreadyExists)
		}

		_, err := users.Create(ctx, account)
		return err
	})
	if err != nil {
		return "", models.User{}, err
	}

	token, err := auth.GenerateToken(account.ID, []byte(s.config.SecretKey), s.config.TokenValidityDuration)
	if err != nil {
		return "", models.User{}, fmt.Errorf("token generation error: %w", err)
	}

	return token, account.Public(), nil
}

// Login authenticates by username or email and returns a fresh session
// token. Unknown accounts and wrong passwords are indistinguishable to the
// caller.
func (s *UserService) Login(ctx context.Context, login, password string) (string, models.User, error) {

	account, err := s.repomanager.Users(s.db).GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", models.User{}, common.ErrorInvalidCredentials
		}
		return "", models.User{}, err
	}

	ok, err := auth.CheckPassword(account.PasswordHash, password)
	if err != nil {
		return "", models.User{}, err
	}
	if !ok {
		return "", models.User{}, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(account.ID, []byte(s.config.SecretKey), s.config.TokenValidityDuration)
	if err != nil {
		return "", models.User{}, fmt.Errorf("token generation error: %w", err)
	}

	return token, account.Public(), nil
}

// Logout revokes the session identified by tokenID. Revoking an already
// revoked session succeeds.
func (s *UserService) Logout(ctx context.Context, tokenID string) error {
	return s.repomanager.Sessions(s.db).Revoke(ctx, tokenID)
}

// ValidateToken checks signature, expiry, and revocation, returning the
// authenticated user id and the token id (for later revocation).
func (s *UserService) ValidateToken(ctx context.Context, tokenString string) (string, string, error) {
	claims, err := auth.ParseToken(tokenString, []byte(s.config.SecretKey))
	if err != nil {
		return "", "", err
	}

	revoked, err := s.repomanager.Sessions(s.db).IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", auth.ErrorInvalidToken
	}

	return claims.UserID, claims.ID, nil
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repomanager.Users(s.db).EmailExists(ctx, email)
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.repomanager.Users(s.db).UsernameExists(ctx, username)
}

func (s *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	account, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return account.Public(), nil
}

func (s *UserService) Friends(ctx context.Context, userID string) ([]models.User, error) {
	accounts, err := s.repomanager.Friends(s.db).List(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]models.User, 0, len(accounts))
	for i := range accounts {
		result = append(result, accounts[i].Public())
	}
	return result, nil
}

// RequestPasswordReset issues a one-time code for the account's email.
// There is no mail integration here: the code is written to the server log,
// which is enough for development and tests.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {

	exists, err := s.repomanager.Users(s.db).EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}

	code, err := randomOTP()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.OTPValidityDuration)
	if err := s.repomanager.OTPs(s.db).Create(ctx, email, code, expiresAt); err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset code issued", "email", email, "code", code)
	return nil
}

// ResetPassword exchanges a valid code for a new password. The code is
// consumed whether or not it was still fresh.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {

	ok, err := s.repomanager.OTPs(s.db).Consume(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password hashing error: %w", err)
	}

	return s.repomanager.Users(s.db).UpdatePassword(ctx, email, hash)
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
