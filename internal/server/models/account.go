// Package models defines the server-side storage rows. These are distinct
// from the shared wire models: rows carry credentials and storage keys that
// must never be serialized to clients.
package models

import (
	"time"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// Account is the users table row.
type Account struct {
	ID           string
	Username     string
	Email        string
	Name         string
	Bio          string
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
}

// Public projects the account onto the wire-safe user shape.
func (a *Account) Public() models.User {
	return models.User{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		Bio:       a.Bio,
		AvatarURL: a.AvatarURL,
		CreatedAt: a.CreatedAt,
	}
}
