// Package models holds the domain records exchanged between the Snapline
// client and server: users, chats, messages, and snaps. The JSON shapes here
// are the wire shapes of both the HTTP API and the document-sync service.
package models

import "time"

// User is the public profile of an account. Credentials never leave the
// server; see internal/server/models for the storage-side account row.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
