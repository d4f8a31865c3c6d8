package models

import "time"

// Snap is an uploaded photo post. The image bytes live in object storage;
// ImageURL points at them.
type Snap struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Caption   string    `json:"caption,omitempty"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
