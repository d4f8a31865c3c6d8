package models

import "time"

// Message belongs to exactly one chat. Immutable once created except for the
// Read flag, which flips false→true exactly once when the receiver opens it.
type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	Text       string    `json:"text"`
	SnapID     string    `json:"snapId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}
