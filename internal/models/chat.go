package models

import "time"

// Chat is a conversation between two or more participants. The record is
// owned by the "chats" collection of the document-sync service; clients hold
// only a read-through projection of it.
type Chat struct {
	ID           string       `json:"id"`
	Participants []string     `json:"participants"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty"`
	UnreadCount  int          `json:"unreadCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// LastMessage is the denormalized summary of a chat's most recent message.
// It is written as a second, separate update after the message itself is
// created, so it can briefly lag behind the messages collection.
type LastMessage struct {
	MessageID string    `json:"messageId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
