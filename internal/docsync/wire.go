// Package docsync defines the wire protocol of the Snapline document-sync
// service: a push-based query mechanism over NATS. A client subscribes with a
// query shape and an inbox subject; the server replies with an ack, pushes the
// current result set to the inbox immediately, and pushes a fresh full
// snapshot after every write that affects the query. Snapshots replace each
// other; they are never deltas.
package docsync

import "encoding/json"

// Subjects used by the protocol. Subscribe, create, and update subjects are
// request/reply; unsubscribe is fire-and-forget.
const (
	SubjectSubscribe   = "snapline.docsync.v1.subscribe"
	SubjectUnsubscribe = "snapline.docsync.v1.unsubscribe"

	SubjectCreateMessage = "snapline.docsync.v1.create.messages"
	SubjectUpdateChat    = "snapline.docsync.v1.update.chats"
	SubjectUpdateMessage = "snapline.docsync.v1.update.messages"
)

// Collection names served by the document-sync service.
const (
	CollectionChats    = "chats"
	CollectionMessages = "messages"
)

// Filter operators.
const (
	OpEqual    = "eq"       // field equals value
	OpContains = "contains" // array field contains value
)

// Condition is a single predicate of a query.
type Condition struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// Query describes the result set a subscriber wants to observe.
// Limit == 0 means no row limit.
type Query struct {
	Collection string      `json:"collection"`
	Filter     []Condition `json:"filter,omitempty"`
	OrderBy    string      `json:"orderBy,omitempty"`
	Descending bool        `json:"descending,omitempty"`
	Limit      int         `json:"limit,omitempty"`
}

// SubscribeRequest opens a live subscription. ID is chosen by the client and
// must be unique per connection; Inbox is the NATS subject snapshots are
// pushed to.
type SubscribeRequest struct {
	ID    string `json:"id"`
	Query Query  `json:"query"`
	Inbox string `json:"inbox"`
}

// Ack is the reply to SubscribeRequest and to write requests.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// UnsubscribeRequest tears down a subscription by id.
type UnsubscribeRequest struct {
	ID string `json:"id"`
}

// Snapshot is one full result set for a subscription. A non-empty Error
// terminates the subscription; no further snapshots follow it.
type Snapshot struct {
	SubscriptionID string            `json:"subscriptionId"`
	Docs           []json.RawMessage `json:"docs"`
	Error          string            `json:"error,omitempty"`
}

// CreateRequest carries a new document without an id. The server assigns one.
type CreateRequest struct {
	Doc json.RawMessage `json:"doc"`
}

// CreateResponse returns the server-generated document id.
type CreateResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// UpdateRequest is a partial update of a single document.
type UpdateRequest struct {
	ID     string          `json:"id"`
	Fields json.RawMessage `json:"fields"`
}
