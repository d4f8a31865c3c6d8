// Package session owns the client's authentication state: the persisted
// session token, the identity derived from it, and the process-wide channel
// announcing that the session is no longer valid.
package session

import "context"

// Store persists the current session token in durable local storage.
//
// Contract:
//   - Save replaces the stored token.
//   - Get returns "" (and no error) when no token is stored; "" means
//     "logged out".
//   - Clear removes the token and is idempotent.
//
// There is no in-memory cache: every Get re-reads storage, so the value can
// never be stale at the cost of I/O on each call.
type Store interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
