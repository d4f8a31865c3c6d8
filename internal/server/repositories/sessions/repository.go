package sessions

import "context"

// Repository tracks revoked session tokens by their jti claim. A token
// missing from the table is still valid (assuming its signature and expiry
// check out), so logout only ever inserts.
type Repository interface {
	// Revoke marks the token id as logged out. Revoking twice is a no-op.
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
