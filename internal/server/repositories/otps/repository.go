package otps

import (
	"context"
	"time"
)

// Repository stores emailed password-reset codes. A code is single-use:
// Consume removes it on success.
type Repository interface {
	// Create stores a new code for email, replacing any earlier one.
	Create(ctx context.Context, email, code string, expiresAt time.Time) error
	// Consume deletes the code and reports whether it existed and had not
	// expired.
	Consume(ctx context.Context, email, code string) (bool, error)
}
