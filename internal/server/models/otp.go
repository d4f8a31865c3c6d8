package models

import "time"

// OTP is a single-use password reset code emailed to an account.
type OTP struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
