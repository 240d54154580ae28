package model

import (
	"time"
)

// VerificationProfile holds the email-verification state for a user.
// One profile per user, created at signup and mutated once on success.
type VerificationProfile struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Code      string    `json:"-" db:"code"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CodeMatches reports whether the presented code is an exact match and has
// not passed its absolute expiry.
func (p *VerificationProfile) CodeMatches(code string, now time.Time) bool {
	return p.Code == code && now.Before(p.ExpiresAt)
}
