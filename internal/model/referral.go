package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralRecord links a referred user to their referrer. Every user has
// exactly one record where they are the referred user; the record created
// at signup without a code refers the user to themselves.
//
// The chain runs by referred user: when a signup supplies a referral code,
// the new record's referrer is the referred user of the record the code
// matched, not that record's referrer. Earnings crediting depends on this
// relation, so it must not be "simplified".
type ReferralRecord struct {
	ID             int64           `json:"id" db:"id"`
	ReferrerID     int64           `json:"referrer_id" db:"referrer_id"`
	ReferredUserID int64           `json:"referred_user_id" db:"referred_user_id"`
	ReferralCode   string          `json:"referral_code" db:"referral_code"`
	Earnings       decimal.Decimal `json:"earnings" db:"earnings"`
	Credited       bool            `json:"credited" db:"credited"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// IsSelf reports whether this is the canonical self-referral record.
func (r *ReferralRecord) IsSelf() bool {
	return r.ReferrerID == r.ReferredUserID
}

// ReferredUser is a row on the referral overview: a user brought in by the
// referrer together with what their record has earned so far.
type ReferredUser struct {
	Username string          `json:"username" db:"username"`
	Email    string          `json:"email" db:"email"`
	Earnings decimal.Decimal `json:"earnings" db:"earnings"`
	JoinedAt time.Time       `json:"joined_at" db:"joined_at"`
}

// ReferralOverview is what the referral dashboard shows.
type ReferralOverview struct {
	ReferralLink  string          `json:"referral_link"`
	ReferredUsers []ReferredUser  `json:"referred_users"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}
