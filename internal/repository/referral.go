package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Okpara007/buzz4less/internal/model"
)

var ErrReferralNotFound = errors.New("referral not found")

func (r *Repository) GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error) {
	var record model.ReferralRecord
	err := r.db.GetContext(ctx, &record, "SELECT * FROM referrals WHERE referral_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) GetReferralByReferredUser(ctx context.Context, referredUserID int64) (*model.ReferralRecord, error) {
	var record model.ReferralRecord
	err := r.db.GetContext(ctx, &record, "SELECT * FROM referrals WHERE referred_user_id = $1", referredUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) CreateReferral(ctx context.Context, record *model.ReferralRecord) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO referrals (referrer_id, referred_user_id, referral_code, earnings, credited)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		record.ReferrerID,
		record.ReferredUserID,
		record.ReferralCode,
		record.Earnings,
		record.Credited,
	).Scan(&record.ID, &record.CreatedAt)
	if isUniqueViolation(err, "referrals_referral_code_key") {
		return ErrReferralCodeTaken
	}
	return err
}

// CreditEarnings adds amount to the earnings of the record whose referred
// user is referredUserID. The increment happens in one statement so two
// concurrent credits never lose an update.
func (r *Repository) CreditEarnings(ctx context.Context, referredUserID int64, amount decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE referrals
		SET earnings = earnings + $2, credited = true
		WHERE referred_user_id = $1`,
		referredUserID, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReferralNotFound
	}
	return nil
}

// TotalEarnings sums earnings over the records a user referred, excluding
// the user's own self-referral record.
func (r *Repository) TotalEarnings(ctx context.Context, referrerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(earnings), 0) FROM referrals
		WHERE referrer_id = $1 AND referred_user_id <> $1`,
		referrerID)
	return total, err
}

func (r *Repository) GetReferredUsers(ctx context.Context, referrerID int64) ([]model.ReferredUser, error) {
	var users []model.ReferredUser
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.username, u.email, r.earnings, r.created_at AS joined_at
		FROM referrals r
		INNER JOIN users u ON u.id = r.referred_user_id
		WHERE r.referrer_id = $1 AND r.referred_user_id <> $1
		ORDER BY r.created_at DESC`,
		referrerID)
	return users, err
}
