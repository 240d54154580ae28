package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Okpara007/buzz4less/internal/model"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrDuplicateEmail       = errors.New("email is already registered")
	ErrReferralCodeTaken    = errors.New("referral code already taken")
	ErrVerificationNotFound = errors.New("verification profile not found")
)

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateAccount inserts the user, their verification profile and their
// referral record in a single transaction. referrerID selects who the new
// user's record credits; zero means the canonical self-referral. Unique
// violations are mapped to the sentinel errors so callers can retry code
// generation or reject duplicates before anything becomes visible.
func (r *Repository) CreateAccount(ctx context.Context, user *model.User, profile *model.VerificationProfile, referrerID int64, referralCode string) error {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (username, email, first_name, last_name, password_hash, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			user.Username,
			user.Email,
			user.FirstName,
			user.LastName,
			user.PasswordHash,
			user.IsActive,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return err
		}

		profile.UserID = user.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO verification_profiles (user_id, code, expires_at, verified)
			VALUES ($1, $2, $3, false)
			RETURNING id, created_at`,
			profile.UserID,
			profile.Code,
			profile.ExpiresAt,
		).Scan(&profile.ID, &profile.CreatedAt)
		if err != nil {
			return err
		}

		if referrerID == 0 {
			referrerID = user.ID
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO referrals (referrer_id, referred_user_id, referral_code, earnings, credited)
			VALUES ($1, $2, $3, 0, false)`,
			referrerID,
			user.ID,
			referralCode,
		)
		return err
	})

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "users_username_key"):
		return ErrDuplicateUsername
	case isUniqueViolation(err, "users_email_key"):
		return ErrDuplicateEmail
	case isUniqueViolation(err, "referrals_referral_code_key"):
		return ErrReferralCodeTaken
	default:
		return err
	}
}

func (r *Repository) GetVerificationProfile(ctx context.Context, userID int64) (*model.VerificationProfile, error) {
	var profile model.VerificationProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM verification_profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) IsStaff(ctx context.Context, userID int64) (bool, error) {
	var staff bool
	err := r.db.GetContext(ctx, &staff, "SELECT is_staff FROM users WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return staff, nil
}

// MarkVerified flips the verification flag and activates the account
// together, so a verified-but-inactive user can never be observed.
func (r *Repository) MarkVerified(ctx context.Context, userID int64) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE verification_profiles SET verified = true WHERE user_id = $1", userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE users SET is_active = true, updated_at = NOW() WHERE id = $1", userID)
		return err
	})
}
