package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/repository"
)

// CreditPolicy names when a referral commission is written relative to the
// checkout flow.
type CreditPolicy string

const (
	// CreditOnInitiate credits when the checkout session is created. The
	// buyer can abandon the hosted payment page and the commission stays
	// on the ledger; that race is the historical, documented behavior.
	CreditOnInitiate CreditPolicy = "on_initiate"
	// CreditOnConfirm credits only when the provider confirms payment via
	// webhook.
	CreditOnConfirm CreditPolicy = "on_confirm"
)

const referralCodeLength = 10

type ReferralStore interface {
	GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error)
	GetReferralByReferredUser(ctx context.Context, referredUserID int64) (*model.ReferralRecord, error)
	CreateReferral(ctx context.Context, record *model.ReferralRecord) error
	CreditEarnings(ctx context.Context, referredUserID int64, amount decimal.Decimal) error
	TotalEarnings(ctx context.Context, referrerID int64) (decimal.Decimal, error)
	GetReferredUsers(ctx context.Context, referrerID int64) ([]model.ReferredUser, error)
}

type ReferralService struct {
	store          ReferralStore
	commissionRate decimal.Decimal
	baseURL        string
	logger         *zap.Logger
}

func NewReferralService(store ReferralStore, commissionRate decimal.Decimal, baseURL string, logger *zap.Logger) *ReferralService {
	return &ReferralService{
		store:          store,
		commissionRate: commissionRate,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// NewReferralCode returns a fresh candidate code: the first ten hex
// characters of a random UUID. Uniqueness is enforced by the database
// constraint, not here.
func NewReferralCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength]
}

// EnsureReferralCode returns the user's referral code, creating the
// canonical self-referral record on demand if signup predates the ledger.
func (s *ReferralService) EnsureReferralCode(ctx context.Context, userID int64) (string, error) {
	record, err := s.store.GetReferralByReferredUser(ctx, userID)
	if err == nil {
		return record.ReferralCode, nil
	}
	if !errors.Is(err, repository.ErrReferralNotFound) {
		return "", err
	}

	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		record = &model.ReferralRecord{
			ReferrerID:     userID,
			ReferredUserID: userID,
			ReferralCode:   NewReferralCode(),
			Earnings:       decimal.Zero,
		}
		err = s.store.CreateReferral(ctx, record)
		if errors.Is(err, repository.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return record.ReferralCode, nil
	}
	return "", ErrCodeExhausted
}

// Credit adds the commission share of price to the record whose referred
// user is referredUserID. The record's referrer is who ultimately gets
// paid, via TotalEarnings.
func (s *ReferralService) Credit(ctx context.Context, referredUserID int64, price decimal.Decimal) error {
	amount := price.Mul(s.commissionRate).Round(2)
	if err := s.store.CreditEarnings(ctx, referredUserID, amount); err != nil {
		return err
	}

	s.logger.Info("referral commission credited",
		zap.Int64("referred_user_id", referredUserID),
		zap.String("amount", amount.String()))
	return nil
}

func (s *ReferralService) TotalEarnings(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.store.TotalEarnings(ctx, userID)
}

func (s *ReferralService) Overview(ctx context.Context, userID int64) (*model.ReferralOverview, error) {
	code, err := s.EnsureReferralCode(ctx, userID)
	if err != nil {
		return nil, err
	}

	referred, err := s.store.GetReferredUsers(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.store.TotalEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ReferralOverview{
		ReferralLink:  s.baseURL + "/accounts/signup/?referral_code=" + code,
		ReferredUsers: referred,
		TotalEarnings: total,
	}, nil
}
