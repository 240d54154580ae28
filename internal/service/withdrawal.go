package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
)

var (
	ErrAmountBelowMinimum      = errors.New("the minimum amount to withdraw is $10")
	ErrAmountExceedsEarnings   = errors.New("cannot withdraw more than total earnings")
	ErrInvalidWithdrawalMethod = errors.New("invalid withdrawal method")
)

type WithdrawalStore interface {
	CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error
}

type WithdrawalService struct {
	store      WithdrawalStore
	referrals  *ReferralService
	mailer     Mailer
	baseURL    string
	recipients []string
	logger     *zap.Logger
}

func NewWithdrawalService(store WithdrawalStore, referrals *ReferralService, mailer Mailer, baseURL string, recipients []string, logger *zap.Logger) *WithdrawalService {
	return &WithdrawalService{
		store:      store,
		referrals:  referrals,
		mailer:     mailer,
		baseURL:    baseURL,
		recipients: recipients,
		logger:     logger,
	}
}

type WithdrawalInput struct {
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	Phone               *string                `json:"phone,omitempty"`
	Method              model.WithdrawalMethod `json:"method"`
	Amount              decimal.Decimal        `json:"amount"`
	PayPalUsername      *string                `json:"paypal_username,omitempty"`
	CryptoCoin          *string                `json:"crypto_coin,omitempty"`
	CryptoWalletAddress *string                `json:"crypto_wallet_address,omitempty"`
}

// Submit records a payout request. The amount must be at least the $10
// minimum and no more than the user's total referral earnings at the time
// of submission. Admins are notified by email once the row is stored.
func (s *WithdrawalService) Submit(ctx context.Context, userID int64, in WithdrawalInput) (*model.Withdrawal, error) {
	if in.Method != model.WithdrawalMethodPayPal && in.Method != model.WithdrawalMethodCrypto {
		return nil, ErrInvalidWithdrawalMethod
	}

	if in.Amount.LessThan(model.MinWithdrawalAmount) {
		return nil, ErrAmountBelowMinimum
	}

	total, err := s.referrals.TotalEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Amount.GreaterThan(total) {
		return nil, ErrAmountExceedsEarnings
	}

	w := &model.Withdrawal{
		UserID:              userID,
		Name:                in.Name,
		Email:               in.Email,
		Phone:               in.Phone,
		Method:              in.Method,
		Amount:              in.Amount.Round(2),
		PayPalUsername:      in.PayPalUsername,
		CryptoCoin:          in.CryptoCoin,
		CryptoWalletAddress: in.CryptoWalletAddress,
	}
	if err := s.store.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}

	if len(s.recipients) > 0 {
		subject := fmt.Sprintf("%s withdrawal", w.Method)
		body := fmt.Sprintf(
			"%s.\nThere has been a withdrawal request of $%s. Sign into the admin panel for more info.\nAdmin Panel: %s/admin/.\n",
			w.Name, w.Amount.StringFixed(2), s.baseURL)
		if err := s.mailer.Send(subject, body, s.recipients...); err != nil {
			s.logger.Error("failed to send withdrawal notification",
				zap.Int64("withdrawal_id", w.ID), zap.Error(err))
			return nil, fmt.Errorf("failed to send withdrawal notification: %w", err)
		}
	}

	s.logger.Info("withdrawal requested",
		zap.Int64("user_id", userID),
		zap.String("method", string(w.Method)),
		zap.String("amount", w.Amount.String()))
	return w, nil
}
