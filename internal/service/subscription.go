package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/payment"
	"github.com/Okpara007/buzz4less/internal/repository"
)

var ErrForbidden = errors.New("subscription belongs to another user")

type SubscriptionStore interface {
	GetSubscription(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
	GetUserSubscriptions(ctx context.Context, userID int64) ([]model.SubscriptionWithPlan, error)
	UpsertSubscription(ctx context.Context, sub *model.Subscription) error
	MarkSubscriptionCanceled(ctx context.Context, id uuid.UUID, endDate time.Time) error
	ExpireOverdueSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionCanceler is the slice of the payment provider the state
// machine needs: remote cancellation by external id.
type SubscriptionCanceler interface {
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

type SubscriptionService struct {
	store    SubscriptionStore
	provider SubscriptionCanceler
	logger   *zap.Logger
}

func NewSubscriptionService(store SubscriptionStore, provider SubscriptionCanceler, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// CreateOrActivate applies a confirmed checkout to local state. The
// (user, plan) pair is the idempotency key: a redelivered event refreshes
// the row it created the first time instead of inserting another.
func (s *SubscriptionService) CreateOrActivate(ctx context.Context, userID int64, plan *model.Plan, providerSubID *string) (*model.Subscription, error) {
	start := time.Now()
	sub := &model.Subscription{
		UserID:                 userID,
		PlanID:                 plan.ID,
		StartDate:              start,
		EndDate:                plan.PeriodEnd(start),
		Status:                 model.SubscriptionStatusActive,
		ProviderSubscriptionID: providerSubID,
	}

	if err := s.store.UpsertSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	s.logger.Info("subscription activated",
		zap.Int64("user_id", userID),
		zap.String("plan_id", plan.ID.String()),
		zap.String("subscription_id", sub.ID.String()))
	return sub, nil
}

// Cancel ends an active subscription owned by requestingUserID. The
// provider is asked first; only a confirmed cancellation, or a subscription
// the provider no longer has, may flip local state. Any other provider
// failure aborts with the local row untouched.
func (s *SubscriptionService) Cancel(ctx context.Context, id uuid.UUID, requestingUserID int64) (*model.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.UserID != requestingUserID {
		return nil, ErrForbidden
	}
	if !sub.IsActive() {
		return nil, repository.ErrSubscriptionNotFound
	}

	if sub.ProviderSubscriptionID != nil && *sub.ProviderSubscriptionID != "" {
		err := s.provider.CancelSubscription(ctx, *sub.ProviderSubscriptionID)
		if err != nil && !errors.Is(err, payment.ErrSubscriptionGone) {
			return nil, fmt.Errorf("provider cancellation failed: %w", err)
		}
		if errors.Is(err, payment.ErrSubscriptionGone) {
			s.logger.Warn("provider subscription already gone, canceling locally",
				zap.String("subscription_id", id.String()))
		}
	}

	now := time.Now()
	if err := s.store.MarkSubscriptionCanceled(ctx, id, now); err != nil {
		return nil, err
	}

	sub.Status = model.SubscriptionStatusCanceled
	sub.EndDate = now
	s.logger.Info("subscription canceled",
		zap.String("subscription_id", id.String()),
		zap.Int64("user_id", requestingUserID))
	return sub, nil
}

func (s *SubscriptionService) ListForUser(ctx context.Context, userID int64) ([]model.SubscriptionWithPlan, error) {
	return s.store.GetUserSubscriptions(ctx, userID)
}

// ExpireOverdue is invoked by an external periodic job; there is no
// in-process sweep of end dates.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.store.ExpireOverdueSubscriptions(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired overdue subscriptions", zap.Int64("count", n))
	}
	return n, nil
}
