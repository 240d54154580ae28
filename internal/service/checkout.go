package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/payment"
	"github.com/Okpara007/buzz4less/internal/repository"
)

// Plans priced as a one-off purchase rather than a recurring subscription
// are recognized by name, as the catalog has always done.
const unlimitedPlanName = "Unlimited Account"

const checkoutCurrency = "usd"

type CheckoutStore interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, p payment.CheckoutParams) (*payment.CheckoutSession, error)
}

// CheckoutService initiates hosted checkout sessions and reconciles the
// provider's webhook events back into subscription and referral state.
type CheckoutService struct {
	store         CheckoutStore
	gateway       CheckoutGateway
	subscriptions *SubscriptionService
	referrals     *ReferralService
	baseURL       string
	policy        CreditPolicy
	logger        *zap.Logger
}

func NewCheckoutService(
	store CheckoutStore,
	gateway CheckoutGateway,
	subscriptions *SubscriptionService,
	referrals *ReferralService,
	baseURL string,
	policy CreditPolicy,
	logger *zap.Logger,
) *CheckoutService {
	if policy != CreditOnInitiate && policy != CreditOnConfirm {
		policy = CreditOnInitiate
	}
	return &CheckoutService{
		store:         store,
		gateway:       gateway,
		subscriptions: subscriptions,
		referrals:     referrals,
		baseURL:       baseURL,
		policy:        policy,
		logger:        logger,
	}
}

// StartCheckout creates a provider checkout session for the plan and
// returns the redirect URL. Under CreditOnInitiate the buyer's referral
// record is credited here, before payment is confirmed.
func (s *CheckoutService) StartCheckout(ctx context.Context, userID int64, planID uuid.UUID) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	svc, err := s.store.GetService(ctx, plan.ServiceID)
	if err != nil {
		return "", err
	}

	params := payment.CheckoutParams{
		Amount:          plan.PriceMinorUnits(),
		Currency:        checkoutCurrency,
		ProductName:     svc.Name,
		SuccessURL:      s.baseURL + "/services/payment/success/",
		CancelURL:       s.baseURL + "/services/" + svc.ID.String() + "/",
		ClientReference: user.Username,
		Metadata:        map[string]string{"plan_id": plan.ID.String()},
	}

	if plan.Name == unlimitedPlanName {
		params.Mode = payment.ModePayment
	} else {
		params.Mode = payment.ModeSubscription
		// Twelve months bills yearly; anything else bills in month
		// units of the plan duration.
		if plan.DurationInMonths == 12 {
			params.Interval = "year"
			params.IntervalCount = 1
		} else {
			params.Interval = "month"
			params.IntervalCount = plan.DurationInMonths
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	if s.policy == CreditOnInitiate {
		if err := s.creditFor(ctx, user.ID, plan); err != nil {
			return "", err
		}
	}

	s.logger.Info("checkout session created",
		zap.Int64("user_id", user.ID),
		zap.String("plan_id", plan.ID.String()),
		zap.String("session_id", session.ID))
	return session.URL, nil
}

// HandleEvent consumes a verified provider event. Checkout completions
// resolve their user and plan references and drive the subscription upsert;
// unrecognized kinds are accepted and ignored so the provider's retry loop
// never spins on events this system does not model.
func (s *CheckoutService) HandleEvent(ctx context.Context, event *payment.Event) error {
	if event.Type != payment.EventCheckoutCompleted {
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}

	completed, err := event.CheckoutCompleted()
	if err != nil {
		return err
	}

	user, err := s.store.GetUserByUsername(ctx, completed.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("unresolvable client reference %q: %w", completed.ClientReferenceID, err)
	}

	planID, err := uuid.Parse(completed.Metadata["plan_id"])
	if err != nil {
		return fmt.Errorf("unresolvable plan reference: %w", repository.ErrPlanNotFound)
	}
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("unresolvable plan reference: %w", err)
	}

	if _, err := s.subscriptions.CreateOrActivate(ctx, user.ID, plan, completed.SubscriptionID); err != nil {
		return err
	}

	if s.policy == CreditOnConfirm {
		if err := s.creditFor(ctx, user.ID, plan); err != nil {
			return err
		}
	}
	return nil
}

func (s *CheckoutService) creditFor(ctx context.Context, userID int64, plan *model.Plan) error {
	err := s.referrals.Credit(ctx, userID, plan.Price)
	if err != nil && !errors.Is(err, repository.ErrReferralNotFound) {
		return fmt.Errorf("failed to credit referral: %w", err)
	}
	return nil
}
