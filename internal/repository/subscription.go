package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Okpara007/buzz4less/internal/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

func (r *Repository) GetSubscription(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, "SELECT * FROM subscriptions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) GetUserSubscriptions(ctx context.Context, userID int64) ([]model.SubscriptionWithPlan, error) {
	var subs []model.SubscriptionWithPlan
	query := `
		SELECT s.*, p.name AS plan_name, sv.name AS service_name
		FROM subscriptions s
		INNER JOIN plans p ON p.id = s.plan_id
		INNER JOIN services sv ON sv.id = p.service_id
		WHERE s.user_id = $1
		ORDER BY s.start_date DESC`
	err := r.db.SelectContext(ctx, &subs, query, userID)
	return subs, err
}

// UpsertSubscription inserts a subscription or, when the (user, plan) pair
// already holds one, refreshes it in place. The pair is the only duplicate
// suppression for at-least-once webhook delivery.
func (r *Repository) UpsertSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, plan_id, start_date, end_date, status, provider_subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, plan_id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			status = EXCLUDED.status,
			provider_subscription_id = EXCLUDED.provider_subscription_id
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.PlanID,
		sub.StartDate,
		sub.EndDate,
		sub.Status,
		sub.ProviderSubscriptionID,
	).Scan(&sub.ID, &sub.CreatedAt)
}

func (r *Repository) MarkSubscriptionCanceled(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE subscriptions SET status = 'canceled', end_date = $2 WHERE id = $1",
		id, endDate,
	)
	return err
}

// ExpireOverdueSubscriptions transitions active rows past their end date to
// expired. Driven by an external periodic job, never by an in-process timer.
func (r *Repository) ExpireOverdueSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE subscriptions SET status = 'expired' WHERE status = 'active' AND end_date < $1",
		now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
