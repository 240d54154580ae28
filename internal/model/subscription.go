package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// Subscription tracks one (user, plan) membership. That pair is the upsert
// key: a redelivered provider event refreshes the existing row instead of
// inserting a duplicate. canceled and expired are terminal.
type Subscription struct {
	ID                     uuid.UUID          `json:"id" db:"id"`
	UserID                 int64              `json:"user_id" db:"user_id"`
	PlanID                 uuid.UUID          `json:"plan_id" db:"plan_id"`
	StartDate              time.Time          `json:"start_date" db:"start_date"`
	EndDate                time.Time          `json:"end_date" db:"end_date"`
	Status                 SubscriptionStatus `json:"status" db:"status"`
	ProviderSubscriptionID *string            `json:"provider_subscription_id,omitempty" db:"provider_subscription_id"`
	CreatedAt              time.Time          `json:"created_at" db:"created_at"`
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

type SubscriptionWithPlan struct {
	Subscription
	PlanName    string `json:"plan_name" db:"plan_name"`
	ServiceName string `json:"service_name" db:"service_name"`
}
