package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	PreDescription  string    `json:"pre_description" db:"pre_description"`
	MainDescription string    `json:"main_description" db:"main_description"`
	IsPublished     bool      `json:"is_published" db:"is_published"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Plan is a purchasable term of a service. Plans are admin-authored and
// immutable after creation.
type Plan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ServiceID        uuid.UUID       `json:"service_id" db:"service_id"`
	Name             string          `json:"name" db:"name"`
	DurationInMonths int             `json:"duration_in_months" db:"duration_in_months"`
	Price            decimal.Decimal `json:"price" db:"price"`
	Description      string          `json:"description" db:"description"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// PeriodEnd derives the end of a subscription period starting at start.
// A month counts as exactly 30 days; the approximation is deliberate and
// load-bearing for existing records, do not make it calendar-accurate.
func (p *Plan) PeriodEnd(start time.Time) time.Time {
	return start.Add(time.Duration(p.DurationInMonths) * 30 * 24 * time.Hour)
}

// PriceMinorUnits returns the plan price in minor currency units (cents),
// as the payment provider expects.
func (p *Plan) PriceMinorUnits() int64 {
	return p.Price.Shift(2).IntPart()
}
