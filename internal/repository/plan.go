package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Okpara007/buzz4less/internal/model"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrPlanNotFound    = errors.New("plan not found")
)

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, "SELECT * FROM services WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (r *Repository) ListPublishedServices(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	query := "SELECT * FROM services WHERE is_published = true ORDER BY created_at DESC"
	err := r.db.SelectContext(ctx, &services, query)
	return services, err
}

func (r *Repository) CreateService(ctx context.Context, svc *model.Service) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO services (name, pre_description, main_description, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		svc.Name,
		svc.PreDescription,
		svc.MainDescription,
		svc.IsPublished,
	).Scan(&svc.ID, &svc.CreatedAt)
}

func (r *Repository) GetPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.GetContext(ctx, &plan, "SELECT * FROM plans WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) ListPlansByService(ctx context.Context, serviceID uuid.UUID) ([]model.Plan, error) {
	var plans []model.Plan
	query := "SELECT * FROM plans WHERE service_id = $1 ORDER BY duration_in_months"
	err := r.db.SelectContext(ctx, &plans, query, serviceID)
	return plans, err
}

func (r *Repository) CreatePlan(ctx context.Context, plan *model.Plan) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO plans (service_id, name, duration_in_months, price, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		plan.ServiceID,
		plan.Name,
		plan.DurationInMonths,
		plan.Price,
		plan.Description,
	).Scan(&plan.ID, &plan.CreatedAt)
}
