package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Okpara007/buzz4less/internal/model"
)

var (
	ErrInvalidPlanDuration = errors.New("plan duration must be at least one month")
	ErrInvalidPlanPrice    = errors.New("plan price must not be negative")
)

type CatalogStore interface {
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListPublishedServices(ctx context.Context) ([]model.Service, error)
	CreateService(ctx context.Context, svc *model.Service) error
	GetPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	ListPlansByService(ctx context.Context, serviceID uuid.UUID) ([]model.Plan, error)
	CreatePlan(ctx context.Context, plan *model.Plan) error
}

// CatalogService serves the public service/plan listing and the
// admin-authored catalog. Plans are immutable once created.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListPublishedServices(ctx context.Context) ([]model.Service, error) {
	return s.store.ListPublishedServices(ctx)
}

func (s *CatalogService) ServicePlans(ctx context.Context, serviceID uuid.UUID) (*model.Service, []model.Plan, error) {
	svc, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	plans, err := s.store.ListPlansByService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	return svc, plans, nil
}

func (s *CatalogService) CreateService(ctx context.Context, svc *model.Service) error {
	return s.store.CreateService(ctx, svc)
}

func (s *CatalogService) CreatePlan(ctx context.Context, plan *model.Plan) error {
	if plan.DurationInMonths < 1 {
		return ErrInvalidPlanDuration
	}
	if plan.Price.LessThan(decimal.Zero) {
		return ErrInvalidPlanPrice
	}
	if _, err := s.store.GetService(ctx, plan.ServiceID); err != nil {
		return err
	}
	return s.store.CreatePlan(ctx, plan)
}
