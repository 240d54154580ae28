package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/repository"
)

func TestListPublishedServices(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store)

	require.NoError(t, svc.CreateService(context.Background(), &model.Service{Name: "Visible", IsPublished: true}))
	require.NoError(t, svc.CreateService(context.Background(), &model.Service{Name: "Draft"}))

	listed, err := svc.ListPublishedServices(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Visible", listed[0].Name)
}

func TestServicePlans(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store)
	plan := seedPlan(t, store, "1 Month", 1, "9.99")

	got, plans, err := svc.ServicePlans(context.Background(), plan.ServiceID)
	require.NoError(t, err)
	require.Equal(t, plan.ServiceID, got.ID)
	require.Len(t, plans, 1)

	_, _, err = svc.ServicePlans(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrServiceNotFound)
}

func TestCreatePlanValidation(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store)
	parent := &model.Service{Name: "Streaming Service", IsPublished: true}
	require.NoError(t, svc.CreateService(context.Background(), parent))

	err := svc.CreatePlan(context.Background(), &model.Plan{
		ServiceID:        parent.ID,
		Name:             "Zero Months",
		DurationInMonths: 0,
		Price:            decimal.RequireFromString("9.99"),
	})
	require.ErrorIs(t, err, ErrInvalidPlanDuration)

	err = svc.CreatePlan(context.Background(), &model.Plan{
		ServiceID:        parent.ID,
		Name:             "Negative",
		DurationInMonths: 1,
		Price:            decimal.RequireFromString("-1"),
	})
	require.ErrorIs(t, err, ErrInvalidPlanPrice)

	err = svc.CreatePlan(context.Background(), &model.Plan{
		ServiceID:        uuid.New(),
		Name:             "Orphan",
		DurationInMonths: 1,
		Price:            decimal.RequireFromString("9.99"),
	})
	require.ErrorIs(t, err, repository.ErrServiceNotFound)

	err = svc.CreatePlan(context.Background(), &model.Plan{
		ServiceID:        parent.ID,
		Name:             "1 Month",
		DurationInMonths: 1,
		Price:            decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
}
