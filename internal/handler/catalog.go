package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Okpara007/buzz4less/internal/model"
	"github.com/Okpara007/buzz4less/internal/repository"
	"github.com/Okpara007/buzz4less/internal/service"
)

func (h *Handler) GetServices(c *fiber.Ctx) error {
	services, err := h.catalogSvc.ListPublishedServices(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list services",
		})
	}
	return c.JSON(fiber.Map{"services": services})
}

func (h *Handler) GetServicePlans(c *fiber.Ctx) error {
	serviceID, err := uuid.Parse(c.Params("service_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid service id",
		})
	}

	svc, plans, err := h.catalogSvc.ServicePlans(c.Context(), serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "service not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load service",
		})
	}

	return c.JSON(fiber.Map{
		"service": svc,
		"plans":   plans,
	})
}

type createServiceRequest struct {
	Name            string `json:"name"`
	PreDescription  string `json:"pre_description"`
	MainDescription string `json:"main_description"`
	IsPublished     bool   `json:"is_published"`
}

func (h *Handler) CreateService(c *fiber.Ctx) error {
	var req createServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	svc := &model.Service{
		Name:            req.Name,
		PreDescription:  req.PreDescription,
		MainDescription: req.MainDescription,
		IsPublished:     req.IsPublished,
	}
	if err := h.catalogSvc.CreateService(c.Context(), svc); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create service",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(svc)
}

type createPlanRequest struct {
	ServiceID        string `json:"service_id"`
	Name             string `json:"name"`
	DurationInMonths int    `json:"duration_in_months"`
	Price            string `json:"price"`
	Description      string `json:"description"`
}

func (h *Handler) CreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid service id",
		})
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid price",
		})
	}

	plan := &model.Plan{
		ServiceID:        serviceID,
		Name:             req.Name,
		DurationInMonths: req.DurationInMonths,
		Price:            price.Round(2),
		Description:      req.Description,
	}
	if err := h.catalogSvc.CreatePlan(c.Context(), plan); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlanDuration),
			errors.Is(err, service.ErrInvalidPlanPrice):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, repository.ErrServiceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "service not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create plan",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}
