package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Okpara007/buzz4less/internal/middleware"
	"github.com/Okpara007/buzz4less/internal/repository"
)

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

// StartCheckout creates a hosted checkout session for the caller and
// returns the provider redirect URL.
func (h *Handler) StartCheckout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid plan id",
		})
	}

	redirectURL, err := h.checkoutSvc.StartCheckout(c.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "plan not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to start checkout",
		})
	}

	return c.JSON(fiber.Map{
		"redirect_url": redirectURL,
	})
}
