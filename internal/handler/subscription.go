package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Okpara007/buzz4less/internal/middleware"
	"github.com/Okpara007/buzz4less/internal/repository"
	"github.com/Okpara007/buzz4less/internal/service"
)

func (h *Handler) GetMySubscriptions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	subs, err := h.subscriptionSvc.ListForUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list subscriptions",
		})
	}

	return c.JSON(fiber.Map{"subscriptions": subs})
}

// CancelSubscription cancels the caller's subscription. The provider is
// consulted first; a genuine provider failure leaves local state untouched
// and surfaces as a gateway error.
func (h *Handler) CancelSubscription(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	subID, err := uuid.Parse(c.Params("subscription_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid subscription id",
		})
	}

	sub, err := h.subscriptionSvc.Cancel(c.Context(), subID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSubscriptionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no active subscription found",
			})
		case errors.Is(err, service.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to cancel subscription with the payment provider",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":      "Your subscription has been canceled.",
		"subscription": sub,
	})
}

// ExpireSubscriptions is the hook for the external periodic job that
// sweeps end dates.
func (h *Handler) ExpireSubscriptions(c *fiber.Ctx) error {
	n, err := h.subscriptionSvc.ExpireOverdue(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"expired": n,
	})
}
