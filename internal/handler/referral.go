package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Okpara007/buzz4less/internal/middleware"
	"github.com/Okpara007/buzz4less/internal/service"
)

func (h *Handler) GetReferralOverview(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	overview, err := h.referralSvc.Overview(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load referral overview",
		})
	}

	return c.JSON(overview)
}

func (h *Handler) SubmitWithdrawal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req service.WithdrawalInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	w, err := h.withdrawalSvc.Submit(c.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountBelowMinimum),
			errors.Is(err, service.ErrAmountExceedsEarnings),
			errors.Is(err, service.ErrInvalidWithdrawalMethod):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to submit withdrawal request",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":    "Your withdrawal request has been submitted successfully. We will process it shortly.",
		"withdrawal": w,
	})
}
