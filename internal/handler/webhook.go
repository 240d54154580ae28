package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Okpara007/buzz4less/internal/payment"
	"github.com/Okpara007/buzz4less/internal/repository"
)

// PaymentWebhook receives signed provider events. Verification or
// reference-resolution failures answer 400 with no side effects, so the
// provider retries; unmodeled event kinds answer 200 so it does not.
func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	event, err := payment.ConstructEvent(c.Body(), c.Get("Signature"), h.cfg.Payment.WebhookSecret)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := h.checkoutSvc.HandleEvent(c.Context(), event); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound),
			errors.Is(err, repository.ErrPlanNotFound),
			errors.Is(err, payment.ErrInvalidPayload):
			return c.SendStatus(fiber.StatusBadRequest)
		default:
			return c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
