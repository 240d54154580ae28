package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Okpara007/buzz4less/internal/middleware"
	"github.com/Okpara007/buzz4less/internal/service"
)

func (h *Handler) SubmitContact(c *fiber.Ctx) error {
	var req service.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	// Attribute the message when the caller happens to be logged in.
	var userID *int64
	if id := middleware.GetUserID(c); id != 0 {
		userID = &id
	}

	if err := h.contactSvc.Submit(c.Context(), userID, req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to submit contact message",
		})
	}

	return c.JSON(fiber.Map{
		"success": "Thanks for reaching out. We will get back to you shortly.",
	})
}
