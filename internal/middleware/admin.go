package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// StaffChecker answers whether a user holds the staff flag.
type StaffChecker interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// StaffOnly gates catalog-authoring endpoints to staff accounts. It must
// run after Auth.
func StaffOnly(checker StaffChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		staff, err := checker.IsStaff(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check staff status",
			})
		}
		if !staff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}

		return c.Next()
	}
}
