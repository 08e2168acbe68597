package middleware

import (
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired lets the request through only when the verified token carries
// the admin role. It must run after JWTProtected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := GetUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		role, err := GetRole(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
