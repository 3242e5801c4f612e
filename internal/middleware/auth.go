package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/auth"
)

// RequireAuth validates the bearer token and stashes the user id in locals.
func RequireAuth(jwt *auth.JWTManager, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hdr := c.Get("Authorization")
		if hdr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "code": "UNAUTHORIZED", "message": "missing authorization"})
		}
		if !strings.HasPrefix(hdr, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "code": "UNAUTHORIZED", "message": "invalid authorization header"})
		}
		token := strings.TrimPrefix(hdr, "Bearer ")
		userID, err := jwt.Verify(token, "access")
		if err != nil {
			log.Debugw("jwt rejected", "err", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "code": "UNAUTHORIZED", "message": "invalid or expired token"})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// UserID reads the authenticated user from locals.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok {
		return v
	}
	return ""
}
