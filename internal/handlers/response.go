package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

func JSONSuccess(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"status": "ok", "data": payload})
}

func JSONError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "code": code, "message": msg})
}

// JSONFromErr maps service-layer errors onto the HTTP status/code surface the
// web client keys its toasts off.
func JSONFromErr(c *fiber.Ctx, err error) error {
	if service.IsValidation(err) {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	switch {
	case errors.Is(err, service.ErrEmailExists):
		return JSONError(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return JSONError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrEmailNotVerified):
		return JSONError(c, fiber.StatusForbidden, "EMAIL_NOT_VERIFIED", err.Error())
	case errors.Is(err, service.ErrCodeExpired):
		return JSONError(c, fiber.StatusGone, "TOKEN_EXPIRED", err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return JSONError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", err.Error())
	case errors.Is(err, service.ErrRateLimited):
		return JSONError(c, fiber.StatusTooManyRequests, "RATE_LIMITED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return JSONError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		return JSONError(c, fiber.StatusForbidden, "ACCESS_DENIED", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return JSONError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		return JSONError(c, fiber.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
