package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 0))
	items, err := h.svc.List(c.Context(), middleware.UserID(c), limit, parseBefore(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": items})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.svc.UnreadCount(c.Context(), middleware.UserID(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"count": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	if err := h.svc.MarkRead(c.Context(), middleware.UserID(c), req.IDs); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"read": true})
}
