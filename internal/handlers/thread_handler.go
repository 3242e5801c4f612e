package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type ThreadHandler struct {
	svc *service.ThreadService
}

func NewThreadHandler(svc *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

func (h *ThreadHandler) List(c *fiber.Ctx) error {
	threads, err := h.svc.ListThreads(c.Context(), middleware.UserID(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": threads})
}

func (h *ThreadHandler) CreateDirect(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	t, err := h.svc.CreateDirect(c.Context(), middleware.UserID(c), req.UserID)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, t)
}

func (h *ThreadHandler) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name    string   `json:"name"`
		UserIDs []string `json:"user_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	t, err := h.svc.CreateGroup(c.Context(), middleware.UserID(c), req.Name, req.UserIDs)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, t)
}

func (h *ThreadHandler) Messages(c *fiber.Ctx) error {
	before := parseBefore(c)
	limit := int64(c.QueryInt("limit", 0))
	msgs, err := h.svc.ListMessages(c.Context(), middleware.UserID(c), c.Params("id"), limit, before)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": msgs})
}

func (h *ThreadHandler) Send(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	m, err := h.svc.SendMessage(c.Context(), middleware.UserID(c), c.Params("id"), req.Body)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, m)
}

func (h *ThreadHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.svc.MarkRead(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"read": true})
}

func (h *ThreadHandler) Leave(c *fiber.Ctx) error {
	if err := h.svc.Leave(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"left": true})
}

// parseBefore reads the RFC3339 pagination cursor; absent or malformed means
// "from the newest".
func parseBefore(c *fiber.Ctx) time.Time {
	raw := c.Query("before")
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
