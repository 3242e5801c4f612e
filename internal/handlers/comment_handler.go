package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) ListForPost(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 0))
	comments, err := h.svc.ListTop(c.Context(), middleware.UserID(c), c.Params("id"), limit, parseBefore(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": comments})
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Body     string `json:"body"`
		ParentID string `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	cm, err := h.svc.Create(c.Context(), middleware.UserID(c), c.Params("id"), req.ParentID, req.Body)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, cm)
}

func (h *CommentHandler) Replies(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 0))
	replies, err := h.svc.ListReplies(c.Context(), middleware.UserID(c), c.Params("id"), limit, parseBefore(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": replies})
}

func (h *CommentHandler) Edit(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	cm, err := h.svc.Edit(c.Context(), middleware.UserID(c), c.Params("id"), req.Body)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, cm)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
