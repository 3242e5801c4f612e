package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		Body       string   `json:"body"`
		Tags       []string `json:"tags"`
		MediaID    string   `json:"media_id"`
		Visibility string   `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	p, err := h.svc.Create(c.Context(), middleware.UserID(c), req.Title, req.Body, req.Tags, req.MediaID, req.Visibility)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, p)
}

func (h *PostHandler) Feed(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 0))
	posts, err := h.svc.Feed(c.Context(), middleware.UserID(c), limit, parseBefore(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	next := ""
	if len(posts) > 0 {
		next = posts[len(posts)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": posts, "next_cursor": next})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, p)
}

func (h *PostHandler) Like(c *fiber.Ctx) error   { return h.mark(c, true, true) }
func (h *PostHandler) Unlike(c *fiber.Ctx) error { return h.mark(c, true, false) }
func (h *PostHandler) Save(c *fiber.Ctx) error   { return h.mark(c, false, true) }
func (h *PostHandler) Unsave(c *fiber.Ctx) error { return h.mark(c, false, false) }

func (h *PostHandler) mark(c *fiber.Ctx, like, on bool) error {
	var (
		view interface{}
		err  error
	)
	if like {
		view, err = h.svc.SetLiked(c.Context(), middleware.UserID(c), c.Params("id"), on)
	} else {
		view, err = h.svc.SetSaved(c.Context(), middleware.UserID(c), c.Params("id"), on)
	}
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, view)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
