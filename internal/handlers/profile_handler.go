package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	u, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, u)
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var req struct {
		DisplayName   *string              `json:"display_name"`
		Bio           *string              `json:"bio"`
		AvatarMediaID *string              `json:"avatar_media_id"`
		Links         []models.ProfileLink `json:"links"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	u, err := h.svc.Update(c.Context(), middleware.UserID(c), service.ProfileUpdate{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarMediaID: req.AvatarMediaID,
		Links:         req.Links,
	})
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, u)
}

func (h *ProfileHandler) Follow(c *fiber.Ctx) error {
	if err := h.svc.Follow(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"following": true})
}

func (h *ProfileHandler) Unfollow(c *fiber.Ctx) error {
	if err := h.svc.Unfollow(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"following": false})
}

func (h *ProfileHandler) Followers(c *fiber.Ctx) error {
	items, err := h.svc.Followers(c.Context(), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": items})
}

func (h *ProfileHandler) Following(c *fiber.Ctx) error {
	items, err := h.svc.Following(c.Context(), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": items})
}
