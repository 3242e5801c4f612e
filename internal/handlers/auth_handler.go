package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	u, err := h.svc.Register(c.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, fiber.Map{"user": u.Public()})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	tokens, err := h.svc.VerifyEmail(c.Context(), req.Email, req.Code)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, tokens)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	tokens, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	tokens, err := h.svc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.Context(), middleware.UserID(c)); err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"logged_out": true})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.svc.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, u)
}
