package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
)

type MediaHandler struct {
	svc *service.MediaService
}

func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	return h.upload(c, false)
}

func (h *MediaHandler) UploadAvatar(c *fiber.Ctx) error {
	return h.upload(c, true)
}

func (h *MediaHandler) upload(c *fiber.Ctx, avatar bool) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "file missing")
	}
	if fileHeader.Size > service.MaxUploadBytes {
		return JSONError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "file exceeds the 50MB limit")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return JSONError(c, fiber.StatusInternalServerError, "INTERNAL", "cannot open file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return JSONError(c, fiber.StatusInternalServerError, "INTERNAL", "cannot read file")
	}

	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	userID := middleware.UserID(c)
	var m interface{}
	if avatar {
		m, err = h.svc.UploadAvatar(c.Context(), userID, fileHeader.Filename, ct, data)
	} else {
		m, err = h.svc.Upload(c.Context(), userID, fileHeader.Filename, ct, data)
	}
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, m)
}

func (h *MediaHandler) SignedURL(c *fiber.Ctx) error {
	url, err := h.svc.SignedURL(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"url": url})
}

func (h *MediaHandler) RequestAccess(c *fiber.Ctx) error {
	req, err := h.svc.RequestAccess(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusCreated, req)
}

func (h *MediaHandler) ListAccessRequests(c *fiber.Ctx) error {
	items, err := h.svc.ListAccessRequests(c.Context(), middleware.UserID(c))
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, fiber.Map{"items": items})
}

func (h *MediaHandler) Approve(c *fiber.Ctx) error { return h.decide(c, true) }
func (h *MediaHandler) Deny(c *fiber.Ctx) error    { return h.decide(c, false) }

func (h *MediaHandler) decide(c *fiber.Ctx, approve bool) error {
	req, err := h.svc.Decide(c.Context(), middleware.UserID(c), c.Params("id"), approve)
	if err != nil {
		return JSONFromErr(c, err)
	}
	return JSONSuccess(c, fiber.StatusOK, req)
}
