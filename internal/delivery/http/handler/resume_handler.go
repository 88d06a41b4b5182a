package handler

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/pkg/response"
	"campus-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc   usecase.ResumeUsecase
	auth *middleware.AuthMiddleware
}

func NewResumeHandler(uc usecase.ResumeUsecase, auth *middleware.AuthMiddleware) *ResumeHandler {
	return &ResumeHandler{uc: uc, auth: auth}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Use(h.auth.Middleware())

	r.Post("/", h.Upload)
	r.Get("/", h.Download)
	r.Get("/recommendations", h.Recommend)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume file is required", nil, err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "could not read upload", nil, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "could not read upload", nil, err)
	}

	result, err := h.uc.Upload(c.Context(), actor, fh.Filename, data)
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "resume uploaded", map[string]any{
		"resumeKey": result.ResumeKey,
		"skills":    result.Skills,
	})
}

func (h *ResumeHandler) Download(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	rc, key, err := h.uc.Download(c.Context(), actor)
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filepath.Base(key)))
	return c.SendStream(rc)
}

func (h *ResumeHandler) Recommend(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	matches, err := h.uc.Recommend(c.Context(), actor)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, matches)
}

func mapResumeUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnsupportedFileType),
		errors.Is(err, usecase.ErrEmptyFile),
		errors.Is(err, usecase.ErrFileTooLarge),
		errors.Is(err, usecase.ErrNoSkillsOnFile):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNoResumeOnFile):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrParserUnavailable),
		errors.Is(err, usecase.ErrMatcherUnavailable):
		return middleware.NewAppError(fiber.StatusBadGateway, err.Error(), nil, err)
	case isNotFound(err):
		return middleware.NewAppError(fiber.StatusNotFound, "not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
