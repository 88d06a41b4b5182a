package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"campus-hire/internal/delivery/http/dto"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/domain/application"
	"campus-hire/internal/pkg/response"
	"campus-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc   usecase.ApplicationUsecase
	auth *middleware.AuthMiddleware
}

type applyRequest struct {
	JobID uuid.UUID `json:"jobId"`
}

type updateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type scheduleInterviewRequest struct {
	Date time.Time `json:"date"`
}

func NewApplicationHandler(uc usecase.ApplicationUsecase, auth *middleware.AuthMiddleware) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, auth: auth}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Use(h.auth.Middleware())

	r.Post("/", h.Apply)
	r.Get("/mine", h.ListMine)
	r.Get("/received", h.ListForRecruiter)
	r.Get("/check/:jobId", h.Check)
	r.Get("/job/:jobId", h.ListByJob)

	r.Get("/:id", h.Get)
	r.Delete("/:id", h.Delete)
	r.Patch("/:id/status", h.UpdateStatus)
	r.Post("/:id/interview", h.ScheduleInterview)
	r.Get("/:id/resume", h.DownloadResume)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.JobID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "jobId is required", nil, nil)
	}

	a, err := h.uc.Apply(c.Context(), actor, req.JobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "application submitted", dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) Check(c fiber.Ctx) error {
	actor, jobID, err := actorAndID(c, "jobId")
	if err != nil {
		return err
	}

	applied, err := h.uc.Check(c.Context(), actor, jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"applied": applied,
	})
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	a, err := h.uc.Get(c.Context(), actor, id)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "application deleted", nil)
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.UpdateStatus(c.Context(), actor, id, req.Status, req.Notes)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "status updated", dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) ScheduleInterview(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	var req scheduleInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Date.IsZero() {
		return middleware.NewAppError(fiber.StatusBadRequest, "date is required", nil, nil)
	}

	result, err := h.uc.ScheduleInterview(c.Context(), actor, id, req.Date)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	data := dto.NewApplicationResponse(result.Application)
	if result.Warning != "" {
		return response.SuccessWithWarning(c, fiber.StatusOK, "interview scheduled", data, result.Warning)
	}
	return response.Success(c, fiber.StatusOK, "interview scheduled", data)
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationWithJobResponses(items))
}

func (h *ApplicationHandler) ListForRecruiter(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListForRecruiter(c.Context(), actor)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationWithUserResponses(items))
}

func (h *ApplicationHandler) ListByJob(c fiber.Ctx) error {
	actor, jobID, err := actorAndID(c, "jobId")
	if err != nil {
		return err
	}

	items, err := h.uc.ListByJob(c.Context(), actor, jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationWithUserResponses(items))
}

func (h *ApplicationHandler) DownloadResume(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	rc, key, err := h.uc.DownloadResume(c.Context(), actor, id)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filepath.Base(key)))
	return c.SendStream(rc)
}

func mapApplicationUsecaseError(err error) error {
	switch {
	case errors.Is(err, application.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInterviewDateInPast):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrResumeRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, application.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobClosed):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotApplicationOwner):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrResumeMissing):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case isNotFound(err):
		return middleware.NewAppError(fiber.StatusNotFound, "not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
