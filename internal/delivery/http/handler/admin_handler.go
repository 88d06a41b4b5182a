package handler

import (
	"errors"
	"strconv"

	"campus-hire/internal/delivery/http/dto"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/pkg/response"
	"campus-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminHandler struct {
	uc        usecase.AdminUsecase
	analytics usecase.AnalyticsUsecase
	auth      *middleware.AuthMiddleware
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type sendInviteRequest struct {
	Email string `json:"email"`
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

func NewAdminHandler(uc usecase.AdminUsecase, analytics usecase.AnalyticsUsecase, auth *middleware.AuthMiddleware) *AdminHandler {
	return &AdminHandler{uc: uc, analytics: analytics, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Use(h.auth.Middleware())

	// Accepting an invite is the one admin route open to non-admins: the
	// caller becomes an admin by calling it.
	r.Post("/accept-invite", h.AcceptInvite)

	r.Use(h.auth.RequireRole(user.RoleAdmin))

	r.Get("/users", h.ListUsers)
	r.Delete("/users/:id", h.DeleteUser)
	r.Patch("/users/:id/role", h.ChangeRole)
	r.Get("/users/:id/analytics", h.PerUserAnalytics)

	r.Get("/jobs", h.ListJobs)
	r.Delete("/jobs/:id", h.DeleteJob)
	r.Get("/jobs/:id/match-scores", h.JobMatchScores)

	r.Post("/invites", h.SendInvite)
	r.Get("/logs", h.Logs)
	r.Get("/metrics", h.Metrics)
	r.Get("/analytics", h.ActivityCard)
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponses(users))
}

func (h *AdminHandler) DeleteUser(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Context(), actor, id); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "user deleted", nil)
}

func (h *AdminHandler) ChangeRole(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.uc.ChangeUserRole(c.Context(), actor, id, req.Role)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "role updated", userResponse(usr))
}

func (h *AdminHandler) ListJobs(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *AdminHandler) DeleteJob(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), actor, id); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "job deleted", nil)
}

func (h *AdminHandler) SendInvite(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req sendInviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.SendInvite(c.Context(), actor, req.Email)
	if err != nil {
		return mapAdminUsecaseError(err)
	}

	data := map[string]any{
		"email":     result.Invite.Email,
		"expiresAt": result.Invite.ExpiresAt,
	}
	if result.Warning != "" {
		return response.SuccessWithWarning(c, fiber.StatusCreated, "invite created", data, result.Warning)
	}
	return response.Success(c, fiber.StatusCreated, "invite created", data)
}

func (h *AdminHandler) AcceptInvite(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req acceptInviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.AcceptInvite(c.Context(), actor, req.Token); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "admin access granted", nil)
}

func (h *AdminHandler) Logs(c fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	logs, err := h.uc.Logs(c.Context(), page, limit)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"entries":    logs.Entries,
		"total":      logs.Total,
		"page":       logs.Page,
		"totalPages": logs.TotalPages,
	})
}

func (h *AdminHandler) Metrics(c fiber.Ctx) error {
	metrics, err := h.analytics.PlatformMetrics(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, metrics)
}

func (h *AdminHandler) ActivityCard(c fiber.Ctx) error {
	card, err := h.analytics.ActivityCard(c.Context(), c.Query("range", "all"))
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, card)
}

func (h *AdminHandler) PerUserAnalytics(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid id", nil, err)
	}

	analytics, err := h.analytics.PerUser(c.Context(), id)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, analytics)
}

func (h *AdminHandler) JobMatchScores(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid id", nil, err)
	}

	report, err := h.analytics.JobMatchScores(c.Context(), id)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

func queryInt(c fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func mapAdminUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRole),
		errors.Is(err, usecase.ErrInvalidEmail),
		errors.Is(err, usecase.ErrInvalidRange):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, admin.ErrInviteInvalid):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrCannotDeleteSelf):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case isNotFound(err):
		return middleware.NewAppError(fiber.StatusNotFound, "not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
