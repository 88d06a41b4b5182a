package handler

import (
	"errors"
	"strconv"
	"strings"

	"campus-hire/internal/delivery/http/dto"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/pkg/response"
	"campus-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc   usecase.JobUsecase
	auth *middleware.AuthMiddleware
}

type jobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	CompanyName    string   `json:"companyName"`
	RecruiterName  string   `json:"recruiterName"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary"`
	Type           string   `json:"type"`
	Experience     string   `json:"experience"`
	Remote         bool     `json:"remote"`
}

func NewJobHandler(uc usecase.JobUsecase, auth *middleware.AuthMiddleware) *JobHandler {
	return &JobHandler{uc: uc, auth: auth}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/search", h.Search)

	authed := h.auth.Middleware()
	r.Get("/mine", h.ListMine, authed)
	r.Get("/analytics", h.ApplicationsPerJob, authed)
	r.Post("/", h.Create, authed)

	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update, authed)
	r.Patch("/:id/toggle", h.ToggleActive, authed)
	r.Delete("/:id", h.Delete, authed)
	r.Get("/:id/skill-gap", h.SkillGap, authed)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.Create(c.Context(), actor, jobInput(req))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "job posted", dto.NewJobResponse(j))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.Update(c.Context(), actor, id, jobInput(req))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "job updated", dto.NewJobResponse(j))
}

func (h *JobHandler) ToggleActive(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	active, err := h.uc.ToggleActive(c.Context(), actor, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"id":       id,
		"isActive": active,
	})
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "job deleted", nil)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid id", nil, err)
	}

	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobHandler) List(c fiber.Ctx) error {
	jobs, err := h.uc.ListActive(c.Context())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleRecruiter {
		return middleware.NewAppError(fiber.StatusForbidden, "recruiters only", nil, nil)
	}

	jobs, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobHandler) Search(c fiber.Ctx) error {
	f := job.SearchFilter{
		Query:      strings.TrimSpace(c.Query("q")),
		Location:   strings.TrimSpace(c.Query("location")),
		Type:       strings.TrimSpace(c.Query("type")),
		Experience: strings.TrimSpace(c.Query("experience")),
	}
	if raw := c.Query("remote"); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "remote must be true or false", nil, err)
		}
		f.Remote = &remote
	}
	if raw := c.Query("skills"); raw != "" {
		f.Skills = strings.Split(raw, ",")
	}

	jobs, err := h.uc.Search(c.Context(), f)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobHandler) ApplicationsPerJob(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleRecruiter {
		return middleware.NewAppError(fiber.StatusForbidden, "recruiters only", nil, nil)
	}

	counts, err := h.uc.ApplicationsPerJob(c.Context(), actor)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	items := make([]map[string]any, 0, len(counts))
	for _, item := range counts {
		items = append(items, map[string]any{
			"jobId":        item.JobID,
			"title":        item.Title,
			"applications": item.Applications,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *JobHandler) SkillGap(c fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return err
	}

	gap, err := h.uc.SkillGapAnalysis(c.Context(), actor, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"jobId":         gap.Job.ID,
		"title":         gap.Job.Title,
		"applicants":    gap.Applicants,
		"coveredSkills": emptyIfNil(gap.CoveredSkills),
		"missingSkills": emptyIfNil(gap.MissingSkills),
	})
}

func jobInput(req jobRequest) usecase.JobInput {
	return usecase.JobInput{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		CompanyName:    req.CompanyName,
		RecruiterName:  req.RecruiterName,
		Location:       req.Location,
		Salary:         req.Salary,
		Type:           req.Type,
		Experience:     req.Experience,
		Remote:         req.Remote,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mapJobUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingJobFields):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrRecruiterOnly),
		errors.Is(err, usecase.ErrNotJobOwner):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case isNotFound(err):
		return middleware.NewAppError(fiber.StatusNotFound, "not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
