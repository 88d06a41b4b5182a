package handler

import (
	"errors"

	"campus-hire/internal/delivery/http/dto"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/domain/application"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func userResponse(u user.User) dto.UserResponse {
	return dto.NewUserResponse(u)
}

func isNotFound(err error) bool {
	return errors.Is(err, user.ErrNotFound) ||
		errors.Is(err, job.ErrNotFound) ||
		errors.Is(err, application.ErrNotFound)
}

// actorAndID pulls the authenticated actor and a uuid path parameter, the
// shape nearly every protected route starts with.
func actorAndID(c fiber.Ctx, param string) (user.User, uuid.UUID, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return user.User{}, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return user.User{}, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid id", nil, err)
	}
	return actor, id, nil
}

func actorFromCtx(c fiber.Ctx) (user.User, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return user.User{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return actor, nil
}
