package middleware

import (
	"errors"
	"strings"

	"campus-hire/internal/domain/user"
	"campus-hire/internal/pkg/jwt"
	"campus-hire/internal/repository"

	"github.com/gofiber/fiber/v3"
)

const CtxActorKey = "actor"

type AuthMiddleware struct {
	jwt   jwt.Service
	users repository.UserRepository
}

func NewAuthMiddleware(jwtSvc jwt.Service, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

// Middleware verifies the bearer token and resolves the subject against
// the user store. Resolution matters: a token outlives role changes and
// deletions, so the claims alone are never trusted for authorization.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		actor, err := m.users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return NewAppError(fiber.StatusUnauthorized, "Account no longer exists", nil, nil)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if !actor.IsVerified {
			return NewAppError(fiber.StatusForbidden, "Email verification required", nil, nil)
		}

		c.Locals(CtxActorKey, actor)
		return c.Next()
	}
}

// RequireRole gates a route group on the stored role, not the token claim.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Insufficient role", nil, nil)
	}
}

func ActorFromCtx(c fiber.Ctx) (user.User, bool) {
	actor, ok := c.Locals(CtxActorKey).(user.User)
	return actor, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
