package routes

import (
	v1 "campus-hire/internal/delivery/http/routes/v1"
	"campus-hire/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	deps v1.Deps
}

func NewRegistry(deps v1.Deps) *Registry {
	return &Registry{deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	app.Get("/health", func(c fiber.Ctx) error {
		if r.deps.DB != nil {
			if err := r.deps.DB.Ping(c.Context()); err != nil {
				return response.Error(c, fiber.StatusServiceUnavailable, "database unreachable", nil)
			}
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	})
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.deps)
}
