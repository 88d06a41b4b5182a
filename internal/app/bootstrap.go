package app

import (
	"fmt"
	"log"
	"strings"

	"campus-hire/internal/config"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/delivery/http/routes"
	v1 "campus-hire/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap builds the container and the fiber app around it. The cleanup
// function closes everything the container opened.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 8 << 20,
	})

	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(logger).Middleware())

	routes.NewRegistry(v1.Deps{
		Config: container.Config,
		DB:     container.DB,
		OTP:    container.OTP,
		Mail:   container.Mail,
		ML:     container.ML,
		Store:  container.Store,
	}).Register(f)

	return &App{Fiber: f}, container.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
