package v1

import (
	"campus-hire/internal/config"
	"campus-hire/internal/database"
	"campus-hire/internal/delivery/http/handler"
	"campus-hire/internal/delivery/http/middleware"
	"campus-hire/internal/infrastructure/mailer"
	"campus-hire/internal/infrastructure/mlclient"
	"campus-hire/internal/infrastructure/otp"
	"campus-hire/internal/infrastructure/storage"
	"campus-hire/internal/pkg/jwt"
	"campus-hire/internal/repository"
	"campus-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps are the externally constructed dependencies the v1 API wires
// together: everything with a connection or a credential lives in the
// container, not here.
type Deps struct {
	Config config.Config
	DB     database.DB
	OTP    otp.Store
	Mail   mailer.Mailer
	ML     mlclient.Client
	Store  storage.ObjectStore
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(d.Config.JWT.Secret, d.Config.JWT.SessionTTL)

	userRepo := repository.NewPostgresUserRepository(d.DB)
	jobRepo := repository.NewPostgresJobRepository(d.DB)
	applicationRepo := repository.NewPostgresApplicationRepository(d.DB)
	adminRepo := repository.NewPostgresAdminRepository(d.DB)
	analyticsRepo := repository.NewPostgresAnalyticsRepository(d.DB)

	authMw := middleware.NewAuthMiddleware(jwtSvc, userRepo)

	frontend := d.Config.App.FrontendURL

	authUC := usecase.NewAuthUsecase(userRepo, d.OTP, d.Mail, jwtSvc, frontend)
	jobUC := usecase.NewJobUsecase(jobRepo, applicationRepo, analyticsRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, userRepo, d.Store, d.Mail)
	resumeUC := usecase.NewResumeUsecase(userRepo, jobRepo, d.Store, d.ML)
	adminUC := usecase.NewAdminUsecase(userRepo, jobRepo, adminRepo, d.Mail, frontend)
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo, userRepo, jobRepo, applicationRepo)

	handler.NewAuthHandler(authUC, authMw).RegisterRoutes(r.Group("/auth"))
	handler.NewJobHandler(jobUC, authMw).RegisterRoutes(r.Group("/jobs"))
	handler.NewApplicationHandler(applicationUC, authMw).RegisterRoutes(r.Group("/applications"))
	handler.NewResumeHandler(resumeUC, authMw).RegisterRoutes(r.Group("/resume"))
	handler.NewAdminHandler(adminUC, analyticsUC, authMw).RegisterRoutes(r.Group("/admin"))
}
