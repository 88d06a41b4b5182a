package app

import (
	"context"
	"errors"
	"log"
	"time"

	"campus-hire/internal/config"
	"campus-hire/internal/database"
	"campus-hire/internal/database/migration"
	dbpostgres "campus-hire/internal/database/postgres"
	"campus-hire/internal/infrastructure/mailer"
	"campus-hire/internal/infrastructure/mlclient"
	"campus-hire/internal/infrastructure/otp"
	"campus-hire/internal/infrastructure/storage"
)

// Container owns every process-wide dependency: connections, clients and
// their credentials. Route wiring receives these ready-made.
type Container struct {
	Config config.Config
	DB     database.DB
	OTP    otp.Store
	Mail   mailer.Mailer
	ML     mlclient.Client
	Store  storage.ObjectStore

	otpCloser interface{ Close() error }
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migration.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{
		Config: cfg,
		DB:     db,
		Mail:   mailer.NewSMTPMailer(cfg.SMTP),
		ML:     mlclient.NewHTTPClient(cfg.ML),
	}

	// Redis is preferred for the OTP table so codes survive restarts and
	// are shared across instances; without it a single-process in-memory
	// table is enough.
	if cfg.Redis.Host != "" {
		redisStore, err := otp.NewRedisStore(cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		c.OTP = redisStore
		c.otpCloser = redisStore
	} else {
		logger.Printf("REDIS_HOST not set, using in-memory OTP store")
		c.OTP = otp.NewMemoryStore()
	}

	if cfg.Storage.Endpoint == "" {
		c.Close()
		return nil, errors.New("MINIO_ENDPOINT is required")
	}
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.otpCloser != nil {
		if err := c.otpCloser.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	return firstErr
}
