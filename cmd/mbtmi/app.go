package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/cache"
	"github.com/mbtmi/mbtmi/internal/config"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/repositories/postgres"
	"github.com/mbtmi/mbtmi/internal/services"
	"github.com/mbtmi/mbtmi/internal/utils"
	"github.com/mbtmi/mbtmi/internal/validator"
	"github.com/mbtmi/mbtmi/pkg"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds everything a command needs, wired from configuration
type app struct {
	cfg       *config.Config
	logger    utils.Logger
	db        *gorm.DB
	repo      repositories.Repository
	redis     *redis.Client
	publisher events.EventPublisher
	services  services.ServiceManager
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if url, _ := cmd.Flags().GetString("db"); url != "" {
		cfg.DatabaseURL = url
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.DatabaseDriver = driver
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		cfg.AutoMigrate = true
	}

	logger := utils.NewLogger(cfg.Environment, nil)
	slogger := logger.Slog()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	repo := postgres.NewRepository(db)

	a := &app{cfg: cfg, logger: logger, db: db, repo: repo}

	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("Database schema migrated")
	}

	a.redis, err = pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		// The catalogue cache is optional
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	}

	a.publisher, err = cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create event publisher: %w", err)
	}

	a.services = services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Cache:     cache.NewRedisCache(a.redis, slogger),
		CacheTTL:  cfg.CacheTTL,
		Publisher: a.publisher,
		Hasher:    auth.NewPasswordHasher(cfg.ScryptN),
		Validator: validator.New(),
		Logger:    slogger,
	})

	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close event publisher", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) slog() *slog.Logger {
	return a.logger.Slog()
}
