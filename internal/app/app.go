// Package app wires configuration, storage and the HTTP stack together for
// the server and the sitectl tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/cache"
	"corpsite/internal/database"
	"corpsite/internal/observability"
	"corpsite/internal/repository"
	"corpsite/internal/router"
	"corpsite/internal/service"
	"corpsite/internal/ws"
	"corpsite/pkg/cloudinary"
	"corpsite/pkg/mailer"
	"corpsite/pkg/youtube"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-lived resources of one process.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	DB     *gorm.DB
	Cache  cache.Store

	redis *redis.Client
}

// New loads the configuration, installs the global logger and opens the
// database. Redis is optional; without it pages are not cached.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := observability.NewLogger(cfg.Server.Env, cfg.Log)
	observability.SetGlobal(logger)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, DB: db, Cache: cache.NopStore{}}

	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, page cache disabled")
		} else {
			a.redis = rc
			a.Cache = cache.NewRedisStore(rc)
		}
	}
	return a, nil
}

// Migrate creates or updates the schema and seeds settings and the first admin.
func (a *App) Migrate() error {
	if err := database.AutoMigrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return a.Seed()
}

func (a *App) Seed() error {
	if err := database.SeedSettings(a.DB); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if err := database.SeedAdmin(a.DB, &a.Config.Admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// Publisher returns a publisher for offline mutations: cache tags and audit
// entries, no live feed.
func (a *App) Publisher() *service.Publisher {
	return service.NewPublisher(a.Cache, repository.NewAuditLogRepository(a.DB), nil)
}

// Handler builds the full HTTP stack with every optional integration the
// configuration enables.
func (a *App) Handler() (http.Handler, error) {
	cfg := a.Config
	deps := router.Deps{
		Config:  cfg,
		DB:      a.DB,
		Cache:   a.Cache,
		Videos:  youtube.New(cfg.YouTube.BaseURL, cfg.YouTube.APIKey, cfg.YouTube.RPS),
		Mail:    mailer.New(cfg.Mail),
		Hub:     ws.NewHub(),
		Metrics: observability.InitRegistry(),
		Logger:  a.Logger,
	}
	if cfg.Cloudinary.Enabled() {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, fmt.Errorf("cloudinary: %w", err)
		}
		deps.Cloud = cloud
	} else {
		a.Logger.Warn().Msg("cloudinary not configured, image uploads disabled")
	}
	if fcm := service.NewFCMService(cfg.Firebase.ServiceAccountPath); fcm != nil {
		deps.Push = fcm
	}
	if !cfg.Mail.Enabled() {
		a.Logger.Warn().Msg("smtp not configured, mail is logged only")
	}
	return router.Setup(deps), nil
}

// Serve runs the HTTP server until ctx is done, then drains it.
func (a *App) Serve(ctx context.Context) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           h,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", a.Config.Server.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, database.Close(a.DB))
	return errors.Join(errs...)
}
