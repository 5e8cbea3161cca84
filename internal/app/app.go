// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/http"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/telemetry"
)

// App is the wired application and the resources it must release on shutdown.
type App struct {
	Router *gin.Engine

	Services *ServiceComponents
	Database *DatabaseComponents
	Storage  *StorageComponents
	Routes   *RouterComponents

	shutdownTracing telemetry.ShutdownFunc
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(ctx context.Context, cfg config.Config) *App {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to configure tracing - continuing without it")
	}

	// Database is optional: activity log and the mongodb cache store need it
	db := InitializeDatabase(ctx, cfg.Database)
	storage := InitializeStorage(ctx, cfg, db)
	services := InitializeServices(cfg, storage.Store)
	routes := InitializeRouter(cfg, services, db, storage)

	return &App{
		Router:          http.NewRouter(routes.Handler, routes.HealthHandler, routes.Config),
		Services:        services,
		Database:        db,
		Storage:         storage,
		Routes:          routes,
		shutdownTracing: shutdownTracing,
	}
}

// Shutdown stops background workers, flushes the activity log and closes
// connections. It should run after the HTTP server has stopped.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.Routes != nil {
		if a.Routes.Config.RateLimiter != nil {
			a.Routes.Config.RateLimiter.Stop()
		}
		if a.Routes.Config.AsyncLogger != nil {
			a.Routes.Config.AsyncLogger.Stop()
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Database.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
		return err
	}
	log.Info().Msg("Resources released")
	return nil
}
