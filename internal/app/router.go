// Package app provides router configuration.
package app

import (
	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/http"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	cfg config.Config,
	services *ServiceComponents,
	db *DatabaseComponents,
	storage *StorageComponents,
) *RouterComponents {
	breakers := circuitbreaker.List{}
	opts := []http.HandlerOption{
		http.WithCacheStats(services.CoverCache, services.SearchCache, services.MetadataCache),
		http.WithPublicBaseURL(cfg.Server.PublicBaseURL),
	}

	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterUpstreams(services.Upstreams)

	var asyncLogger *middleware.AsyncLogger
	if db != nil {
		opts = append(opts, http.WithActivityLog(db.ActivityService))
		asyncLogger = middleware.NewAsyncLogger(db.ActivityService, middleware.DefaultAsyncLoggerConfig())
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(db.DB.HealthCheck))
		healthHandler.RegisterCircuitBreaker("mongodb_activity", db.ActivityCircuitBreaker)
		breakers = append(breakers, db.ActivityCircuitBreaker)
	}

	if storage != nil && storage.Store != nil {
		if storage.Redis != nil {
			healthHandler.RegisterChecker("redis", http.HealthCheckFunc(storage.Redis.Ping))
		}
		healthHandler.RegisterCircuitBreaker("cache_store", storage.CircuitBreaker)
		breakers = append(breakers, storage.CircuitBreaker)
	}

	opts = append(opts, http.WithBreakerStats(breakers, services.Upstreams))

	handler := http.NewHandler(
		services.Covers,
		services.Images,
		services.Downloads,
		services.Searcher,
		services.Metadata,
		opts...,
	)

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	routerCfg := http.DefaultRouterConfig()
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass
	routerCfg.RateLimiter = limiter
	routerCfg.AsyncLogger = asyncLogger

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
