// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/repository"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                     *repository.MongoDB
	ActivityService        *service.ActivityService
	ActivityCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the activity log.
// Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if cfg.ActivityTTL > 0 {
		if err := db.SetActivityTTL(ctx, cfg.ActivityTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to set activity TTL index")
		}
	}

	activityCB := circuitbreaker.New(newBreakerConfig(cfg.CircuitBreaker, "mongodb-activity", nil))
	activityRepo := repository.NewActivityRepositoryWithCircuitBreaker(repository.NewActivityRepository(db), activityCB)

	return &DatabaseComponents{
		DB:                     db,
		ActivityService:        service.NewActivityService(activityRepo),
		ActivityCircuitBreaker: activityCB,
	}
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}
