// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"exercise_tracker/internal/feature/tracker/adapters"
	"exercise_tracker/internal/feature/tracker/usecase"
	"exercise_tracker/internal/platform/cache"
	"exercise_tracker/internal/platform/config"
)

// NewExerciseRepository creates an ExerciseRepository implementation.
// If Redis is available, the GORM repository is wrapped with the log cache.
// Otherwise, queries go straight to the database.
func NewExerciseRepository(db *gorm.DB, rdb *redis.Client, cfg config.CacheConfig, recorder cache.Recorder) usecase.ExerciseRepository {
	repo := adapters.NewExerciseRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingExerciseRepository(rdb, cfg.TTL, repo, cfg.Namespace, recorder)
}
