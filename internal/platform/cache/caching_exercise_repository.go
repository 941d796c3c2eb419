// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"exercise_tracker/internal/feature/tracker/domain/entity"
	"exercise_tracker/internal/feature/tracker/usecase"
)

// Recorder receives cache hit/miss notifications. It may be nil.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// CachingExerciseRepository decorates an ExerciseRepository with a Redis
// read-through cache for log queries.
//
// Cached queries are keyed by a per-user generation counter. A write goes to the
// inner repository first and then bumps the generation, so a fill that raced with
// the write lands under a generation no reader will ask for again. Keys of older
// generations are removed on a best-effort basis and otherwise expire with the TTL.
type CachingExerciseRepository struct {
	inner     usecase.ExerciseRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	recorder  Recorder
}

var _ usecase.ExerciseRepository = (*CachingExerciseRepository)(nil)

// NewCachingExerciseRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "exercises".
// A nil rdb turns the decorator into a passthrough.
func NewCachingExerciseRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ExerciseRepository, namespace string, recorder Recorder) *CachingExerciseRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "exercises"
	}
	return &CachingExerciseRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		recorder:  recorder,
	}
}

// Create persists the entry, bumps the user's generation and drops the user's cached queries.
func (c *CachingExerciseRepository) Create(ctx context.Context, e *entity.Exercise) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, c.genKey(e.UserID)).Err(); err != nil {
		slog.Warn("failed to bump log cache generation", "user_id", e.UserID, "error", err)
	}
	_ = c.deleteByPattern(ctx, c.userPrefix(e.UserID)+"*")
	return nil
}

// FindByID is not cached.
func (c *CachingExerciseRepository) FindByID(ctx context.Context, id uint) (*entity.Exercise, error) {
	return c.inner.FindByID(ctx, id)
}

// ListByUser returns cached entries when present, otherwise loads and caches them.
func (c *CachingExerciseRepository) ListByUser(ctx context.Context, userID uint, f entity.LogFilter) ([]entity.Exercise, error) {
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID, f)
	}

	gen, ok := c.generation(ctx, userID)
	if !ok {
		return c.inner.ListByUser(ctx, userID, f)
	}
	key := c.listKey(userID, gen, f)
	var out []entity.Exercise
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// CountByUser returns the cached count when present, otherwise loads and caches it.
func (c *CachingExerciseRepository) CountByUser(ctx context.Context, userID uint, f entity.LogFilter) (int64, error) {
	if c.rdb == nil {
		return c.inner.CountByUser(ctx, userID, f)
	}

	gen, ok := c.generation(ctx, userID)
	if !ok {
		return c.inner.CountByUser(ctx, userID, f)
	}
	key := c.countKey(userID, gen, f)
	var n int64
	if c.get(ctx, key, &n) {
		return n, nil
	}

	n, err := c.inner.CountByUser(ctx, userID, f)
	if err != nil {
		return 0, err
	}
	c.set(ctx, key, n)
	return n, nil
}

// generation returns the user's current cache generation. A missing counter is
// generation 0. ok is false when Redis could not be read; callers then bypass the cache.
func (c *CachingExerciseRepository) generation(ctx context.Context, userID uint) (gen int64, ok bool) {
	gen, err := c.rdb.Get(ctx, c.genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.miss()
		return 0, false
	}
	return gen, true
}

// get decodes the cached value into dst and reports whether it was usable.
func (c *CachingExerciseRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil && len(b) > 0 {
		if err := json.Unmarshal(b, dst); err == nil {
			c.hit()
			return true
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}
	c.miss()
	return false
}

func (c *CachingExerciseRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingExerciseRepository) hit() {
	if c.recorder != nil {
		c.recorder.CacheHit()
	}
}

func (c *CachingExerciseRepository) miss() {
	if c.recorder != nil {
		c.recorder.CacheMiss()
	}
}

// userPrefix is shared by every query key of one user. The generation counter
// lives outside it so that invalidation never resets it.
func (c *CachingExerciseRepository) userPrefix(userID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, userID)
}

func (c *CachingExerciseRepository) genKey(userID uint) string {
	return fmt.Sprintf("%s:gen:%d", c.namespace, userID)
}

func (c *CachingExerciseRepository) listKey(userID uint, gen int64, f entity.LogFilter) string {
	return c.userPrefix(userID) + "g" + strconv.FormatInt(gen, 10) + ":list:" +
		safe(f.From) + ":" + safe(f.To) + ":" + strconv.Itoa(f.Limit)
}

func (c *CachingExerciseRepository) countKey(userID uint, gen int64, f entity.LogFilter) string {
	return c.userPrefix(userID) + "g" + strconv.FormatInt(gen, 10) + ":count:" + safe(f.From) + ":" + safe(f.To)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingExerciseRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
