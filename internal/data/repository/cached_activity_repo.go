package repository

import (
	"context"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityCache is shared by every scope that reads activities.
type ActivityCache = cache.TTL[uuid.UUID, entity.Activity]

func NewActivityCache(ttl time.Duration) *ActivityCache {
	return cache.New[uuid.UUID, entity.Activity](ttl, uuid.UUID.String)
}

type cachedActivityRepository struct {
	inner ActivityRepository
	cache *ActivityCache
	log   *zap.Logger
}

// NewCachedActivityRepository serves FindByID from cache and invalidates on writes.
// Cached values are copies; callers cannot mutate the cached entry.
func NewCachedActivityRepository(inner ActivityRepository, c *ActivityCache, log *zap.Logger) ActivityRepository {
	return &cachedActivityRepository{
		inner: inner,
		cache: c,
		log:   log.With(zap.String("repository", "activity_cache")),
	}
}

func (r *cachedActivityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	if err := r.inner.Create(ctx, activity); err != nil {
		return err
	}
	r.cache.Invalidate(activity.ID)
	return nil
}

func (r *cachedActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	a, found, err := r.cache.GetOrLoad(ctx, id, func(ctx context.Context) (entity.Activity, bool, error) {
		r.log.Debug("Activity cache miss", zap.String("activity_id", id.String()))
		loaded, err := r.inner.FindByID(ctx, id)
		if err != nil || loaded == nil {
			return entity.Activity{}, false, err
		}
		return *loaded, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &a, nil
}

func (r *cachedActivityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	if err := r.inner.Update(ctx, activity); err != nil {
		return err
	}
	r.cache.Invalidate(activity.ID)
	return nil
}
