package repository

import (
	"context"
	"time"

	"jobcoach/internal/domain/listing"

	"go.uber.org/zap"
)

type ListingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedListingRepository serves repeated queries from a short-lived cache.
// Cache failures fall through to the wrapped repository.
type CachedListingRepository struct {
	next   ListingRepository
	cache  ListingCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedListingRepository(next ListingRepository, cache ListingCache, ttl time.Duration, logger *zap.Logger) *CachedListingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedListingRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedListingRepository) Query(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	if r.cache == nil {
		return r.next.Query(ctx, f)
	}

	key := ListingQueryCacheKey(f)

	var cached []listing.Listing
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Debug("listing cache read failed", zap.String("key", key), zap.Error(err))
	}
	if err == nil && hit {
		r.logger.Debug("listing cache hit", zap.String("key", key))
		return cached, nil
	}

	out, err := r.next.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, key, out, r.ttl); err != nil {
		r.logger.Debug("listing cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}
