package rdx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"tripwise/logging"
	"tripwise/metrics"
	"tripwise/models"
	"tripwise/store"
)

const keyPrefix = "dest:"

// CachedDestinations caches the catalog-wide destination queries in Redis.
// Redis failures are logged and the backing store answers instead.
type CachedDestinations struct {
	next store.DestinationStore
	conn *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

var _ store.DestinationStore = (*CachedDestinations)(nil)

func NewCachedDestinations(next store.DestinationStore, conn *redis.Client, ttl time.Duration) *CachedDestinations {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDestinations{next: next, conn: conn, ttl: ttl, log: logging.With("destination-cache")}
}

func (c *CachedDestinations) GetAll(ctx context.Context) ([]models.Destination, error) {
	return c.cached(ctx, keyPrefix+"all", func() ([]models.Destination, error) {
		return c.next.GetAll(ctx)
	})
}

func (c *CachedDestinations) GetTopRated(ctx context.Context, count int) ([]models.Destination, error) {
	return c.cached(ctx, fmt.Sprintf("%stop:%d", keyPrefix, count), func() ([]models.Destination, error) {
		return c.next.GetTopRated(ctx, count)
	})
}

func (c *CachedDestinations) GetByRecommendedSeason(ctx context.Context, season models.Season) ([]models.Destination, error) {
	key := keyPrefix + "season:" + strings.ToLower(string(season))
	return c.cached(ctx, key, func() ([]models.Destination, error) {
		return c.next.GetByRecommendedSeason(ctx, season)
	})
}

// GetByID and GetNearLocation are not cached.
func (c *CachedDestinations) GetByID(ctx context.Context, id string) (*models.Destination, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedDestinations) GetNearLocation(ctx context.Context, lat, lon, radiusKm float64) ([]models.Destination, error) {
	return c.next.GetNearLocation(ctx, lat, lon, radiusKm)
}

// Invalidate drops every cached destination query.
func (c *CachedDestinations) Invalidate(ctx context.Context) error {
	iter := c.conn.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.conn.Del(ctx, keys...).Err()
}

func (c *CachedDestinations) cached(ctx context.Context, key string, load func() ([]models.Destination, error)) ([]models.Destination, error) {
	raw, err := c.conn.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ds []models.Destination
		uerr := json.Unmarshal(raw, &ds)
		if uerr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return ds, nil
		}
		c.log.Warn().Err(uerr).Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	ds, err := load()
	if err != nil {
		return nil, err
	}
	if data, merr := json.Marshal(ds); merr == nil {
		if serr := c.conn.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Str("key", key).Msg("cache write failed")
		}
	}
	return ds, nil
}
