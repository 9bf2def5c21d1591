package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

const dashboardCacheKey = "complaints:analytics:dashboard"

// DashboardCache stores the most recent dashboard snapshot.
type DashboardCache interface {
	Get(ctx context.Context) (*domain.Dashboard, error)
	Set(ctx context.Context, dashboard *domain.Dashboard) error
	Invalidate(ctx context.Context) error
}

// ErrCacheMiss is returned by DashboardCache.Get when nothing is cached.
var ErrCacheMiss = errors.New("dashboard not cached")

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDashboardCache caches dashboards in Redis for ttl.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	return &redisDashboardCache{client: client, ttl: ttl}
}

func (c *redisDashboardCache) Get(ctx context.Context) (*domain.Dashboard, error) {
	raw, err := c.client.Get(ctx, dashboardCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var dashboard domain.Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, dashboard *domain.Dashboard) error {
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardCacheKey, raw, c.ttl).Err()
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, dashboardCacheKey).Err()
}
