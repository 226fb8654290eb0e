package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:stats"

type statsRepository interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DashboardService serves the admin dashboard counters with a short-lived
// cache in front of the aggregate queries.
type DashboardService struct {
	stats   statsRepository
	cache   cacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService. A nil metrics service
// disables cache instrumentation.
func NewDashboardService(stats statsRepository, cache cacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{stats: stats, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Stats returns the dashboard counters, cached. Cache failures degrade to a
// direct read.
func (s *DashboardService) Stats(ctx context.Context, identity models.Identity) (*models.AdminStats, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}

	var cached models.AdminStats
	err := s.cache.Get(ctx, dashboardCacheKey, &cached)
	if err == nil {
		s.metrics.CacheHit()
		return &cached, nil
	}
	s.metrics.CacheMiss()
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	stats, err := s.stats.AdminStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return stats, nil
}

// Invalidate drops the cached dashboard payload so the next read is fresh.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
