package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type statsRepoStub struct {
	stats *models.AdminStats
	calls int
}

func (s *statsRepoStub) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	s.calls++
	return s.stats, nil
}

type cacheStub struct {
	entries map[string][]byte
	sets    int
}

func newCacheStub() *cacheStub {
	return &cacheStub{entries: map[string][]byte{}}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	s.sets++
	return nil
}

func (s *cacheStub) Delete(ctx context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func TestDashboardStatsCachesResult(t *testing.T) {
	stats := &statsRepoStub{stats: &models.AdminStats{TotalBookings: 7, PendingRequests: 2}}
	cache := newCacheStub()
	svc := NewDashboardService(stats, cache, nil, time.Minute, zap.NewNop())

	first, err := svc.Stats(context.Background(), adminIdentity())
	require.NoError(t, err)
	require.Equal(t, 7, first.TotalBookings)
	require.Equal(t, 1, stats.calls)

	second, err := svc.Stats(context.Background(), adminIdentity())
	require.NoError(t, err)
	require.Equal(t, 7, second.TotalBookings)
	require.Equal(t, 1, stats.calls, "second read must hit the cache")
}

func TestDashboardInvalidateForcesFreshRead(t *testing.T) {
	stats := &statsRepoStub{stats: &models.AdminStats{TotalBookings: 7}}
	cache := newCacheStub()
	svc := NewDashboardService(stats, cache, nil, time.Minute, zap.NewNop())

	_, err := svc.Stats(context.Background(), adminIdentity())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.Stats(context.Background(), adminIdentity())
	require.NoError(t, err)
	require.Equal(t, 2, stats.calls)
}

func TestDashboardStatsAdminOnly(t *testing.T) {
	svc := NewDashboardService(&statsRepoStub{stats: &models.AdminStats{}}, newCacheStub(), nil, time.Minute, zap.NewNop())

	_, err := svc.Stats(context.Background(), customerIdentity())
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}
