package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
)

// StatsRepository aggregates the admin dashboard counters.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// AdminStats runs the dashboard aggregate queries.
func (r *StatsRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{GeneratedAt: time.Now().UTC()}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM customer`, &stats.TotalCustomers},
		{`SELECT COUNT(*) FROM worker`, &stats.TotalWorkers},
		{`SELECT COUNT(*) FROM booking`, &stats.TotalBookings},
		{`SELECT COUNT(*) FROM service_category`, &stats.TotalCategories},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	const pending = `SELECT COUNT(*) FROM booking WHERE status = $1 AND worker_id IS NULL`
	if err := r.db.GetContext(ctx, &stats.PendingRequests, pending, models.BookingPending); err != nil {
		return nil, fmt.Errorf("dashboard pending: %w", err)
	}

	const revenue = `SELECT COALESCE(SUM(total_amount), 0) FROM booking WHERE status = $1`
	if err := r.db.GetContext(ctx, &stats.TotalRevenue, revenue, models.BookingCompleted); err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}

	return stats, nil
}
