package models

import "time"

// AdminStats aggregates the counters shown on the admin dashboard.
type AdminStats struct {
	TotalCustomers  int       `json:"total_customers"`
	TotalWorkers    int       `json:"total_workers"`
	TotalBookings   int       `json:"total_bookings"`
	TotalCategories int       `json:"total_categories"`
	PendingRequests int       `json:"pending_requests"`
	TotalRevenue    float64   `json:"total_revenue"`
	GeneratedAt     time.Time `json:"generated_at"`
}
