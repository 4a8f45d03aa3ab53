// Package admin aggregates marketplace-wide figures for the admin
// dashboard.
package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats is a point-in-time summary of the marketplace.
type DashboardStats struct {
	TotalProperties    int64 `json:"total_properties"`
	AvailableListings  int64 `json:"available_listings"`
	FeaturedProperties int64 `json:"featured_properties"`
	ActiveAgents       int64 `json:"active_agents"`
	PendingAgents      int64 `json:"pending_agents"`
	NewInquiries       int64 `json:"new_inquiries"`
	OpenInquiries      int64 `json:"open_inquiries"`
	TotalViews         int64 `json:"total_views"`
}

// Repository reads dashboard aggregates.
type Repository interface {
	Stats(ctx context.Context) (DashboardStats, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed admin repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Stats computes the dashboard aggregates in a single round trip.
func (r *PGRepository) Stats(ctx context.Context) (DashboardStats, error) {
	const statsSQL = `
		SELECT
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM properties WHERE status = 'available'),
			(SELECT COUNT(*) FROM properties WHERE featured),
			(SELECT COUNT(*) FROM agents WHERE active),
			(SELECT COUNT(*) FROM agents WHERE NOT active),
			(SELECT COUNT(*) FROM inquiries WHERE status = 'new'),
			(SELECT COUNT(*) FROM inquiries WHERE status IN ('new', 'in-progress')),
			(SELECT COALESCE(SUM(view_count), 0) FROM properties)
	`

	var stats DashboardStats
	err := r.pool.QueryRow(ctx, statsSQL).Scan(
		&stats.TotalProperties,
		&stats.AvailableListings,
		&stats.FeaturedProperties,
		&stats.ActiveAgents,
		&stats.PendingAgents,
		&stats.NewInquiries,
		&stats.OpenInquiries,
		&stats.TotalViews,
	)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("admin: dashboard stats: %w", err)
	}

	return stats, nil
}

// Service exposes admin-only read operations.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard returns the current marketplace summary.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	return s.repo.Stats(ctx)
}
