package admin

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	t.Cleanup(pool.Close)

	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'properties')`).Scan(&exists); err != nil {
		t.Fatalf("check properties table: %v", err)
	}
	if !exists {
		t.Skip("properties table does not exist; ensure migrations are applied")
	}

	return pool
}

func TestRepository_StatsReflectsWrites(t *testing.T) {
	pool := integrationPool(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	before, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("baseline stats: %v", err)
	}

	suffix := time.Now().UnixNano()

	var propID string
	err = pool.QueryRow(ctx, `
		INSERT INTO properties (title, description, price, address, city, state, zip_code,
			bedrooms, bathrooms, sqft, property_type, images, amenities, featured, agent_id, view_count)
		VALUES ('Stats seed', 'seed', 100000, '1 Main St', 'Statsville', 'FL', '33139',
			2, 1, 900, 'house', '{}', '{}', true, $1, 5)
		RETURNING id
	`, fmt.Sprintf("agent-%d", suffix)).Scan(&propID)
	if err != nil {
		t.Fatalf("seed property: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM properties WHERE id = $1`, propID)
	})

	var agentID string
	err = pool.QueryRow(ctx, `
		INSERT INTO agents (name, email, phone, bio, profile_image_url, specialties, active)
		VALUES ('Stats Agent', $1, NULL, '', NULL, '{}', false)
		RETURNING id
	`, fmt.Sprintf("stats-%d@example.com", suffix)).Scan(&agentID)
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM agents WHERE id = $1`, agentID)
	})

	var inquiryID string
	err = pool.QueryRow(ctx, `
		INSERT INTO inquiries (property_id, name, email, phone, message, preferred_date, status)
		VALUES ($1, 'Stats Buyer', 'buyer@example.com', NULL, 'interested', NULL, 'new')
		RETURNING id
	`, propID).Scan(&inquiryID)
	if err != nil {
		t.Fatalf("seed inquiry: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM inquiries WHERE id = $1`, inquiryID)
	})

	after, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after seed: %v", err)
	}

	if after.TotalProperties != before.TotalProperties+1 {
		t.Fatalf("expected total properties %d, got %d", before.TotalProperties+1, after.TotalProperties)
	}
	if after.FeaturedProperties != before.FeaturedProperties+1 {
		t.Fatalf("expected featured properties %d, got %d", before.FeaturedProperties+1, after.FeaturedProperties)
	}
	if after.PendingAgents != before.PendingAgents+1 {
		t.Fatalf("expected pending agents %d, got %d", before.PendingAgents+1, after.PendingAgents)
	}
	if after.NewInquiries != before.NewInquiries+1 {
		t.Fatalf("expected new inquiries %d, got %d", before.NewInquiries+1, after.NewInquiries)
	}
	if after.TotalViews < before.TotalViews+5 {
		t.Fatalf("expected total views to grow by at least 5, got %d -> %d", before.TotalViews, after.TotalViews)
	}
}
