// Package actors holds the concurrent workload for the live query
// test: writers churning the properties table while subscriptions
// consume snapshots.
package actors

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var propertyTypes = []string{"house", "condo", "townhouse", "land", "commercial"}

// Each actor owns its rng; *rand.Rand is not safe for concurrent use.
func pause(rng *rand.Rand) {
	time.Sleep(time.Duration(10+rng.Intn(30)) * time.Millisecond)
}

func stopped(ctx context.Context, stop <-chan struct{}) (bool, error) {
	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-stop:
		return true, nil
	default:
		return false, nil
	}
}

// Lister inserts listings in the given city with randomized price,
// bedrooms and type.
func Lister(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, city string, stop <-chan struct{}) error {
	for {
		if done, err := stopped(ctx, stop); done {
			return err
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO properties (title, description, price, city, bedrooms, bathrooms, sqft, property_type, featured, agent_id)
			VALUES ($1, 'live test listing', $2, $3, $4, 2, 1200, $5::property_type, $6, 'agent-live')
		`,
			fmt.Sprintf("Listing %d", rng.Int63()),
			float64(50000+rng.Intn(950000)),
			city,
			rng.Intn(6),
			propertyTypes[rng.Intn(len(propertyTypes))],
			rng.Intn(4) == 0,
		)
		if err != nil {
			return fmt.Errorf("lister insert: %w", err)
		}
		pause(rng)
	}
}

// Flipper mutates random listings in the city: status transitions,
// featured toggles and price changes.
func Flipper(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, city string, stop <-chan struct{}) error {
	statuses := []string{"available", "pending", "sold"}
	for {
		if done, err := stopped(ctx, stop); done {
			return err
		}

		var err error
		switch rng.Intn(3) {
		case 0:
			_, err = pool.Exec(ctx, `
				UPDATE properties SET status = $2::property_status, updated_at = now()
				WHERE id = (SELECT id FROM properties WHERE city = $1 ORDER BY random() LIMIT 1)
			`, city, statuses[rng.Intn(len(statuses))])
		case 1:
			_, err = pool.Exec(ctx, `
				UPDATE properties SET featured = NOT featured, updated_at = now()
				WHERE id = (SELECT id FROM properties WHERE city = $1 ORDER BY random() LIMIT 1)
			`, city)
		default:
			_, err = pool.Exec(ctx, `
				UPDATE properties SET price = $2, updated_at = now()
				WHERE id = (SELECT id FROM properties WHERE city = $1 ORDER BY random() LIMIT 1)
			`, city, float64(50000+rng.Intn(950000)))
		}
		if err != nil {
			return fmt.Errorf("flipper update: %w", err)
		}
		pause(rng)
	}
}

// Remover deletes random listings in the city.
func Remover(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, city string, stop <-chan struct{}) error {
	for {
		if done, err := stopped(ctx, stop); done {
			return err
		}

		_, err := pool.Exec(ctx, `
			DELETE FROM properties
			WHERE id = (SELECT id FROM properties WHERE city = $1 ORDER BY random() LIMIT 1)
		`, city)
		if err != nil {
			return fmt.Errorf("remover delete: %w", err)
		}
		pause(rng)
	}
}
