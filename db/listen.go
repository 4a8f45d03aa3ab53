package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Listen holds a dedicated connection on the given NOTIFY channel and
// invokes fn once up front and once per notification. Listen blocks
// until ctx is cancelled or fn fails; on cancellation it returns nil.
func Listen(ctx context.Context, pool *pgxpool.Pool, channel string, fn func(context.Context) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("db: acquire listen conn: %w", err)
	}
	defer conn.Release()

	ident := pgx.Identifier{channel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+ident); err != nil {
		return fmt.Errorf("db: listen %s: %w", channel, err)
	}

	if err := fn(ctx); err != nil {
		return err
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("db: wait for notification on %s: %w", channel, err)
		}

		if err := fn(ctx); err != nil {
			return err
		}
	}
}
