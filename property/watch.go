package property

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"luxestate/db"
)

// SnapshotSearcher is the read access a Watcher needs from the
// repository.
type SnapshotSearcher interface {
	Search(ctx context.Context, f Filter) ([]Property, error)
}

// Watcher turns table change notifications into a stream of query
// snapshots. Each Watch call owns one LISTEN connection for its
// lifetime.
type Watcher struct {
	pool *pgxpool.Pool
	repo SnapshotSearcher
}

// NewWatcher builds a Watcher over the given pool and repository.
func NewWatcher(pool *pgxpool.Pool, repo SnapshotSearcher) *Watcher {
	return &Watcher{pool: pool, repo: repo}
}

// Subscription is a cancellable stream of query snapshots. Updates is
// closed when the subscription ends; Err reports why, and is nil after
// a plain Close.
type Subscription struct {
	updates chan []Property
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

func newSubscription(parent context.Context) (*Subscription, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription{
		updates: make(chan []Property, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}, ctx
}

// Updates delivers one complete result set per store change, newest
// listing first. The channel is closed on Close or failure.
func (s *Subscription) Updates() <-chan []Property {
	return s.updates
}

// Err reports the failure that ended the stream. Only meaningful after
// Updates is closed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the subscription down and waits until no further
// snapshots can be delivered. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// deliver hands a snapshot to the consumer, giving up when the
// subscription is cancelled.
func (s *Subscription) deliver(ctx context.Context, list []Property) error {
	select {
	case s.updates <- list:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish records the terminal error and closes the stream.
func (s *Subscription) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.updates)
	close(s.done)
}

// Watch establishes a live subscription for the filter's indexable
// predicates. The first snapshot arrives as soon as the initial query
// completes; subsequent snapshots follow every change to the
// properties table. Price bounds in f are ignored here; consumers
// re-filter each snapshot with ApplyPriceBounds.
func (w *Watcher) Watch(ctx context.Context, f Filter) *Subscription {
	sub, watchCtx := newSubscription(ctx)

	go func() {
		err := db.Listen(watchCtx, w.pool, NotifyChannel, func(ctx context.Context) error {
			list, err := w.repo.Search(ctx, f)
			if err != nil {
				return err
			}
			return sub.deliver(ctx, list)
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
		sub.finish(err)
	}()

	return sub
}
