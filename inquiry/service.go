package inquiry

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"luxestate/db"
)

// Repository is the persistence access the service needs.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Inquiry, error)
	GetByID(ctx context.Context, id string) (Inquiry, error)
	List(ctx context.Context, status *Status) ([]Inquiry, error)
	Assign(ctx context.Context, id, agentID string) (Inquiry, error)
}

// Notifier delivers transient user-facing messages, fire-and-forget.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Service exposes business-level inquiry operations.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService builds a Service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Submit records a contact or viewing request.
func (s *Service) Submit(ctx context.Context, params CreateParams) (Inquiry, error) {
	inq, err := s.repo.Create(ctx, params)
	if err != nil {
		s.notifyError(ctx, "Failed to send your message")
		return Inquiry{}, err
	}
	s.notifySuccess(ctx, "Message sent, an agent will reach out shortly")
	return inq, nil
}

// Get fetches one inquiry.
func (s *Service) Get(ctx context.Context, id string) (Inquiry, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns inquiries, optionally restricted to one status.
func (s *Service) List(ctx context.Context, status *Status) ([]Inquiry, error) {
	return s.repo.List(ctx, status)
}

// Assign hands an inquiry to an agent, transitioning new to
// in-progress. Assignment is the only mutation an inquiry supports.
func (s *Service) Assign(ctx context.Context, id, agentID string) (Inquiry, error) {
	inq, err := s.repo.Assign(ctx, id, agentID)
	if err != nil {
		s.notifyError(ctx, "Failed to assign inquiry")
		return Inquiry{}, err
	}
	s.notifySuccess(ctx, "Inquiry assigned")
	return inq, nil
}

// Watcher streams inquiry snapshots for the admin dashboard.
type Watcher struct {
	pool *pgxpool.Pool
	repo Repository
}

// NewWatcher builds a Watcher over the given pool and repository.
func NewWatcher(pool *pgxpool.Pool, repo Repository) *Watcher {
	return &Watcher{pool: pool, repo: repo}
}

// Watch delivers inquiry listings re-queried on every inquiries table
// change until ctx is cancelled. The snapshot channel is closed when
// the stream ends; errs receives the terminal error, if any.
func (w *Watcher) Watch(ctx context.Context, status *Status) (<-chan []Inquiry, <-chan error) {
	snapshots := make(chan []Inquiry, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(snapshots)
		err := db.Listen(ctx, w.pool, NotifyChannel, func(ctx context.Context) error {
			list, err := w.repo.List(ctx, status)
			if err != nil {
				return err
			}
			select {
			case snapshots <- list:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()

	return snapshots, errs
}

func (s *Service) notifySuccess(ctx context.Context, msg string) {
	if s.notifier != nil {
		s.notifier.Success(ctx, msg)
	}
}

func (s *Service) notifyError(ctx context.Context, msg string) {
	if s.notifier != nil {
		s.notifier.Error(ctx, msg)
	}
}
