package agent

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"luxestate/db"
)

// Repository is the persistence access the service needs.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Agent, error)
	GetByID(ctx context.Context, id string) (Agent, error)
	Directory(ctx context.Context, f DirectoryFilter) ([]Agent, error)
	ListPending(ctx context.Context) ([]Agent, error)
	SetActive(ctx context.Context, id string, active bool) (Agent, error)
	Delete(ctx context.Context, id string) error
}

// Notifier delivers transient user-facing messages, fire-and-forget.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Service exposes business-level agent operations.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService builds a Service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Register creates an inactive profile pending admin approval.
func (s *Service) Register(ctx context.Context, params CreateParams) (Agent, error) {
	a, err := s.repo.Create(ctx, params)
	if err != nil {
		s.notifyError(ctx, "Failed to submit agent application")
		return Agent{}, err
	}
	s.notifySuccess(ctx, "Application submitted, pending approval")
	return a, nil
}

// Get fetches one agent profile.
func (s *Service) Get(ctx context.Context, id string) (Agent, error) {
	return s.repo.GetByID(ctx, id)
}

// Directory lists active agents matching the filter.
func (s *Service) Directory(ctx context.Context, f DirectoryFilter) ([]Agent, error) {
	return s.repo.Directory(ctx, f)
}

// Pending lists profiles awaiting approval.
func (s *Service) Pending(ctx context.Context) ([]Agent, error) {
	return s.repo.ListPending(ctx)
}

// Approve activates a pending profile, making it visible in the
// directory and allowing the agent to list properties.
func (s *Service) Approve(ctx context.Context, id string) (Agent, error) {
	a, err := s.repo.SetActive(ctx, id, true)
	if err != nil {
		s.notifyError(ctx, "Failed to approve agent")
		return Agent{}, err
	}
	s.notifySuccess(ctx, "Agent approved")
	return a, nil
}

// Reject removes a pending profile. Rejecting an already-active agent
// is refused.
func (s *Service) Reject(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Active {
		return fmt.Errorf("agent: cannot reject an active agent")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.notifyError(ctx, "Failed to reject agent")
		return err
	}
	s.notifySuccess(ctx, "Agent application rejected")
	return nil
}

// Watcher streams directory snapshots for the admin dashboard and the
// public agents page.
type Watcher struct {
	pool *pgxpool.Pool
	repo Repository
}

// NewWatcher builds a Watcher over the given pool and repository.
func NewWatcher(pool *pgxpool.Pool, repo Repository) *Watcher {
	return &Watcher{pool: pool, repo: repo}
}

// Watch delivers the active directory matching f, re-queried on every
// agents table change until ctx is cancelled. Snapshots are sent on
// the returned channel, which is closed when the stream ends; errs
// receives the terminal error, if any.
func (w *Watcher) Watch(ctx context.Context, f DirectoryFilter) (<-chan []Agent, <-chan error) {
	snapshots := make(chan []Agent, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(snapshots)
		err := db.Listen(ctx, w.pool, NotifyChannel, func(ctx context.Context) error {
			agents, err := w.repo.Directory(ctx, f)
			if err != nil {
				return err
			}
			select {
			case snapshots <- agents:
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
