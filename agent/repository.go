package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested agent does not exist.
	ErrNotFound = errors.New("agent: not found")
	// ErrDuplicateEmail signals the email already has a profile.
	ErrDuplicateEmail = errors.New("agent: email already registered")
)

// NotifyChannel is the Postgres NOTIFY channel fired by the agents
// table triggers.
const NotifyChannel = "agent_events"

// CreateParams contains the self-registration fields. New profiles are
// always created inactive.
type CreateParams struct {
	Name         string
	Email        string
	Phone        string
	Bio          string
	ProfileImage string
	Specialties  []string
}

// DirectoryFilter narrows the public agent directory. Term matches
// name or bio case-insensitively; Specialty must be one of the agent's
// specialties. Empty fields mean no constraint.
type DirectoryFilter struct {
	Term      string
	Specialty string
}

// PGRepository implements agent persistence backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const agentColumns = `
	id, name, email, phone, bio, profile_image_url,
	specialties, rating, review_count, active, created_at, updated_at
`

// Create inserts an inactive agent profile pending approval.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Agent, error) {
	if params.Name == "" || params.Email == "" {
		return Agent{}, fmt.Errorf("agent: name and email are required")
	}

	insertSQL := `
		INSERT INTO agents (name, email, phone, bio, profile_image_url, specialties, active)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING ` + agentColumns

	a, err := scanAgent(r.pool.QueryRow(ctx, insertSQL,
		params.Name,
		params.Email,
		params.Phone,
		params.Bio,
		params.ProfileImage,
		params.Specialties,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Agent{}, ErrDuplicateEmail
		}
		return Agent{}, fmt.Errorf("agent: create: %w", err)
	}
	return a, nil
}

// GetByID fetches an agent profile by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`

	a, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, fmt.Errorf("agent: get by id: %w", err)
	}
	return a, nil
}

// Directory lists active agents matching the filter, best-rated first.
func (r *PGRepository) Directory(ctx context.Context, f DirectoryFilter) ([]Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE active`

	var args []any
	if term := strings.TrimSpace(f.Term); term != "" {
		args = append(args, "%"+term+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR bio ILIKE $%d)", len(args), len(args))
	}
	if f.Specialty != "" {
		args = append(args, f.Specialty)
		query += fmt.Sprintf(" AND $%d = ANY(specialties)", len(args))
	}
	query += " ORDER BY rating DESC, review_count DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("agent: directory: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0, 16)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("agent: scan: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent: iterate: %w", err)
	}
	return agents, nil
}

// ListPending lists inactive profiles awaiting approval, oldest first.
func (r *PGRepository) ListPending(ctx context.Context) ([]Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE NOT active ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("agent: list pending: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0, 8)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("agent: scan pending: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent: iterate pending: %w", err)
	}
	return agents, nil
}

// SetActive flips the approval flag.
func (r *PGRepository) SetActive(ctx context.Context, id string, active bool) (Agent, error) {
	query := `
		UPDATE agents
		SET active = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + agentColumns

	a, err := scanAgent(r.pool.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, fmt.Errorf("agent: set active: %w", err)
	}
	return a, nil
}

// Delete removes an agent profile.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("agent: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.Bio,
		&a.ProfileImage,
		&a.Specialties,
		&a.Rating,
		&a.ReviewCount,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Agent{}, err
	}
	return a, nil
}
