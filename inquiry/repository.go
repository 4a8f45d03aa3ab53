package inquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested inquiry does not exist.
	ErrNotFound = errors.New("inquiry: not found")
	// ErrAlreadyAssigned signals the inquiry has left the new state.
	ErrAlreadyAssigned = errors.New("inquiry: already assigned")
)

// NotifyChannel is the Postgres NOTIFY channel fired by the inquiries
// table triggers.
const NotifyChannel = "inquiry_events"

// CreateParams contains the contact-form fields of a new inquiry.
type CreateParams struct {
	PropertyID    string
	Name          string
	Email         string
	Phone         string
	Message       string
	PreferredDate *time.Time
}

// PGRepository implements inquiry persistence backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const inquiryColumns = `
	id, property_id, name, email, phone, message,
	preferred_date, status::text, assigned_agent_id, created_at
`

// Create inserts a new inquiry with status new.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Inquiry, error) {
	if params.PropertyID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: property id required")
	}
	if params.Name == "" || params.Email == "" {
		return Inquiry{}, fmt.Errorf("inquiry: name and email are required")
	}

	insertSQL := `
		INSERT INTO inquiries (property_id, name, email, phone, message, preferred_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'new')
		RETURNING ` + inquiryColumns

	inq, err := scanInquiry(r.pool.QueryRow(ctx, insertSQL,
		params.PropertyID,
		params.Name,
		params.Email,
		params.Phone,
		params.Message,
		params.PreferredDate,
	))
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: create: %w", err)
	}
	return inq, nil
}

// GetByID fetches an inquiry by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`

	inq, err := scanInquiry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: get by id: %w", err)
	}
	return inq, nil
}

// List returns inquiries newest first, optionally restricted to one
// status.
func (r *PGRepository) List(ctx context.Context, status *Status) ([]Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries`
	var args []any
	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1::inquiry_status"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list: %w", err)
	}
	defer rows.Close()

	out := make([]Inquiry, 0, 16)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("inquiry: scan: %w", err)
		}
		out = append(out, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate: %w", err)
	}
	return out, nil
}

// Assign sets the assigned agent and moves the inquiry from new to
// in-progress in one statement. Assigning an inquiry that already left
// the new state returns ErrAlreadyAssigned.
func (r *PGRepository) Assign(ctx context.Context, id, agentID string) (Inquiry, error) {
	query := `
		UPDATE inquiries
		SET assigned_agent_id = $2, status = 'in-progress'
		WHERE id = $1 AND status = 'new'
		RETURNING ` + inquiryColumns

	inq, err := scanInquiry(r.pool.QueryRow(ctx, query, id, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing inquiry from a non-new one.
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrNotFound) {
				return Inquiry{}, ErrNotFound
			}
			return Inquiry{}, ErrAlreadyAssigned
		}
		return Inquiry{}, fmt.Errorf("inquiry: assign: %w", err)
	}
	return inq, nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var (
		inq           Inquiry
		preferredDate *time.Time
		assignedAgent *string
	)
	err := row.Scan(
		&inq.ID,
		&inq.PropertyID,
		&inq.Name,
		&inq.Email,
		&inq.Phone,
		&inq.Message,
		&preferredDate,
		&inq.Status,
		&assignedAgent,
		&inq.CreatedAt,
	)
	if err != nil {
		return Inquiry{}, err
	}

	inq.PreferredDate = preferredDate
	inq.AssignedAgentID = assignedAgent
	return inq, nil
}
