package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested property does not exist.
var ErrNotFound = errors.New("property: not found")

// NotifyChannel is the Postgres NOTIFY channel fired by the properties
// table triggers on every insert, update and delete.
const NotifyChannel = "property_events"

// CreateParams enumerates the writable fields of a new listing.
type CreateParams struct {
	Title          string
	Description    string
	Price          float64
	Location       Location
	Specifications Specifications
	Images         []string
	VideoURL       *string
	VirtualTourURL *string
	Amenities      []string
	Featured       bool
	AgentID        string
}

// PGRepository implements property persistence backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const propertyColumns = `
	id, title, description, price,
	address, city, state, zip_code, lat, lng,
	bedrooms, bathrooms, sqft, lot_size, year_built, property_type::text,
	images, video_url, virtual_tour_url, amenities,
	status::text, featured, agent_id, created_at, updated_at, view_count
`

// Create inserts a new listing with status available.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Property, error) {
	if params.Title == "" {
		return Property{}, fmt.Errorf("property: title required")
	}
	if params.Price < 0 {
		return Property{}, fmt.Errorf("property: negative price")
	}
	if !ValidType(params.Specifications.PropertyType) {
		return Property{}, fmt.Errorf("property: invalid type %q", params.Specifications.PropertyType)
	}
	if params.AgentID == "" {
		return Property{}, fmt.Errorf("property: agent id required")
	}

	insertSQL := `
		INSERT INTO properties (
			title, description, price,
			address, city, state, zip_code, lat, lng,
			bedrooms, bathrooms, sqft, lot_size, year_built, property_type,
			images, video_url, virtual_tour_url, amenities,
			status, featured, agent_id
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15::property_type,$16,$17,$18,$19,'available',$20,$21)
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, insertSQL,
		params.Title,
		params.Description,
		params.Price,
		params.Location.Address,
		params.Location.City,
		params.Location.State,
		params.Location.ZipCode,
		params.Location.Lat,
		params.Location.Lng,
		params.Specifications.Bedrooms,
		params.Specifications.Bathrooms,
		params.Specifications.Sqft,
		params.Specifications.LotSize,
		params.Specifications.YearBuilt,
		params.Specifications.PropertyType,
		params.Images,
		params.VideoURL,
		params.VirtualTourURL,
		params.Amenities,
		params.Featured,
		params.AgentID,
	)

	prop, err := scanProperty(row)
	if err != nil {
		return Property{}, fmt.Errorf("property: create: %w", err)
	}
	return prop, nil
}

// GetByID fetches a listing by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	prop, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: get by id: %w", err)
	}
	return prop, nil
}

// Search returns listings matching the filter's indexable predicates,
// newest first. Price bounds are deliberately not part of the query;
// callers apply Filter.ApplyPriceBounds to the result.
func (r *PGRepository) Search(ctx context.Context, f Filter) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`

	var (
		conds []string
		args  []any
	)
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}
	if f.City != nil {
		args = append(args, *f.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if f.PropertyType != nil {
		args = append(args, *f.PropertyType)
		conds = append(conds, fmt.Sprintf("property_type = $%d::property_type", len(args)))
	}
	if min := f.MinBedrooms(); min > 0 {
		args = append(args, min)
		conds = append(conds, fmt.Sprintf("bedrooms >= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("property: search: %w", err)
	}
	defer rows.Close()

	props := make([]Property, 0, 16)
	for rows.Next() {
		prop, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("property: scan: %w", err)
		}
		props = append(props, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("property: iterate: %w", err)
	}
	return props, nil
}

// SetStatus updates the sales state of a listing.
func (r *PGRepository) SetStatus(ctx context.Context, id string, status Status) (Property, error) {
	if !ValidStatus(status) {
		return Property{}, fmt.Errorf("property: invalid status %q", status)
	}

	query := `
		UPDATE properties
		SET status = $2::property_status, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	prop, err := scanProperty(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: set status: %w", err)
	}
	return prop, nil
}

// SetFeatured toggles the featured flag of a listing.
func (r *PGRepository) SetFeatured(ctx context.Context, id string, featured bool) (Property, error) {
	query := `
		UPDATE properties
		SET featured = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	prop, err := scanProperty(r.pool.QueryRow(ctx, query, id, featured))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: set featured: %w", err)
	}
	return prop, nil
}

// Delete removes a listing.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("property: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter. The counter is written
// only here, never by the read models.
func (r *PGRepository) IncrementViewCount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE properties SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("property: increment view count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var (
		p         Property
		lotSize   *int
		yearBuilt *int
		videoURL  *string
		tourURL   *string
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Location.Address,
		&p.Location.City,
		&p.Location.State,
		&p.Location.ZipCode,
		&p.Location.Lat,
		&p.Location.Lng,
		&p.Specifications.Bedrooms,
		&p.Specifications.Bathrooms,
		&p.Specifications.Sqft,
		&lotSize,
		&yearBuilt,
		&p.Specifications.PropertyType,
		&p.Images,
		&videoURL,
		&tourURL,
		&p.Amenities,
		&p.Status,
		&p.Featured,
		&p.AgentID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.ViewCount,
	)
	if err != nil {
		return Property{}, err
	}

	p.Specifications.LotSize = lotSize
	p.Specifications.YearBuilt = yearBuilt
	p.VideoURL = videoURL
	p.VirtualTourURL = tourURL
	return p, nil
}
