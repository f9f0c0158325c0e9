package organizations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relieflink/backend/internal/models"
)

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `id, name, contact_phone, verification_status, suspended,
	latitude, longitude, address, offers, created_at, updated_at`

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.ContactPhone, &o.VerificationStatus, &o.Suspended,
		&o.Latitude, &o.Longitude, &o.Address, &o.Offers, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Create inserts an organization with verification pending.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (name, contact_phone, latitude, longitude, address, offers)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, verification_status, suspended, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, org.Name, org.ContactPhone, org.Latitude, org.Longitude, org.Address, org.Offers).
		Scan(&org.ID, &org.VerificationStatus, &org.Suspended, &org.CreatedAt, &org.UpdatedAt)
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return scanOrg(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id))
}

// List returns all organizations, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.Organization, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// ListEligible returns organizations that are verified/approved and not suspended.
func (r *Repository) ListEligible(ctx context.Context) ([]*models.Organization, error) {
	const q = `SELECT ` + orgColumns + ` FROM organizations
		WHERE verification_status IN ('verified', 'approved') AND NOT suspended`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Candidate is an eligible organization with its great-circle distance from a
// query point.
type Candidate struct {
	Organization models.Organization `json:"organization"`
	DistanceKm   float64             `json:"distance_km"`
}

// EligibleWithinRadius returns eligible organizations within radiusKm of the given
// point, nearest first, capped at limit. Distance is computed with the haversine
// formula in SQL so the store bounds the result set.
func (r *Repository) EligibleWithinRadius(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Candidate, error) {
	const q = `SELECT ` + orgColumns + `, distance_km FROM (
			SELECT ` + orgColumns + `,
				6371 * acos(least(1.0, greatest(-1.0,
					cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2))
					+ sin(radians($1)) * sin(radians(latitude))))) AS distance_km
			FROM organizations
			WHERE verification_status IN ('verified', 'approved') AND NOT suspended
		) candidates
		WHERE distance_km <= $3
		ORDER BY distance_km ASC
		LIMIT $4`
	rows, err := r.pool.Query(ctx, q, lat, lng, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("radius query: %w", err)
	}
	defer rows.Close()
	var list []Candidate
	for rows.Next() {
		var c Candidate
		o := &c.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.ContactPhone, &o.VerificationStatus, &o.Suspended,
			&o.Latitude, &o.Longitude, &o.Address, &o.Offers, &o.CreatedAt, &o.UpdatedAt,
			&c.DistanceKm); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateVerification sets the organization's verification status.
func (r *Repository) UpdateVerification(ctx context.Context, id uuid.UUID, status models.VerificationStatus) (*models.Organization, error) {
	const q = `UPDATE organizations SET verification_status = $2, updated_at = NOW()
		WHERE id = $1 RETURNING ` + orgColumns
	return scanOrg(r.pool.QueryRow(ctx, q, id, status))
}

// UpdateSuspended toggles the organization's suspension flag.
func (r *Repository) UpdateSuspended(ctx context.Context, id uuid.UUID, suspended bool) (*models.Organization, error) {
	const q = `UPDATE organizations SET suspended = $2, updated_at = NOW()
		WHERE id = $1 RETURNING ` + orgColumns
	return scanOrg(r.pool.QueryRow(ctx, q, id, suspended))
}

// UpdateOffers replaces the organization's declared capacity list.
func (r *Repository) UpdateOffers(ctx context.Context, id uuid.UUID, offers []models.Offer) (*models.Organization, error) {
	const q = `UPDATE organizations SET offers = $2, updated_at = NOW()
		WHERE id = $1 RETURNING ` + orgColumns
	return scanOrg(r.pool.QueryRow(ctx, q, id, offers))
}
