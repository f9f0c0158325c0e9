package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relieflink/backend/internal/models"
)

// Repository fetches the rows the aggregator works over. It never mutates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `id, status, contact_name, contact_phone, location, address,
	special_needs, needs, adults, children, elderly, priority, is_sos, created_at, updated_at`

func collectRequests(rows pgx.Rows) ([]*models.Request, error) {
	defer rows.Close()
	var list []*models.Request
	for rows.Next() {
		var r models.Request
		err := rows.Scan(&r.ID, &r.Status, &r.ContactName, &r.ContactPhone, &r.Location, &r.Address,
			&r.SpecialNeeds, &r.Needs, &r.Beneficiaries.Adults, &r.Beneficiaries.Children,
			&r.Beneficiaries.Elderly, &r.Priority, &r.IsSOS, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, &r)
	}
	return list, rows.Err()
}

// ActiveRequests returns all non-closed requests.
func (r *Repository) ActiveRequests(ctx context.Context) ([]*models.Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE status <> 'closed'`)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// RequestsCreatedBetween returns requests created in [from, to), regardless of
// current status. One call per trend bucket.
func (r *Repository) RequestsCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE created_at >= $1 AND created_at < $2`,
		from, to)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// EligibleOrganizations returns organizations that count toward supply.
func (r *Repository) EligibleOrganizations(ctx context.Context) ([]*models.Organization, error) {
	const q = `SELECT id, name, contact_phone, verification_status, suspended,
			latitude, longitude, address, offers, created_at, updated_at
		FROM organizations
		WHERE verification_status IN ('verified', 'approved') AND NOT suspended`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		var o models.Organization
		err := rows.Scan(&o.ID, &o.Name, &o.ContactPhone, &o.VerificationStatus, &o.Suspended,
			&o.Latitude, &o.Longitude, &o.Address, &o.Offers, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
