package assignments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relieflink/backend/internal/models"
)

// Repository handles request-level assignment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an assignments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const assignmentColumns = `id, request_id, organization_id, dispatcher_id, status,
	notes, created_at, updated_at, closed_at`

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(&a.ID, &a.RequestID, &a.OrganizationID, &a.DispatcherID, &a.Status,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an assignment in status new. The partial unique index on active
// assignments makes the "one active assignment per request" check atomic: a
// concurrent duplicate surfaces as a unique violation, mapped to ErrAlreadyAssigned.
func (r *Repository) Create(ctx context.Context, a *models.Assignment) error {
	const q = `INSERT INTO assignments (request_id, organization_id, dispatcher_id, status, notes)
		VALUES ($1, $2, $3, 'new', $4)
		RETURNING id, status, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, a.RequestID, a.OrganizationID, a.DispatcherID, a.Notes).
		Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == "23505": // unique violation on the active index
				return models.ErrAlreadyAssigned
			case pgErr.Code == "23503": // missing request or organization
				return models.ErrNotFound
			}
		}
		return err
	}
	return nil
}

// GetByID returns an assignment by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
}

// ListByRequest returns a request's assignments, newest first.
func (r *Repository) ListByRequest(ctx context.Context, requestID int64) ([]*models.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE request_id = $1 ORDER BY created_at DESC`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateStatus moves an assignment along its linear lifecycle, stamping closed_at
// on the transition to closed. Backward moves return ErrInvalidStatus.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) (*models.Assignment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(status) {
		return nil, models.ErrInvalidStatus
	}
	const q = `UPDATE assignments
		SET status = $2, updated_at = NOW(),
			closed_at = CASE WHEN $2 = 'closed' AND closed_at IS NULL THEN NOW() ELSE closed_at END
		WHERE id = $1 RETURNING ` + assignmentColumns
	return scanAssignment(r.pool.QueryRow(ctx, q, id, status))
}
