package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relieflink/backend/internal/models"
)

// Repository handles request and component persistence. Components are owned by
// requests, so their store operations live here too.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a requests repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `id, status, contact_name, contact_phone, location, address,
	special_needs, needs, adults, children, elderly, priority, is_sos, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var r models.Request
	err := row.Scan(&r.ID, &r.Status, &r.ContactName, &r.ContactPhone, &r.Location, &r.Address,
		&r.SpecialNeeds, &r.Needs, &r.Beneficiaries.Adults, &r.Beneficiaries.Children,
		&r.Beneficiaries.Elderly, &r.Priority, &r.IsSOS, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Create persists a triaged request together with its decomposed components in one
// transaction. The request ID must already be sequence-allocated.
func (r *Repository) Create(ctx context.Context, req *models.Request) error {
	lat, lng, _ := req.Location.Point()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO requests
		(id, status, contact_name, contact_phone, location, latitude, longitude, address,
		 special_needs, needs, adults, children, elderly, priority, is_sos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, q,
		req.ID, req.Status, req.ContactName, req.ContactPhone, req.Location, lat, lng,
		req.Address, req.SpecialNeeds, req.Needs, req.Beneficiaries.Adults,
		req.Beneficiaries.Children, req.Beneficiaries.Elderly, req.Priority, req.IsSOS,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	if err := createComponents(ctx, tx, ComponentsFromNeeds(req.ID, req.Needs)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateComponents decomposes an already-persisted request into components.
// Safe to re-invoke: the (request_id, resource_type) unique constraint turns
// duplicates into no-ops.
func (r *Repository) CreateComponents(ctx context.Context, components []models.Component) error {
	return createComponents(ctx, r.pool, components)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func createComponents(ctx context.Context, db execer, components []models.Component) error {
	const q = `INSERT INTO components (request_id, resource_type, quantity, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (request_id, resource_type) DO NOTHING`
	for _, c := range components {
		if _, err := db.Exec(ctx, q, c.RequestID, c.Type, c.Quantity, c.Status); err != nil {
			return fmt.Errorf("insert component %s: %w", c.Type, err)
		}
	}
	return nil
}

// GetByID returns a request by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	return scanRequest(r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
}

// List returns requests, optionally filtered by status, newest first.
func (r *Repository) List(ctx context.Context, status models.RequestStatus) ([]*models.Request, error) {
	q := `SELECT ` + requestColumns + ` FROM requests`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// UpdateStatus sets the request status unconditionally.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Close marks the request closed. Idempotent: returns true only on the transition,
// false when the request was already closed.
func (r *Repository) Close(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE requests SET status = 'closed', updated_at = NOW() WHERE id = $1 AND status <> 'closed'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateNeeds replaces the request's embedded needs list.
func (r *Repository) UpdateNeeds(ctx context.Context, id int64, needs []models.Need) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE requests SET needs = $2, updated_at = NOW() WHERE id = $1`, id, needs)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const componentColumns = `id, request_id, resource_type, quantity, status,
	organization_id, dispatcher_id, created_at, updated_at`

func scanComponent(row pgx.Row) (*models.Component, error) {
	var c models.Component
	err := row.Scan(&c.ID, &c.RequestID, &c.Type, &c.Quantity, &c.Status,
		&c.OrganizationID, &c.DispatcherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListComponents returns the request's components in creation order.
func (r *Repository) ListComponents(ctx context.Context, requestID int64) ([]*models.Component, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+componentColumns+` FROM components WHERE request_id = $1 ORDER BY created_at ASC`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetComponent returns one component by ID.
func (r *Repository) GetComponent(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	return scanComponent(r.pool.QueryRow(ctx,
		`SELECT `+componentColumns+` FROM components WHERE id = $1`, id))
}

// AssignComponent binds a component to an organization, marking the matching need
// on the parent request as assigned with a back-reference.
func (r *Repository) AssignComponent(ctx context.Context, id, orgID, dispatcherID uuid.UUID) (*models.Component, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE components
		SET organization_id = $2, dispatcher_id = $3, status = 'assigned', updated_at = NOW()
		WHERE id = $1 RETURNING ` + componentColumns
	comp, err := scanComponent(tx.QueryRow(ctx, q, id, orgID, dispatcherID))
	if err != nil {
		return nil, err
	}

	req, err := scanRequest(tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, comp.RequestID))
	if err != nil {
		return nil, err
	}
	for i := range req.Needs {
		if req.Needs[i].Type == comp.Type {
			req.Needs[i].AssignmentStatus = models.NeedAssigned
			req.Needs[i].OrganizationID = &orgID
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE requests SET needs = $2, updated_at = NOW() WHERE id = $1`,
		req.ID, req.Needs); err != nil {
		return nil, fmt.Errorf("update needs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return comp, nil
}

// UpdateComponentStatus sets the component status and re-evaluates all sibling
// components: once every component of the request is delivered or closed, the
// parent request closes. This is the authoritative closure path. Returns the
// updated component and whether the parent request transitioned to closed.
func (r *Repository) UpdateComponentStatus(ctx context.Context, id uuid.UUID, status models.ComponentStatus) (*models.Component, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE components SET status = $2, updated_at = NOW()
		WHERE id = $1 RETURNING ` + componentColumns
	comp, err := scanComponent(tx.QueryRow(ctx, q, id, status))
	if err != nil {
		return nil, false, err
	}

	var open int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM components WHERE request_id = $1 AND status NOT IN ('delivered', 'closed')`,
		comp.RequestID).Scan(&open)
	if err != nil {
		return nil, false, err
	}

	requestClosed := false
	if open == 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE requests SET status = 'closed', updated_at = NOW() WHERE id = $1 AND status <> 'closed'`,
			comp.RequestID)
		if err != nil {
			return nil, false, err
		}
		requestClosed = tag.RowsAffected() > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return comp, requestClosed, nil
}
