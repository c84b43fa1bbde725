package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación del puerto RequestRepository sobre PostgreSQL.
type RequestRepo struct {
	pool *pgxpool.Pool
}

// NewRequestRepository construye el adaptador de persistencia para solicitudes.
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

const requestColumns = `id, requester_id, title, description, category, status, assignee_id, created_at, updated_at`

// Create persiste una solicitud nueva.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.RequesterID, req.Title, req.Description, req.Category,
		req.Status, req.AssigneeID, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Devuelve (nil, nil) si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	var req entity.Request
	err := scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, id), &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &req, nil
}

// ListByRequester solicitudes creadas por un usuario, recientes primero.
func (r *RequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]entity.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE requester_id = $1 ORDER BY created_at DESC`,
		requesterID)
}

// ListByStatus solicitudes en un estado dado, recientes primero.
func (r *RequestRepo) ListByStatus(ctx context.Context, status string) ([]entity.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE status = $1 ORDER BY created_at DESC`,
		status)
}

// UpdateStatus cambia estado y asignado de una solicitud.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id, status, assigneeID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE requests SET status = $2, assignee_id = $3, updated_at = now() WHERE id = $1`,
		id, status, assigneeID)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RequestRepo) list(ctx context.Context, query string, arg any) ([]entity.Request, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var reqs []entity.Request
	for rows.Next() {
		var req entity.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func scanRequest(row pgx.Row, req *entity.Request) error {
	return row.Scan(
		&req.ID, &req.RequesterID, &req.Title, &req.Description, &req.Category,
		&req.Status, &req.AssigneeID, &req.CreatedAt, &req.UpdatedAt,
	)
}
