package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

var _ repository.RefreshRunRepository = (*RefreshRunRepo)(nil)

// RefreshRunRepo ledger de runs de refresh + reloj de cooldown durable.
//
// El cooldown vive en una fila singleton (refresh_cooldown, id = 1) y se
// actualiza con un upsert condicional: el "¿hay cooldown activo?" y el "fijar
// nueva ventana" son UNA sola sentencia, por lo que la propiedad at-most-one
// se sostiene entre instancias del servidor, no solo entre requests de una.
type RefreshRunRepo struct {
	pool *pgxpool.Pool
}

// NewRefreshRunRepository construye el adaptador del ledger de refrescos.
func NewRefreshRunRepository(pool *pgxpool.Pool) *RefreshRunRepo {
	return &RefreshRunRepo{pool: pool}
}

const runColumns = `id, pipeline_run_id, triggered_by, state, triggered_at, completed_at, cooldown_until, failure_reason`

// CreateIfCooldownExpired check-and-set atómico: toma la ventana de cooldown
// y crea el run pending en la misma transacción. Si la ventana sigue activa
// devuelve *domain.CooldownError sin crear nada.
func (r *RefreshRunRepo) CreateIfCooldownExpired(ctx context.Context, run *entity.RefreshRun, window time.Duration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	until := run.TriggeredAt.Add(window)

	// Upsert condicional sobre la fila singleton. Solo gana quien encuentre
	// la ventana vencida (o inexistente); el perdedor no recibe fila.
	var newUntil time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO refresh_cooldown (id, cooldown_until)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET cooldown_until = EXCLUDED.cooldown_until
		WHERE refresh_cooldown.cooldown_until <= now()
		RETURNING cooldown_until`, until).Scan(&newUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		// Cooldown activo: leer cuánto falta y rechazar sin crear run.
		var active time.Time
		if err := tx.QueryRow(ctx,
			`SELECT cooldown_until FROM refresh_cooldown WHERE id = 1`).Scan(&active); err != nil {
			return fmt.Errorf("leer cooldown activo: %w", err)
		}
		return &domain.CooldownError{Remaining: time.Until(active)}
	}
	if err != nil {
		return fmt.Errorf("tomar ventana de cooldown: %w", err)
	}

	run.CooldownUntil = newUntil
	run.State = entity.RunStatePending
	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.PipelineRunID, run.TriggeredBy, run.State,
		run.TriggeredAt, run.CompletedAt, run.CooldownUntil, run.FailureReason,
	)
	if err != nil {
		return fmt.Errorf("insert refresh run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// MarkRunning asocia el run externo y pasa pending → running.
func (r *RefreshRunRepo) MarkRunning(ctx context.Context, id, pipelineRunID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE refresh_runs SET pipeline_run_id = $2, state = $3
		WHERE id = $1 AND state = $4`,
		id, pipelineRunID, entity.RunStateRunning, entity.RunStatePending)
	if err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Complete fija estado terminal. true solo si esta llamada hizo la
// transición, para que la cascada de invalidación se dispare una sola vez.
func (r *RefreshRunRepo) Complete(ctx context.Context, id, state, failureReason string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE refresh_runs
		SET state = $2, failure_reason = $3, completed_at = now()
		WHERE id = $1 AND state IN ($4, $5)`,
		id, state, failureReason, entity.RunStatePending, entity.RunStateRunning)
	if err != nil {
		return false, fmt.Errorf("complete run: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID obtiene un run del ledger. Devuelve (nil, nil) si no existe.
func (r *RefreshRunRepo) GetByID(ctx context.Context, id string) (*entity.RefreshRun, error) {
	var run entity.RefreshRun
	err := scanRun(r.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM refresh_runs WHERE id = $1`, id), &run)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh run: %w", err)
	}
	return &run, nil
}

// List runs recientes primero. El ledger nunca borra.
func (r *RefreshRunRepo) List(ctx context.Context, limit int) ([]entity.RefreshRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+` FROM refresh_runs ORDER BY triggered_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list refresh runs: %w", err)
	}
	defer rows.Close()

	var runs []entity.RefreshRun
	for rows.Next() {
		var run entity.RefreshRun
		if err := scanRun(rows, &run); err != nil {
			return nil, fmt.Errorf("scan refresh run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row, run *entity.RefreshRun) error {
	return row.Scan(
		&run.ID, &run.PipelineRunID, &run.TriggeredBy, &run.State,
		&run.TriggeredAt, &run.CompletedAt, &run.CooldownUntil, &run.FailureReason,
	)
}
