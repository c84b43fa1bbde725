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
	"github.com/shopspring/decimal"
)

var _ repository.GoalRepository = (*GoalRepo)(nil)

// GoalRepo implementación del puerto GoalRepository sobre PostgreSQL.
type GoalRepo struct {
	pool *pgxpool.Pool
}

// NewGoalRepository construye el adaptador de persistencia para metas.
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

const goalColumns = `id, user_id, goal_type, period, target_value, actual_value, notes, created_at, updated_at`

// Create persiste una meta nueva.
func (r *GoalRepo) Create(ctx context.Context, g *entity.Goal) error {
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		g.ID, g.UserID, g.GoalType, g.Period, g.TargetValue, g.ActualValue,
		g.Notes, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetByID obtiene una meta por ID. Devuelve (nil, nil) si no existe.
func (r *GoalRepo) GetByID(ctx context.Context, id string) (*entity.Goal, error) {
	var g entity.Goal
	err := scanGoal(r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id), &g)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &g, nil
}

// ListByUser metas de un usuario ordenadas por período descendente.
func (r *GoalRepo) ListByUser(ctx context.Context, userID string) ([]entity.Goal, error) {
	return r.list(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY period DESC`, userID)
}

// ListByPeriod metas de todos los usuarios para un período.
func (r *GoalRepo) ListByPeriod(ctx context.Context, period string) ([]entity.Goal, error) {
	return r.list(ctx, `SELECT `+goalColumns+` FROM goals WHERE period = $1 ORDER BY user_id`, period)
}

// UpdateActual actualiza el valor real acumulado de la meta.
func (r *GoalRepo) UpdateActual(ctx context.Context, id string, actual decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE goals SET actual_value = $2, updated_at = now() WHERE id = $1`, id, actual)
	if err != nil {
		return fmt.Errorf("update goal actual: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la meta.
func (r *GoalRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GoalRepo) list(ctx context.Context, query string, arg any) ([]entity.Goal, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []entity.Goal
	for rows.Next() {
		var g entity.Goal
		if err := scanGoal(rows, &g); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func scanGoal(row pgx.Row, g *entity.Goal) error {
	return row.Scan(
		&g.ID, &g.UserID, &g.GoalType, &g.Period, &g.TargetValue, &g.ActualValue,
		&g.Notes, &g.CreatedAt, &g.UpdatedAt,
	)
}
