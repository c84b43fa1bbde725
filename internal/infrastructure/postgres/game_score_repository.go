package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/ranking"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

var _ repository.GameScoreRepository = (*GameScoreRepo)(nil)

// GameScoreRepo implementación del puerto GameScoreRepository sobre PostgreSQL.
type GameScoreRepo struct {
	pool *pgxpool.Pool
}

// NewGameScoreRepository construye el adaptador de persistencia de puntuaciones.
func NewGameScoreRepository(pool *pgxpool.Pool) *GameScoreRepo {
	return &GameScoreRepo{pool: pool}
}

// Create persiste una puntuación nueva.
func (r *GameScoreRepo) Create(ctx context.Context, s *entity.GameScore) error {
	query := `
		INSERT INTO game_scores (id, user_id, player_name, score, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, s.ID, s.UserID, s.PlayerName, s.Score, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game score: %w", err)
	}
	return nil
}

// TopByPlayer mejor puntuación por jugador, lista para el ranker. La
// asignación de rangos (empates incluidos) se hace en dominio, no en SQL.
func (r *GameScoreRepo) TopByPlayer(ctx context.Context, limit int) ([]ranking.Entry, error) {
	query := `
		SELECT player_name, MAX(score) AS best
		FROM game_scores
		GROUP BY player_name
		ORDER BY best DESC, player_name
		LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top game scores: %w", err)
	}
	defer rows.Close()

	var entries []ranking.Entry
	for rows.Next() {
		var e ranking.Entry
		if err := rows.Scan(&e.Name, &e.Count); err != nil {
			return nil, fmt.Errorf("scan game score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
