package repository

import (
	"context"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/ranking"
)

// GameScoreRepository persistencia de puntuaciones del minijuego.
type GameScoreRepository interface {
	Create(ctx context.Context, s *entity.GameScore) error
	// TopByPlayer devuelve la mejor puntuación agregada por jugador, lista
	// para pasar por el ranker.
	TopByPlayer(ctx context.Context, limit int) ([]ranking.Entry, error)
}
