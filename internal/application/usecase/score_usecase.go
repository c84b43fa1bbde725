package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/ranking"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

// ScoreUseCase puntuaciones del minijuego del dashboard.
type ScoreUseCase struct {
	repo repository.GameScoreRepository
}

// NewScoreUseCase construye el caso de uso de puntuaciones.
func NewScoreUseCase(repo repository.GameScoreRepository) *ScoreUseCase {
	return &ScoreUseCase{repo: repo}
}

// Submit registra una puntuación. El nombre del jugador lo elige el cliente;
// no tiene por qué coincidir con el nombre del usuario.
func (uc *ScoreUseCase) Submit(ctx context.Context, userID string, in dto.SubmitScoreRequest) error {
	if in.PlayerName == "" || in.Score < 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.Create(ctx, &entity.GameScore{
		ID:         uuid.New().String(),
		UserID:     userID,
		PlayerName: in.PlayerName,
		Score:      in.Score,
		CreatedAt:  time.Now(),
	})
}

// Leaderboard ranking de mejores puntuaciones por jugador, con el mismo
// esquema de empates en competición estándar que el leaderboard de asesores.
func (uc *ScoreUseCase) Leaderboard(ctx context.Context, limit int) (dto.GameLeaderboardDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	entries, err := uc.repo.TopByPlayer(ctx, limit)
	if err != nil {
		return dto.GameLeaderboardDTO{}, err
	}
	return dto.GameLeaderboardDTO{Entries: ranking.Rank(entries)}, nil
}
