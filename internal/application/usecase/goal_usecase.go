package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// GoalUseCase metas por usuario con progreso calculado.
type GoalUseCase struct {
	repo repository.GoalRepository
}

// NewGoalUseCase construye el caso de uso de metas.
func NewGoalUseCase(repo repository.GoalRepository) *GoalUseCase {
	return &GoalUseCase{repo: repo}
}

// Create alta de una meta.
func (uc *GoalUseCase) Create(ctx context.Context, in dto.CreateGoalRequest) (*dto.GoalResponse, error) {
	switch in.GoalType {
	case entity.GoalTypeRecruiting, entity.GoalTypeAUM, entity.GoalTypeClosings:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.UserID == "" || in.Period == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TargetValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	goal := &entity.Goal{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		GoalType:    in.GoalType,
		Period:      in.Period,
		TargetValue: in.TargetValue,
		ActualValue: decimal.Zero,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return toGoalResponse(goal), nil
}

// ListByUser metas de un usuario.
func (uc *GoalUseCase) ListByUser(ctx context.Context, userID string) ([]dto.GoalResponse, error) {
	goals, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, *toGoalResponse(&goals[i]))
	}
	return out, nil
}

// ListByPeriod metas de un período ("2026-Q3", "2026").
func (uc *GoalUseCase) ListByPeriod(ctx context.Context, period string) ([]dto.GoalResponse, error) {
	goals, err := uc.repo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, *toGoalResponse(&goals[i]))
	}
	return out, nil
}

// UpdateActual actualiza el valor alcanzado de una meta.
func (uc *GoalUseCase) UpdateActual(ctx context.Context, id string, actual decimal.Decimal) (*dto.GoalResponse, error) {
	if actual.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	goal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateActual(ctx, id, actual); err != nil {
		return nil, err
	}
	goal.ActualValue = actual
	goal.UpdatedAt = time.Now()
	return toGoalResponse(goal), nil
}

// Delete elimina una meta.
func (uc *GoalUseCase) Delete(ctx context.Context, id string) error {
	goal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if goal == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

var hundred = decimal.NewFromInt(100)

// toGoalResponse calcula el progreso en %: actual/target * 100, 0 si el
// target es 0 (nunca división por cero).
func toGoalResponse(g *entity.Goal) *dto.GoalResponse {
	progress := decimal.Zero
	if !g.TargetValue.IsZero() {
		progress = g.ActualValue.Div(g.TargetValue).Mul(hundred).Round(2)
	}
	return &dto.GoalResponse{
		ID:          g.ID,
		UserID:      g.UserID,
		GoalType:    g.GoalType,
		Period:      g.Period,
		TargetValue: g.TargetValue,
		ActualValue: g.ActualValue,
		Progress:    progress,
		Notes:       g.Notes,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
