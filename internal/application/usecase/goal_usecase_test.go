package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// fakeGoalRepo repositorio de metas en memoria.
type fakeGoalRepo struct {
	goals map[string]*entity.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]*entity.Goal{}}
}

func (f *fakeGoalRepo) Create(ctx context.Context, g *entity.Goal) error {
	cp := *g
	f.goals[g.ID] = &cp
	return nil
}

func (f *fakeGoalRepo) GetByID(ctx context.Context, id string) (*entity.Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoalRepo) ListByUser(ctx context.Context, userID string) ([]entity.Goal, error) {
	var out []entity.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) ListByPeriod(ctx context.Context, period string) ([]entity.Goal, error) {
	var out []entity.Goal
	for _, g := range f.goals {
		if g.Period == period {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) UpdateActual(ctx context.Context, id string, actual decimal.Decimal) error {
	g, ok := f.goals[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.ActualValue = actual
	return nil
}

func (f *fakeGoalRepo) Delete(ctx context.Context, id string) error {
	delete(f.goals, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────

func TestGoal_ProgresoCalculado(t *testing.T) {
	uc := usecase.NewGoalUseCase(newFakeGoalRepo())
	ctx := context.Background()

	goal, err := uc.Create(ctx, dto.CreateGoalRequest{
		UserID:      "u-1",
		GoalType:    entity.GoalTypeClosings,
		Period:      "2026-Q3",
		TargetValue: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.True(t, goal.Progress.IsZero(), "meta recién creada arranca en 0%")

	updated, err := uc.UpdateActual(ctx, goal.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, updated.Progress.Equal(decimal.NewFromInt(25)), "5/20 debe ser 25%%, fue %s", updated.Progress)
}

// Target cero reporta progreso 0, sin división por cero.
func TestGoal_TargetCeroProgresoCero(t *testing.T) {
	uc := usecase.NewGoalUseCase(newFakeGoalRepo())
	ctx := context.Background()

	goal, err := uc.Create(ctx, dto.CreateGoalRequest{
		UserID:      "u-1",
		GoalType:    entity.GoalTypeAUM,
		Period:      "2026",
		TargetValue: decimal.Zero,
	})
	require.NoError(t, err)

	updated, err := uc.UpdateActual(ctx, goal.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, updated.Progress.IsZero())
}

func TestGoal_TipoInvalido(t *testing.T) {
	uc := usecase.NewGoalUseCase(newFakeGoalRepo())
	_, err := uc.Create(context.Background(), dto.CreateGoalRequest{
		UserID:      "u-1",
		GoalType:    "ventas",
		Period:      "2026",
		TargetValue: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGoal_ActualNegativoRechazado(t *testing.T) {
	repo := newFakeGoalRepo()
	uc := usecase.NewGoalUseCase(repo)
	ctx := context.Background()

	goal, err := uc.Create(ctx, dto.CreateGoalRequest{
		UserID:      "u-1",
		GoalType:    entity.GoalTypeRecruiting,
		Period:      "2026-Q1",
		TargetValue: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = uc.UpdateActual(ctx, goal.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
