package repository

import (
	"context"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// GoalRepository persistencia de metas por usuario.
type GoalRepository interface {
	Create(ctx context.Context, g *entity.Goal) error
	GetByID(ctx context.Context, id string) (*entity.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Goal, error)
	ListByPeriod(ctx context.Context, period string) ([]entity.Goal, error)
	UpdateActual(ctx context.Context, id string, actual decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
