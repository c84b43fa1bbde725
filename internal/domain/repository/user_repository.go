package repository

import (
	"context"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios del dashboard.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SetStatus(ctx context.Context, id, status string) error
}
