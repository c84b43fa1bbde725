// Package usecase casos de uso de soporte del dashboard: gestión de usuarios,
// metas, solicitudes internas y puntuaciones del minijuego.
package usecase

import (
	"context"

	"github.com/russellmoss/dashboard-api/internal/application/auth"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

// Estados válidos de un usuario.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// UserUseCase administración de usuarios (solo admin / revops_admin, los
// handlers componen el guard de rol).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List todos los usuarios del dashboard.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *auth.ToUserResponse(&users[i]))
	}
	return out, nil
}

// GetByID un usuario por id.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// UpdateRole cambia rol y filtros personales de un usuario. El invariante de
// filtro requerido se revalida con un Resolve de prueba igual que en el alta:
// un update nunca deja a un sga sin su SGAFilter.
func (uc *UserUseCase) UpdateRole(ctx context.Context, id string, in dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	role, ok := access.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if _, err := access.Resolve(access.SessionDescriptor{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            role.String(),
		SGAFilter:       in.SGAFilter,
		SGMFilter:       in.SGMFilter,
		RecruiterFilter: in.RecruiterFilter,
	}); err != nil {
		return nil, domain.ErrInvalidInput
	}
	user.Role = role.String()
	user.SGAFilter = in.SGAFilter
	user.SGMFilter = in.SGMFilter
	user.RecruiterFilter = in.RecruiterFilter
	if in.Name != "" {
		user.Name = in.Name
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// SetStatus activa, desactiva o suspende un usuario. Un usuario no activo
// conserva su registro (auditoría) pero su login queda rechazado.
func (uc *UserUseCase) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
	default:
		return domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.SetStatus(ctx, id, status)
}
