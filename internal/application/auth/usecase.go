// Package auth casos de uso de autenticación: alta de usuarios y login.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
	"github.com/russellmoss/dashboard-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: valida rol y filtro personal, hashea password
// con bcrypt y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	role, ok := access.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	// El invariante de filtro personal se valida emitiendo un Resolve de
	// prueba: si el rol exige filtro y no viene, el alta se rechaza aquí y no
	// en el primer login.
	if _, err := access.Resolve(access.SessionDescriptor{
		UserID:          "pending",
		Email:           email,
		Role:            role.String(),
		SGAFilter:       in.SGAFilter,
		SGMFilter:       in.SGMFilter,
		RecruiterFilter: in.RecruiterFilter,
	}); err != nil {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:              uuid.New().String(),
		Email:           email,
		PasswordHash:    string(hash),
		Name:            name,
		Role:            role.String(),
		SGAFilter:       in.SGAFilter,
		SGMFilter:       in.SGMFilter,
		RecruiterFilter: in.RecruiterFilter,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera el JWT con el descriptor completo
// (rol + filtros personales) y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrSessionInvalid
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Descriptor{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
		SGAFilter:       user.SGAFilter,
		SGMFilter:       user.SGMFilter,
		RecruiterFilter: user.RecruiterFilter,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// ToUserResponse proyección pública de un usuario.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		SGAFilter:       u.SGAFilter,
		SGMFilter:       u.SGMFilter,
		RecruiterFilter: u.RecruiterFilter,
		Status:          u.Status,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
