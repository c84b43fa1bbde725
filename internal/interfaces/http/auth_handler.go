package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/auth"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register alta de usuario. La ruta va detrás del guard de gestión de
// usuarios (admin / revops_admin); esto no es un signup abierto.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y role son requeridos"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password debe tener al menos 8 caracteres"})
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifica credenciales y emite el token con el descriptor completo.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		// Credenciales malas y usuario inexistente responden igual.
		if err == domain.ErrUserNotFound || err == domain.ErrSessionInvalid {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me devuelve el principal resuelto de la sesión actual (la UI lo usa para
// decidir qué páginas renderizar).
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	pages := make([]string, 0, len(p.AllowedPages))
	for page, allowed := range p.AllowedPages {
		if allowed {
			pages = append(pages, string(page))
		}
	}
	return c.JSON(fiber.Map{
		"user_id":       p.UserID,
		"email":         p.Email,
		"role":          p.Role.String(),
		"allowed_pages": pages,
	})
}
