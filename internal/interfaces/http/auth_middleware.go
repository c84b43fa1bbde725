package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/pkg/jwt"
)

// LocalPermissions key de Fiber Locals con los Permissions resueltos.
const LocalPermissions = "permissions"

// AuthMiddleware valida el Bearer Token JWT, resuelve los Permissions del
// principal y los deja en c.Locals. Cualquier fallo de token o de resolución
// termina la request con 401 antes de evaluar guard alguno: nunca un
// descriptor roto llega a producir un 403.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		desc, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		perms, err := access.Resolve(access.SessionDescriptor{
			UserID:          desc.UserID,
			Email:           desc.Email,
			Role:            desc.Role,
			SGAFilter:       desc.SGAFilter,
			SGMFilter:       desc.SGMFilter,
			RecruiterFilter: desc.RecruiterFilter,
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "descriptor de sesión inválido"})
		}
		c.Locals(LocalPermissions, perms)
		return c.Next()
	}
}

// GetPermissions devuelve los Permissions del contexto (después del
// middleware de auth). El segundo valor es false si el middleware no corrió.
func GetPermissions(c *fiber.Ctx) (access.Permissions, bool) {
	v := c.Locals(LocalPermissions)
	if v == nil {
		return access.Permissions{}, false
	}
	p, ok := v.(access.Permissions)
	return p, ok
}
