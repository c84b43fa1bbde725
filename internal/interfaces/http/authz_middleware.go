package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
)

// Guards HTTP. Se componen por ruta en el router; un deny responde 403 con
// motivo mínimo, sin detallar la regla que lo produjo.

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
}

// RequirePage deja pasar solo si la página está permitida para el rol.
func RequirePage(page access.PageID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPermissions(c)
		if !ok {
			return unauthorized(c)
		}
		if !access.RequiresPage(p, page) {
			return forbidden(c)
		}
		return c.Next()
	}
}

// ForbidRole deniega los roles listados (capital-partner-restricted etc.).
func ForbidRole(roles ...access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPermissions(c)
		if !ok {
			return unauthorized(c)
		}
		if !access.ForbidRoles(p, roles...) {
			return forbidden(c)
		}
		return c.Next()
	}
}

// RequireAnyRole deja pasar solo a los roles listados.
func RequireAnyRole(roles ...access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPermissions(c)
		if !ok {
			return unauthorized(c)
		}
		if !access.RequireAnyRole(p, roles...) {
			return forbidden(c)
		}
		return c.Next()
	}
}

// SchedulerAuth autentica el tick del scheduler con un shared secret en
// header propio. Comparación en tiempo constante; no pasa por JWT ni por el
// resolver de permisos.
func SchedulerAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Scheduler-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return unauthorized(c)
		}
		return c.Next()
	}
}
