package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
)

// respondError mapea la taxonomía de errores de dominio a respuestas HTTP.
// Los fallos upstream responden 502 con mensaje genérico: el detalle del
// warehouse queda en los logs, nunca en el cliente.
func respondError(c *fiber.Ctx, err error) error {
	if ce, ok := domain.AsCooldown(err); ok {
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.CooldownResponse{
			Code:                     "COOLDOWN_ACTIVE",
			CooldownMinutesRemaining: ce.RemainingMinutes(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrSessionInvalid):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "sesión inválida"})
	case errors.Is(err, domain.ErrForbidden):
		return forbidden(c)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrUpstreamQuery):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "la consulta analítica no está disponible"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
