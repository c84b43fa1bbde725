package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
//
// Taxonomía del gateway: ErrSessionInvalid termina la request antes de
// evaluar cualquier guard (401, no 403); ErrForbidden termina después del
// Authorizer y antes de cualquier consulta; ErrUpstreamQuery nunca produce
// entrada de caché.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrSessionInvalid     = errors.New("descriptor de sesión inválido o ausente")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUpstreamQuery      = errors.New("fallo en la consulta analítica upstream")
	ErrCacheWriteSkipped  = errors.New("write de caché omitido por tamaño")
)

// CooldownError resultado esperado (no fatal) de un trigger de refresh dentro
// de la ventana de cooldown. Lleva el tiempo restante para mostrarlo al operador.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown activo: faltan %d minutos", e.RemainingMinutes())
}

// RemainingMinutes minutos restantes redondeados hacia arriba (nunca 0 si queda tiempo).
func (e *CooldownError) RemainingMinutes() int {
	if e.Remaining <= 0 {
		return 0
	}
	m := int((e.Remaining + time.Minute - 1) / time.Minute)
	return m
}

// AsCooldown devuelve el CooldownError envuelto en err, si lo hay.
func AsCooldown(err error) (*CooldownError, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
