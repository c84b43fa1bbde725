package repository

import (
	"context"
	"time"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// RefreshRunRepository ledger durable de runs de refresh más el reloj de
// cooldown compartido entre instancias.
type RefreshRunRepository interface {
	// CreateIfCooldownExpired es el check-and-set atómico del cooldown: en una
	// sola unidad transaccional comprueba que no hay ventana activa, fija la
	// nueva (now + window) y crea el run en estado pending. Si la ventana
	// sigue activa devuelve *domain.CooldownError con el tiempo restante y NO
	// crea nada. Dos llamadas concurrentes nunca pasan ambas.
	CreateIfCooldownExpired(ctx context.Context, run *entity.RefreshRun, window time.Duration) error

	// MarkRunning asocia el id del run externo y pasa pending → running.
	MarkRunning(ctx context.Context, id, pipelineRunID string) error

	// Complete fija el estado terminal. Devuelve true solo si ESTA llamada
	// hizo la transición (el run no era terminal): así la cascada de
	// invalidación se dispara exactamente una vez aunque se haga poll
	// concurrente.
	Complete(ctx context.Context, id, state, failureReason string) (bool, error)

	GetByID(ctx context.Context, id string) (*entity.RefreshRun, error)

	// List runs más recientes primero; el ledger nunca borra (auditoría).
	List(ctx context.Context, limit int) ([]entity.RefreshRun, error)
}
