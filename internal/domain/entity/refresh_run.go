package entity

import "time"

// Estados de un RefreshRun. Máquina: pending → running → {succeeded, failed}.
const (
	RunStatePending   = "pending"
	RunStateRunning   = "running"
	RunStateSucceeded = "succeeded"
	RunStateFailed    = "failed"
)

// RefreshRun registro del ledger de refrescos del warehouse. Nunca se borra:
// es la pista de auditoría de quién forzó un refresh y cómo terminó.
type RefreshRun struct {
	ID            string
	PipelineRunID string // id del run en el pipeline externo; vacío hasta que Start responde
	TriggeredBy   string // user id, o "scheduler"
	State         string
	TriggeredAt   time.Time
	CompletedAt   *time.Time
	CooldownUntil time.Time // ventana que este run dejó fijada al ser aceptado
	FailureReason string
}

// Terminal indica si el run ya no va a cambiar de estado.
func (r *RefreshRun) Terminal() bool {
	return r.State == RunStateSucceeded || r.State == RunStateFailed
}
