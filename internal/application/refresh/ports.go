package refresh

import (
	"context"
	"time"
)

// Estados que reporta el pipeline externo.
const (
	PipelineStatePending   = "pending"
	PipelineStateRunning   = "running"
	PipelineStateSucceeded = "succeeded"
	PipelineStateFailed    = "failed"
)

// PipelineRun estado de un run en el pipeline externo.
type PipelineRun struct {
	RunID       string
	State       string
	CompletedAt *time.Time
	Error       string
}

// PipelineClient puerto de salida hacia el pipeline de refresh. Solo dos
// operaciones; todo lo demás del pipeline es opaco para el gateway.
type PipelineClient interface {
	// Start dispara el run hijo del job padre y devuelve su id externo.
	Start(ctx context.Context, parentID string) (string, error)
	// GetRun consulta el estado. Lectura pura, segura de reintentar.
	GetRun(ctx context.Context, runID string) (PipelineRun, error)
}

// CacheInvalidator puerto hacia el CacheGateway para la cascada post-refresh.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}
