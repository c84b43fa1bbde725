package repository

import (
	"context"
	"time"

	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// AnalyticsSource colaborador de consultas analíticas (warehouse). Contrato:
// mismos argumentos → mismo resultado hasta el siguiente refresh externo del
// snapshot; esa propiedad es la que hace seguro memoizar detrás del
// CacheGateway. El dialecto y el texto de las consultas quedan fuera de este
// repo.
//
// Las implementaciones deben respetar el deadline del contexto: una consulta
// que no responde a tiempo falla con error reintentable, nunca cuelga el
// handler.
type AnalyticsSource interface {
	// FetchFunnelRecords filas crudas del funnel con fechas por etapa,
	// ya restringidas por el filtro efectivo de fila.
	FetchFunnelRecords(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.FunnelRecord, error)

	// FetchAdvisorRows filas por asesor (AUM, cierres) para leaderboard y
	// detalle.
	FetchAdvisorRows(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.AdvisorRow, error)
}
