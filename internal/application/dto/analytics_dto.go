package dto

import (
	"github.com/russellmoss/dashboard-api/internal/domain/funnel"
	"github.com/russellmoss/dashboard-api/internal/domain/ranking"
	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsQuery parámetros comunes de las consultas analíticas.
type AnalyticsQuery struct {
	StartDate      string   `query:"start_date"` // YYYY-MM-DD; por defecto hace 12 meses
	EndDate        string   `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
	Mode           string   `query:"mode"`       // period|cohort; por defecto cohort
	Granularity    string   `query:"granularity"` // month|quarter; por defecto month
	SGANames       []string `query:"sga_names"`
	SGMNames       []string `query:"sgm_names"`
	RecruiterNames []string `query:"recruiter_names"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// FunnelSummaryDTO resumen de conversión de las cuatro transiciones.
type FunnelSummaryDTO struct {
	Summary funnel.Summary `json:"summary"`
}

// FunnelTrendDTO serie temporal de una transición.
type FunnelTrendDTO struct {
	Transition string             `json:"transition"`
	Mode       string             `json:"mode"`
	Points     []funnel.TrendPoint `json:"points"`
}

// LeaderboardDTO ranking de asesores cerrados por SGA.
type LeaderboardDTO struct {
	Entries []ranking.Ranked `json:"entries"`
}

// AdvisorDetailDTO drill-down de un asesor. Para capital_partner llega con la
// misma forma enmascarada que la vista agregada.
type AdvisorDetailDTO struct {
	AdvisorName string          `json:"advisor_name"`
	SGAName     string          `json:"sga_name,omitempty"`
	SGMName     string          `json:"sgm_name,omitempty"`
	AUM         decimal.Decimal `json:"aum"`
	ClosedCount int             `json:"closed_count"`
}

// HubSummaryDTO resumen de la segunda superficie analítica (hub): AUM total y
// cierres agregados por SGM.
type HubSummaryDTO struct {
	TotalAUM     decimal.Decimal  `json:"total_aum"`
	TotalClosed  int              `json:"total_closed"`
	ClosedBySGM  []ranking.Ranked `json:"closed_by_sgm"`
	AdvisorCount int              `json:"advisor_count"`
}

// GameLeaderboardDTO ranking del minijuego.
type GameLeaderboardDTO struct {
	Entries []ranking.Ranked `json:"entries"`
}
