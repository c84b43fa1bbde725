package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FunnelRecord fila cruda del warehouse con las fechas de cada etapa del
// funnel de reclutamiento para un candidato a asesor. Una fecha nil significa
// que la etapa nunca se alcanzó.
//
// El mismo dataset alimenta los dos modos de conversión (period y cohort);
// no hay almacenamiento separado por modo.
type FunnelRecord struct {
	AdvisorName   string
	AdvisorEmail  string
	AdvisorPhone  string
	SGAName       string
	SGMName       string
	RecruiterName string
	AUM           decimal.Decimal

	ContactedAt      *time.Time
	QualifiedAt      *time.Time
	SalesQualifiedAt *time.Time
	OpportunityAt    *time.Time
	ClosedAt         *time.Time
}

// AdvisorRow fila de analítica por asesor tal como sale del warehouse. Es la
// forma que ve el dashboard; para capital_partner pasa antes por el proyector
// de anonimización.
type AdvisorRow struct {
	AdvisorName  string          `json:"advisor_name"`
	AdvisorEmail string          `json:"advisor_email,omitempty"`
	AdvisorPhone string          `json:"advisor_phone,omitempty"`
	SGAName      string          `json:"sga_name,omitempty"`
	SGMName      string          `json:"sgm_name,omitempty"`
	AUM          decimal.Decimal `json:"aum"`
	ClosedCount  int             `json:"closed_count"`
	JoinedAt     *time.Time      `json:"joined_at,omitempty"`
}
